package cli

import (
	"context"
	"fmt"

	"github.com/quaylabs/bindle/internal/manifest"
)

// Represents the 'bindle diff' command.
type DiffCmd struct {
	From   string `default:"${manifest_from}" help:"First manifest file." placeholder:"FILE"`
	To     string `default:"${manifest_to}" help:"Second manifest file." placeholder:"FILE"`
	Output string `short:"o" default:"${manifest_out}" help:"Unified diff output file." placeholder:"FILE"`
}

// Executes the diff command.
//
// A non-empty diff is the expected way of learning that two build variants
// bundle different libraries; it is reported on stdout and the command
// still exits zero. Only a genuine tool failure is an error.
func (c *DiffCmd) Run(ctx context.Context) error {
	differs, err := manifest.Compare(c.From, c.To, c.Output)
	if err != nil {
		return err
	}

	if differs {
		fmt.Printf("manifests differ, see %s\n", c.Output)
	} else {
		fmt.Println("manifests match")
	}

	return nil
}
