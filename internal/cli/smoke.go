package cli

import (
	"context"

	"github.com/quaylabs/bindle/internal"
	"github.com/quaylabs/bindle/internal/recipe"
	"github.com/quaylabs/bindle/internal/runtime"
	"github.com/quaylabs/bindle/internal/smoke"
)

// Represents the 'bindle smoke' command.
type SmokeCmd struct {
	Platform string `arg:"" optional:"" default:"linux/amd64" help:"Target platform the artifact was built for."`
	Recipe   string `short:"r" default:"${recipe_file}" help:"Recipe file." placeholder:"FILE"`
}

// Executes the smoke command.
//
// Runs the previously extracted artifact inside the recipe's minimal image
// and fails when the binary does not launch cleanly.
func (c *SmokeCmd) Run(ctx context.Context) error {
	rcp, err := recipe.Load(c.Recipe)
	if err != nil {
		return err
	}

	rt, err := runtime.New(RootCmd.Address, RootCmd.Namespace)
	if err != nil {
		return err
	}
	defer rt.Close()

	_, err = smoke.Run(ctx, rt, smoke.Options{
		Image:     rcp.Smoke.Image,
		Platform:  c.Platform,
		OutputDir: rcp.Bundle.Output,
		Tag:       internal.Name,
		Timeout:   rcp.Smoke.Timeout,
	})
	return err
}
