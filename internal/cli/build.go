package cli

import (
	"context"

	"github.com/quaylabs/bindle/internal/bundle"
	"github.com/quaylabs/bindle/internal/extract"
	"github.com/quaylabs/bindle/internal/recipe"
	"github.com/quaylabs/bindle/internal/runtime"
)

// Represents the 'bindle build' command.
type BuildCmd struct {
	Platform string `arg:"" optional:"" default:"linux/amd64" help:"Target platform (e.g. linux/arm64)."`
	Tag      string `arg:"" optional:"" default:"bindle-build:latest" help:"Name for the build environment."`
	Recipe   string `short:"r" default:"${recipe_file}" help:"Recipe file." placeholder:"FILE"`
}

// Executes the build command.
//
// Packages the recipe's entry script inside a build container, extracts the
// resulting executable to the output directory named by platform, and
// writes the build report and library manifest next to it.
func (c *BuildCmd) Run(ctx context.Context) error {
	rcp, err := recipe.Load(c.Recipe)
	if err != nil {
		return err
	}

	rt, err := runtime.New(RootCmd.Address, RootCmd.Namespace)
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := bundle.Run(ctx, rt, bundle.Options{
		Recipe:   rcp,
		Tag:      c.Tag,
		Platform: c.Platform,
		Root:     ".",
	})
	if err != nil {
		return err
	}
	defer result.Container.Destroy(context.WithoutCancel(ctx))

	artifact, err := extract.Run(ctx, result.Container, rcp.Bundle.Output)
	if err != nil {
		return err
	}

	return extract.WriteReport(rcp.Bundle.Output, artifact, result.Libraries, rcp.Bundle.Static)
}
