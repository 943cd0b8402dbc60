package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/quaylabs/bindle/internal"
	"github.com/quaylabs/bindle/internal/manifest"
	"github.com/quaylabs/bindle/internal/recipe"
	"github.com/quaylabs/bindle/internal/runtime"
)

// Represents the root command for the bindle CLI.
var RootCmd struct {
	Quiet     bool   `short:"q" help:"Suppress informational output."`
	Verbose   bool   `short:"v" help:"Enable verbose output."`
	Debug     bool   `short:"d" help:"Enable debug output."`
	Address   string `help:"Containerd socket address." env:"BINDLE_CONTAINERD_ADDRESS" default:"${containerd_address}" placeholder:"PATH"`
	Namespace string `help:"Containerd namespace." env:"BINDLE_CONTAINERD_NAMESPACE" default:"${containerd_namespace}"`

	Build   BuildCmd   `cmd:"" help:"Package the entry script and extract the artifact."`
	Smoke   SmokeCmd   `cmd:"" help:"Run the extracted artifact in a minimal container."`
	Diff    DiffCmd    `cmd:"" help:"Diff two library manifests after numeric normalization."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	// Local overrides for env-tagged flags; a missing .env file is fine.
	godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("Packages a browser automation script into a self-contained executable using containerized builds."),
		kong.UsageOnError(),
		kong.Vars{
			"version":              internal.VersionString(),
			"containerd_address":   runtime.DefaultAddress,
			"containerd_namespace": runtime.DefaultNamespace,
			"recipe_file":          recipe.DefaultFile,
			"manifest_from":        manifest.DefaultFromFile,
			"manifest_to":          manifest.DefaultToFile,
			"manifest_out":         manifest.DefaultOutFile,
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

// Configures the global logger based on CLI flags.
//
// Flags override build-time defaults set via linker flags.
func configureLogger() {
	debug := RootCmd.Debug || internal.IsDebug()
	quiet := RootCmd.Quiet || internal.IsQuiet()
	verbose := RootCmd.Verbose || internal.IsVerbose()

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	} else if quiet {
		level = slog.LevelWarn
	}

	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:     level,
		AddSource: verbose,
		NoColor:   !isatty(os.Stderr),
	})

	slog.SetDefault(slog.New(handler).WithGroup(internal.Name))
}

// Whether the given file is an interactive terminal.
func isatty(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
