// Parses flags and configures logging for the bindle CLI.
//
// The CLI accepts the following global flags:
//
//	-q, --quiet     Suppress informational output.
//	-v, --verbose   Enable verbose output.
//	-d, --debug     Enable debug output.
//	    --address   Containerd socket address.
//	    --namespace Containerd namespace.
//
// Flags override build-time defaults set via linker flags. After parsing,
// the global logger is reconfigured to reflect the final level before the
// selected subcommand runs. The pipeline subcommands are build (package
// and extract), smoke (execute the artifact in a minimal container), and
// diff (compare library manifests between build variants).
package cli
