package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	toolName = "bindle"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644

	// Permission mode for extracted executables.
	ExecFileMode os.FileMode = 0755

	// Base name of extracted artifacts. The platform slug is appended,
	// e.g. "app-linux-amd64".
	ArtifactBase = "app"

	// Fixed path inside the build container where the packaging step must
	// place its output. Extraction copies exactly this path to the host.
	ContainerArtifact = "/src/dist/main"

	// Working directory inside the build container.
	ContainerWorkdir = "/src"
)

// Path to the scratch directory for intermediate build files.
//
//	Linux:   $XDG_CACHE_HOME/bindle or ~/.cache/bindle
//	macOS:   ~/Library/Caches/bindle
func Staging() string {
	return filepath.Join(xdg.CacheHome, toolName)
}

// Returns the host path of the extracted artifact for a platform.
//
// The artifact is named by architecture so several platforms can share one
// output directory (e.g. "dist/app-linux-arm64").
func Artifact(outputDir, platform string) string {
	return filepath.Join(outputDir, fmt.Sprintf("%s-%s", ArtifactBase, PlatformSlug(platform)))
}

// Converts a platform string to a filesystem-safe slug.
//
// Replaces slashes with dashes (e.g., "linux/amd64" becomes "linux-amd64").
func PlatformSlug(platform string) string {
	return strings.ReplaceAll(platform, "/", "-")
}
