package extract

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/quaylabs/bindle/internal/bundle"
	"github.com/quaylabs/bindle/internal/paths"
)

// Name of the JSON build report written next to the artifact.
const reportFilename = "report.json"

// Describes one completed build for later inspection and comparison.
type Report struct {
	Artifact  string   `json:"artifact"`  // Host path of the extracted executable.
	Platform  string   `json:"platform"`  // Platform the artifact was built for.
	Size      int64    `json:"size"`      // Artifact size in bytes.
	Digest    string   `json:"digest"`    // Content digest of the artifact.
	Static    bool     `json:"static"`    // Whether the static variant was built.
	Libraries []string `json:"libraries"` // Manifest records of the bundled libraries.
}

// Writes the build report and the library manifest to the output directory.
//
// The manifest file is the input of the diff utility: one record per bundled
// library, named libs-dynamic.txt or libs-static.txt by build variant so two
// variants can be compared side by side.
func WriteReport(outputDir string, artifact *Artifact, libs []bundle.Library, static bool) error {
	lines := make([]string, 0, len(libs))
	for _, lib := range libs {
		lines = append(lines, lib.ManifestLine())
	}

	report := Report{
		Artifact:  artifact.Path,
		Platform:  artifact.Platform,
		Size:      artifact.Size,
		Digest:    artifact.Digest.String(),
		Static:    static,
		Libraries: lines,
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExtract, err)
	}

	reportPath := filepath.Join(outputDir, reportFilename)
	if err := os.WriteFile(reportPath, append(data, '\n'), paths.DefaultFileMode); err != nil {
		return fmt.Errorf("%w: %v", ErrExtract, err)
	}

	manifestPath := filepath.Join(outputDir, ManifestFilename(static))
	manifest := strings.Join(lines, "\n")
	if manifest != "" {
		manifest += "\n"
	}
	if err := os.WriteFile(manifestPath, []byte(manifest), paths.DefaultFileMode); err != nil {
		return fmt.Errorf("%w: %v", ErrExtract, err)
	}

	slog.Info("report written", "report", reportPath, "manifest", manifestPath)
	return nil
}

// Returns the manifest file name for a build variant.
func ManifestFilename(static bool) string {
	if static {
		return "libs-static.txt"
	}
	return "libs-dynamic.txt"
}
