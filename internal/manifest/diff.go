package manifest

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/quaylabs/bindle/internal/paths"
)

// Fixed file names of the diff operation, resolved in the working
// directory.
const (
	DefaultFromFile = "libs-dynamic.txt"
	DefaultToFile   = "libs-static.txt"
	DefaultOutFile  = "libs-diff.txt"
)

// Lines of context around each hunk in the unified diff.
const diffContext = 3

// Compares two manifest files after numeric normalization and writes the
// unified diff to outPath.
//
// Differences between the normalized texts are an expected, informative
// outcome: the function returns differs=true with a nil error. Only a
// genuine failure of reading the inputs, computing the diff, or writing
// the output is an error. The output file is written even when the diff is
// empty, so repeated runs on unchanged inputs produce byte-identical
// results.
func Compare(fromPath, toPath, outPath string) (differs bool, err error) {
	from, err := os.ReadFile(fromPath)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrCompare, err)
	}
	to, err := os.ReadFile(toPath)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrCompare, err)
	}

	diff, err := unifiedDiff(Normalize(string(from)), Normalize(string(to)), fromPath, toPath)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrCompare, err)
	}

	if err := os.WriteFile(outPath, []byte(diff), paths.DefaultFileMode); err != nil {
		return false, fmt.Errorf("%w: %v", ErrCompare, err)
	}

	if diff == "" {
		slog.Info("manifests match after normalization", "from", fromPath, "to", toPath)
		return false, nil
	}

	slog.Info("manifests differ", "from", fromPath, "to", toPath, "output", outPath)
	return true, nil
}

// Computes a line-oriented unified diff of two normalized texts.
func unifiedDiff(from, to, fromName, toName string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(from),
		B:        difflib.SplitLines(to),
		FromFile: fromName,
		ToFile:   toName,
		Context:  diffContext,
	})
}
