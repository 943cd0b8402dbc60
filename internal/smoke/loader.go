package smoke

import (
	"regexp"
	"strings"
)

// Matches the glibc loader's diagnostic for an unresolvable library:
//
//	./app: error while loading shared libraries: libfoo.so.1: cannot open shared object file
var loaderErrPattern = regexp.MustCompile(`error while loading shared libraries:\s*([^\s:]+)`)

// Extracts the names of shared libraries the loader reported missing.
//
// The loader prints one diagnostic per failed launch, but the artifact may
// re-exec itself (the bundled browser does), so several distinct libraries
// can appear across the combined stderr. Duplicates are collapsed, order of
// first appearance is preserved.
func ParseMissingLibraries(stderr string) []string {
	var libs []string
	seen := make(map[string]bool)

	for _, line := range strings.Split(stderr, "\n") {
		m := loaderErrPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if name := m[1]; !seen[name] {
			seen[name] = true
			libs = append(libs, name)
		}
	}

	return libs
}
