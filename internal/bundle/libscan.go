package bundle

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Directories searched when a library is not in the ldconfig cache.
// Different distributions lay out libraries differently; a recursive
// search covers Debian's multiarch dirs as well as lib64 layouts.
var libSearchRoots = []string{"/usr/lib", "/lib"}

// Matches the resolved path in an ldd output line ("name => /path (addr)").
var lddPathPattern = regexp.MustCompile(`=>\s+(\S+)`)

// Matches the resolved path in an "ldconfig -p" cache line.
var ldconfigPathPattern = regexp.MustCompile(`=>\s+(\S+)$`)

// A shared library staged into the bundle.
type Library struct {
	Name    string // Base name of the library file.
	Size    int64  // Size in bytes inside the build container.
	Mode    int64  // Octal permission bits.
	Dynamic bool   // Discovered via the loader (true) or staged by name (false).
}

// Formats the library as a manifest record.
//
// The record is "name,size,mode,flag" with the flag as the last field. The
// flag carries no trailing comma, so it survives manifest normalization
// verbatim.
func (l Library) ManifestLine() string {
	flag := 0
	if l.Dynamic {
		flag = 1
	}
	return fmt.Sprintf("%s,%d,%d,%d", l.Name, l.Size, l.Mode, flag)
}

// Discovers, stages, and measures the shared libraries the browser binary
// needs at runtime.
//
// Loader-linked libraries come from ldd on headless_shell, filtered by the
// recipe's exclude patterns. The NSS set is resolved by name because the
// browser loads it with dlopen and it never appears in ldd output. Extra
// globs are included best-effort. Individual staging failures are warnings;
// the packager decides whether the result is usable.
func (s *session) collectLibraries(ctx context.Context) ([]Library, error) {
	shell, err := s.findHeadlessShell(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.run(ctx, "ldd "+shell)
	if err != nil {
		return nil, err
	}

	linked := ParseLddPaths(result.Stdout, s.rcp.Libs.Exclude)
	slog.Info("collected loader dependencies", "count", len(linked))

	named := s.resolveNamedLibs(ctx)
	extra := s.resolveExtraGlobs(ctx)

	staged, err := s.stageLibraries(ctx, linked, append(named, extra...))
	if err != nil {
		return nil, err
	}

	return staged, nil
}

// Locates the headless_shell binary inside the browser package directory.
func (s *session) findHeadlessShell(ctx context.Context) (string, error) {
	result, err := s.run(ctx,
		"find / -path '*playwright/driver/package*' -name headless_shell -type f 2>/dev/null | head -n 1")
	if err != nil {
		return "", err
	}

	shell := strings.TrimSpace(result.Stdout)
	if shell == "" {
		return "", ErrNoHeadlessShell
	}

	slog.Debug("headless shell located", "path", shell)
	return shell, nil
}

// Resolves the recipe's named libraries (the NSS set).
//
// The ldconfig cache is consulted first; names it does not know are searched
// for on the filesystem. Unresolvable names are logged and skipped: not all
// NSS components exist on every distribution.
func (s *session) resolveNamedLibs(ctx context.Context) []string {
	cache := ParseLdconfigCache(s.tryRun(ctx, "ldconfig -p").Stdout)

	var found []string
	for _, name := range s.rcp.Libs.NSS {
		if p, ok := cache[name]; ok {
			found = append(found, p)
			continue
		}

		roots := strings.Join(libSearchRoots, " ")
		out := s.tryRun(ctx, fmt.Sprintf("find %s -name %s -type f 2>/dev/null | head -n 1", roots, name))
		if p := strings.TrimSpace(out.Stdout); p != "" {
			found = append(found, p)
			continue
		}

		slog.Warn("named library not found", "name", name)
	}

	return found
}

// Expands the recipe's best-effort glob patterns inside the container.
func (s *session) resolveExtraGlobs(ctx context.Context) []string {
	var found []string
	for _, pattern := range s.rcp.Libs.Extra {
		out := s.tryRun(ctx, "ls -1 "+pattern+" 2>/dev/null")
		for _, line := range strings.Split(out.Stdout, "\n") {
			if p := strings.TrimSpace(line); p != "" {
				found = append(found, p)
			}
		}
	}
	return found
}

// Copies the collected libraries into the staging directory and measures
// them.
//
// Symlinks are followed so the staged file is the actual content, not a
// dangling link. A library that fails to copy is logged and skipped.
func (s *session) stageLibraries(ctx context.Context, linked, named []string) ([]Library, error) {
	if err := s.ctr.MkdirAll(ctx, stagingDir); err != nil {
		return nil, err
	}

	dynamic := make(map[string]bool, len(linked))
	for _, p := range linked {
		dynamic[path.Base(p)] = true
	}

	for _, src := range append(append([]string(nil), linked...), named...) {
		out := s.tryRun(ctx, fmt.Sprintf("cp -L %s %s/", src, stagingDir))
		if out.ExitCode != 0 {
			slog.Warn("failed to stage library", "path", src)
		}
	}

	result, err := s.run(ctx, fmt.Sprintf(`stat -c '%%n,%%s,%%a' %s/*`, stagingDir))
	if err != nil {
		return nil, err
	}

	libs := ParseStatLines(result.Stdout)
	for i := range libs {
		libs[i].Dynamic = dynamic[libs[i].Name]
	}

	slog.Info("libraries staged", "count", len(libs))
	return libs, nil
}

// Extracts bundleable library paths from ldd output.
//
// Lines without a "=>" mapping (the vDSO, statically linked notes) are
// skipped, as are unresolved entries ("not found") and any path matching an
// exclude pattern. The result is sorted and duplicate-free.
func ParseLddPaths(out string, excludes []string) []string {
	seen := make(map[string]bool)

	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "=>") {
			continue
		}

		m := lddPathPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		candidate := m[1]
		if !strings.HasPrefix(candidate, "/") {
			continue
		}
		if excluded(candidate, excludes) {
			continue
		}

		seen[candidate] = true
	}

	libs := make([]string, 0, len(seen))
	for p := range seen {
		libs = append(libs, p)
	}
	sort.Strings(libs)
	return libs
}

// Parses "ldconfig -p" output into a name-to-path map.
//
// Cache lines have the form "libX.so.6 (libc6,x86-64) => /lib/.../libX.so.6".
// The header line and entries without a resolved path are ignored.
func ParseLdconfigCache(out string) map[string]string {
	cache := make(map[string]string)

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)

		name, _, ok := strings.Cut(line, " ")
		if !ok || !strings.HasPrefix(name, "lib") {
			continue
		}

		m := ldconfigPathPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		if _, exists := cache[name]; !exists {
			cache[name] = m[1]
		}
	}

	return cache
}

// Parses "stat -c '%n,%s,%a'" output lines into library records.
//
// Malformed lines are skipped rather than failing the build; the staging
// directory contains only files this pipeline put there.
func ParseStatLines(out string) []Library {
	var libs []Library

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) != 3 {
			continue
		}

		size, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			continue
		}
		mode, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			continue
		}

		libs = append(libs, Library{
			Name: path.Base(parts[0]),
			Size: size,
			Mode: mode,
		})
	}

	sort.Slice(libs, func(i, j int) bool { return libs[i].Name < libs[j].Name })
	return libs
}

// Whether a library path matches any exclude pattern.
//
// Patterns are plain substrings, matching the loader's own naming: "libc.so"
// excludes every version suffix of libc.
func excluded(path string, excludes []string) bool {
	for _, ex := range excludes {
		if strings.Contains(path, ex) {
			return true
		}
	}
	return false
}
