package recipe

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Default name of the recipe file, resolved in the working directory.
const DefaultFile = "bindle.toml"

// Core loader libraries that must never be bundled. They define the host
// ABI; shipping them breaks the dynamic linker on other distributions.
var defaultExcludes = []string{
	"ld-linux",
	"libc.so",
	"libm.so",
	"libpthread.so",
	"libdl.so",
	"librt.so",
}

// NSS libraries loaded by Chromium with dlopen at runtime. They do not show
// up in ldd output and have to be staged by name.
var defaultNSS = []string{
	"libsoftokn3.so",
	"libsoftokn3.chk",
	"libnss3.so",
	"libnssutil3.so",
	"libsmime3.so",
	"libssl3.so",
	"libnssckbi.so",
	"libnspr4.so",
	"libplc4.so",
	"libplds4.so",
	"libfreebl3.so",
	"libfreeblpriv3.so",
}

// Glob patterns for best-effort extras. Missing matches are warnings, not
// failures.
var defaultExtras = []string{
	"/usr/lib/*-linux-gnu/libGLESv2.so*",
}

// Describes one packaging pipeline run.
type Recipe struct {
	Bundle  Bundle  `toml:"bundle"`
	Browser Browser `toml:"browser"`
	Libs    Libs    `toml:"libs"`
	Smoke   Smoke   `toml:"smoke"`
}

// Configures the packaging step.
type Bundle struct {
	Entrypoint string `toml:"entrypoint"` // Script bundled as the executable's entry point.
	Image      string `toml:"image"`      // Base image reference for the build container.
	Output     string `toml:"output"`     // Host directory receiving extracted artifacts.
	Static     bool   `toml:"static"`     // Apply staticx to the packaged binary.
}

// Configures the headless browser installed into the bundle.
type Browser struct {
	Engine     string `toml:"engine"`       // Browser engine to install (chromium).
	SkipOSDeps bool   `toml:"skip_os_deps"` // Skip the engine's OS dependency install step.
}

// Configures shared library collection.
type Libs struct {
	Exclude []string `toml:"exclude"` // Substring patterns of libraries never bundled.
	NSS     []string `toml:"nss"`     // NSS library names staged explicitly.
	Extra   []string `toml:"extra"`   // Glob patterns staged best-effort.
}

// Configures the runtime smoke test.
type Smoke struct {
	Image      string        `toml:"image"`   // Minimal image the artifact is executed in.
	RawTimeout string        `toml:"timeout"` // Timeout as a duration string (e.g. "2m").
	Timeout    time.Duration `toml:"-"`       // Parsed timeout.
}

// Returns a recipe populated with defaults.
//
// The defaults bundle a "main.py" entry point from a Debian-based Python
// build image and smoke-test the result in a slim Debian image.
func Default() Recipe {
	return Recipe{
		Bundle: Bundle{
			Entrypoint: "main.py",
			Image:      "docker.io/library/python:3.12-bookworm",
			Output:     "dist",
		},
		Browser: Browser{
			Engine: "chromium",
		},
		Libs: Libs{
			Exclude: append([]string(nil), defaultExcludes...),
			NSS:     append([]string(nil), defaultNSS...),
			Extra:   append([]string(nil), defaultExtras...),
		},
		Smoke: Smoke{
			Image:   "docker.io/library/debian:bookworm-slim",
			Timeout: 2 * time.Minute,
		},
	}
}

// Loads a recipe from a TOML file, applying defaults for unset fields.
//
// A missing file is not an error when path is the default file name: the
// pipeline then runs entirely on defaults.
func Load(path string) (Recipe, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) && path == DefaultFile {
		return Default(), nil
	}

	r := Default()
	meta, err := toml.DecodeFile(path, &r)
	if err != nil {
		return Recipe{}, fmt.Errorf("%w: %s: %v", ErrRecipe, path, err)
	}

	if meta.IsDefined("smoke", "timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(r.Smoke.RawTimeout))
		if err != nil {
			return Recipe{}, fmt.Errorf("%w: smoke timeout: %v", ErrRecipe, err)
		}
		r.Smoke.Timeout = d
	}

	if err := r.Validate(); err != nil {
		return Recipe{}, err
	}

	return r, nil
}

// Checks the recipe for fields that would make the pipeline fail late.
func (r Recipe) Validate() error {
	if strings.TrimSpace(r.Bundle.Entrypoint) == "" {
		return fmt.Errorf("%w: bundle entrypoint is required", ErrRecipe)
	}
	if strings.TrimSpace(r.Bundle.Image) == "" {
		return fmt.Errorf("%w: bundle image is required", ErrRecipe)
	}
	if strings.TrimSpace(r.Bundle.Output) == "" {
		return fmt.Errorf("%w: bundle output is required", ErrRecipe)
	}
	if strings.TrimSpace(r.Browser.Engine) == "" {
		return fmt.Errorf("%w: browser engine is required", ErrRecipe)
	}
	if strings.TrimSpace(r.Smoke.Image) == "" {
		return fmt.Errorf("%w: smoke image is required", ErrRecipe)
	}
	if r.Smoke.Timeout <= 0 {
		return fmt.Errorf("%w: smoke timeout must be positive", ErrRecipe)
	}
	return nil
}
