// Package recipe describes a packaging pipeline run.
//
// A recipe is a small TOML file (bindle.toml by default) naming the entry
// script, the build and smoke base images, the browser engine, and the
// shared-library collection rules. Every field has a working default; an
// absent recipe file runs the pipeline entirely on defaults.
//
// Example recipe:
//
//	[bundle]
//	entrypoint = "main.py"
//	image = "docker.io/library/python:3.12-bookworm"
//	output = "dist"
//	static = false
//
//	[smoke]
//	image = "docker.io/library/debian:bookworm-slim"
//	timeout = "2m"
package recipe
