package bundle

import "errors"

var (
	ErrBuild           = errors.New("build failed")
	ErrCommandFailed   = errors.New("command failed")
	ErrNoHeadlessShell = errors.New("headless_shell not found in browser package")
	ErrArtifactMissing = errors.New("packaged artifact missing")
)
