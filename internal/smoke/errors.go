package smoke

import "errors"

var (
	ErrSmoke            = errors.New("smoke test failed")
	ErrArtifactMissing  = errors.New("artifact not found")
	ErrMissingLibraries = errors.New("missing shared libraries")
)
