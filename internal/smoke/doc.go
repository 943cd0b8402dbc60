// Package smoke executes extracted artifacts in minimal containers.
//
// A smoke test confirms the self-contained binary actually launches on a
// bare image for the target architecture: the host output directory is
// bind-mounted read-only, the artifact is exec'd directly, and the run is
// classified as passing, failing with a non-zero exit, or failing because
// the dynamic loader could not resolve a shared library. The last case is
// reported separately since it means the bundle's library set is wrong.
package smoke
