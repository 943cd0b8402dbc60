// Provides the fixed filesystem contract of the pipeline.
//
// The build step always writes its executable to one path inside the build
// container, extraction copies exactly that path to the host output
// directory and names the result by target platform, and scratch files go
// to an XDG cache subdirectory named after the tool.
package paths
