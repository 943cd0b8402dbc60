// Package extract copies build artifacts from containers to the host.
//
// The build step always leaves its executable at one fixed path inside the
// build container. Extraction streams exactly that path out as a tar
// archive, writes the file to the host output directory named by target
// platform, restores the executable bit, and records the artifact's size
// and content digest in a build report alongside the library manifest the
// diff utility consumes.
package extract
