// Package manifest compares library manifests between build variants.
//
// A manifest is a text report of bundled library records, one per line,
// with comma-separated fields. Size-like numeric fields vary between
// otherwise-equivalent builds, so both inputs are normalized first: every
// numeric literal immediately followed by a comma is replaced with a
// placeholder token. The normalized texts are then compared with a
// line-oriented unified diff.
//
// A non-empty diff is an expected outcome, not an error; it means the two
// builds bundle a different set of libraries. Only genuine tool failures
// (unreadable input, unwritable output) are errors.
package manifest
