package manifest

import "regexp"

// Placeholder written in place of volatile numeric fields.
const Placeholder = "<NUM>"

// Matches a numeric literal immediately followed by a comma. Only such
// comma-terminated numerics are volatile: a numeric last column with no
// trailing comma is deliberately left untouched, so the final
// unbounded-width field of a record always compares by value.
var volatileField = regexp.MustCompile(`[-+]?[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?,`)

// Replaces every volatile numeric field with the placeholder token.
//
// The trailing comma is preserved, line order is preserved, and all
// non-volatile text passes through byte-exact. Normalizing an already
// normalized text is a no-op.
func Normalize(text string) string {
	return volatileField.ReplaceAllString(text, Placeholder+",")
}
