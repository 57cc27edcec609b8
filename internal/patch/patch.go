// Package patch implements the nonexhaustive-variant substitution as a pure
// text transformation, with no file system access.
package patch

import "regexp"

// Marker is the conditional-compilation attribute inserted above every
// matching variant line.
const Marker = `#[cfg(not(feature = "allow_exhaustive_enum"))]`

// variantRegex matches, anchored at a line start: optional indentation, an
// optional identifier, an optional '::' separator, then the literal
// __Nonexhaustive token.
var variantRegex = regexp.MustCompile(`(?m)^(?P<indent>[ \t]*)[0-9A-Za-z]*(?:::)?__Nonexhaustive`)

// Apply inserts Marker above every line whose start matches variantRegex,
// reusing the matched line's indentation. It returns the patched text and
// the number of insertions. All non-matching text is left untouched.
//
// Apply is not idempotent: the inserted marker line does not
// match the pattern itself, but the original variant line still does, so a
// second pass inserts a second marker above it.
func Apply(text string) (string, int) {
	count := len(variantRegex.FindAllStringIndex(text, -1))
	if count == 0 {
		return text, 0
	}
	patched := variantRegex.ReplaceAllString(text, "${indent}"+Marker+"\n$0")
	return patched, count
}
