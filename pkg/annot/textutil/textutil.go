// Package textutil holds the string-coercion helpers every analyzer shares.
// Analyzers never inspect raw field values directly; they go through
// Stringify so that non-string values behave identically everywhere.
package textutil

import (
	"fmt"
	"strings"
)

// Stringify coerces an arbitrary field value to its text representation.
// Strings pass through untouched; everything else gets its printed form,
// so a list field is analyzed against "[a b c]", not its elements.
func Stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(v)
	}
}

// ByteLen returns the encoded byte length of s, not the rune count.
func ByteLen(s string) int {
	return len(s)
}

// FlattenNewlines replaces newlines with spaces for single-line model inputs.
func FlattenNewlines(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}
