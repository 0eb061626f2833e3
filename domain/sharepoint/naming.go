package sharepoint

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// FieldNamer converts a caller field key to the attribute name the server expects.
type FieldNamer interface {
	FieldName(name string) string
}

// FieldNamerFunc adapts a plain function to FieldNamer.
type FieldNamerFunc func(string) string

func (f FieldNamerFunc) FieldName(name string) string {
	return f(name)
}

// IdentityNamer passes names through untouched.
var IdentityNamer FieldNamer = FieldNamerFunc(func(s string) string { return s })

// CamelCaseNamer turns snake_case keys into the server's CamelCase
// (due_date -> DueDate). Segments that already have capitals keep them.
type CamelCaseNamer struct{}

func (CamelCaseNamer) FieldName(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	b.Grow(len(name))
	for _, p := range parts {
		if p == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(p)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(p[size:])
	}
	return b.String()
}
