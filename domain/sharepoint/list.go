package sharepoint

import (
	"strings"

	"github.com/google/uuid"
)

// List represents one list's metadata as reported by the Lists service.
// The server sends many attributes; all of them are kept in Attrs.
type List struct {
	Attrs FieldSet
}

// NewList creates a list from its attribute set.
func NewList(attrs FieldSet) *List {
	return &List{Attrs: attrs}
}

// Attr returns a raw list attribute.
func (l *List) Attr(name string) string {
	return l.Attrs.Value(name)
}

// ID returns the raw list ID, usually a braced GUID.
func (l *List) ID() string {
	return l.Attr("ID")
}

// GUID parses the list ID.
func (l *List) GUID() (uuid.UUID, error) {
	return uuid.Parse(l.ID())
}

// Title returns the display title of the list.
func (l *List) Title() string {
	return l.Attr("Title")
}

// Name returns the internal list name (the ID for most lists).
func (l *List) Name() string {
	return l.Attr("Name")
}

// Hidden reports whether the server marks the list as hidden.
func (l *List) Hidden() bool {
	return strings.EqualFold(l.Attr("Hidden"), "True")
}

// ItemCount returns the ItemCount attribute as reported.
func (l *List) ItemCount() string {
	return l.Attr("ItemCount")
}

// IsDocumentLibrary returns true if this is a document library (ServerTemplate 101)
func (l *List) IsDocumentLibrary() bool {
	return l.Attr("ServerTemplate") == "101"
}

func (l *List) MarshalJSON() ([]byte, error) {
	return l.Attrs.MarshalJSON()
}
