package sharepoint

import (
	"bytes"
	"encoding/json"
)

// Field is a single name/value pair as it appears on the wire.
type Field struct {
	Name  string
	Value string
}

// FieldSet is an ordered collection of fields. Order is the order fields were
// added (for parsed rows, document attribute order).
type FieldSet []Field

// Get returns the value for name and whether it was present.
func (fs FieldSet) Get(name string) (string, bool) {
	for _, f := range fs {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Value returns the value for name or empty string.
func (fs FieldSet) Value(name string) string {
	v, _ := fs.Get(name)
	return v
}

// Set replaces the value of an existing field or appends a new one.
func (fs FieldSet) Set(name, value string) FieldSet {
	for i := range fs {
		if fs[i].Name == name {
			fs[i].Value = value
			return fs
		}
	}
	return append(fs, Field{Name: name, Value: value})
}

// Names returns the field names in order.
func (fs FieldSet) Names() []string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.Name
	}
	return names
}

// MarshalJSON writes the fields as a JSON object, keeping field order.
func (fs FieldSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fs {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Map returns the fields as an unordered map.
func (fs FieldSet) Map() map[string]string {
	m := make(map[string]string, len(fs))
	for _, f := range fs {
		m[f.Name] = f.Value
	}
	return m
}

// ListItem represents one row returned by a list items query.
// Every attribute of the source row is kept, server-internal ones included.
type ListItem struct {
	Fields FieldSet
}

// NewListItem creates a list item from already ordered fields.
func NewListItem(fields FieldSet) ListItem {
	return ListItem{Fields: fields}
}

// Get returns the raw value of a field.
func (i ListItem) Get(name string) (string, bool) {
	return i.Fields.Get(name)
}

// Len returns the number of fields on the item.
func (i ListItem) Len() int {
	return len(i.Fields)
}

// ID returns the server item identifier (ows_ID), if present.
func (i ListItem) ID() string {
	return i.Fields.Value(FieldOwsID)
}

// Title returns ows_Title, falling back to ows_FileLeafRef for document libraries.
func (i ListItem) Title() string {
	if t := i.Fields.Value(FieldOwsTitle); t != "" {
		return t
	}
	return LookupValue(i.Fields.Value(FieldOwsFileLeafRef))
}

func (i ListItem) MarshalJSON() ([]byte, error) {
	return i.Fields.MarshalJSON()
}

// Map returns the item fields as a map.
func (i ListItem) Map() map[string]string {
	return i.Fields.Map()
}

// Common rowset attribute names
const (
	FieldOwsID          = "ows_ID"
	FieldOwsTitle       = "ows_Title"
	FieldOwsFileLeafRef = "ows_FileLeafRef"
	FieldOwsFileRef     = "ows_FileRef"
	FieldOwsContentType = "ows_ContentType"
	FieldOwsUniqueID    = "ows_UniqueId"
)

// LookupValue strips the "id;#" prefix SharePoint puts on lookup-style values
// such as ows_FileRef ("12;#sites/x/Shared Documents/a.docx").
func LookupValue(v string) string {
	for i := 0; i+1 < len(v); i++ {
		if v[i] == ';' && v[i+1] == '#' {
			return v[i+2:]
		}
	}
	return v
}
