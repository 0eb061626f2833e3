package sharepoint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Command is the batch method command understood by UpdateListItems.
type Command string

const (
	CommandNew    Command = "New"
	CommandUpdate Command = "Update"
	CommandDelete Command = "Delete"
)

// NewItemID is the identifier marker used when creating an item.
const NewItemID = "New"

// Keys consumed from the flat mutation form before field iteration.
const (
	mutationKeyID      = "id"
	mutationKeyCommand = "command"
)

// MutationRequest describes one item mutation inside an UpdateListItems batch.
// Fields are written in order after the ID field; they are ignored by the server
// for Delete.
type MutationRequest struct {
	ID      string
	Command Command
	Fields  FieldSet
}

// NewItem builds a create mutation.
func NewItem(fields FieldSet) MutationRequest {
	return MutationRequest{ID: NewItemID, Command: CommandNew, Fields: fields}
}

// UpdateItem builds an update mutation for an existing item.
func UpdateItem(id string, fields FieldSet) MutationRequest {
	return MutationRequest{ID: id, Command: CommandUpdate, Fields: fields}
}

// DeleteItem builds a delete mutation.
func DeleteItem(id string) MutationRequest {
	return MutationRequest{ID: id, Command: CommandDelete}
}

// UnmarshalJSON decodes the flat form {"id": .., "command": .., "<field>": ..}.
// The id and command keys are consumed; every other key becomes a field in
// document order. Scalar values keep their literal JSON text.
func (m *MutationRequest) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("mutation must be a JSON object")
	}

	var out MutationRequest
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decode %q: %w", key, err)
		}
		value, err := scalarText(raw)
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}

		switch key {
		case mutationKeyID:
			out.ID = value
		case mutationKeyCommand:
			out.Command = Command(value)
		default:
			out.Fields = append(out.Fields, Field{Name: key, Value: value})
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*m = out
	return nil
}

// MarshalJSON writes the flat form with id and command first.
func (m MutationRequest) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	writePair := func(k, v string) {
		kb, _ := json.Marshal(k)
		vb, _ := json.Marshal(v)
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	writePair(mutationKeyID, m.ID)
	buf.WriteByte(',')
	writePair(mutationKeyCommand, string(m.Command))
	for _, f := range m.Fields {
		buf.WriteByte(',')
		writePair(f.Name, f.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func scalarText(raw json.RawMessage) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", err
	}
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return "", fmt.Errorf("value must be a string, number, boolean or null, got %T", v)
	}
}
