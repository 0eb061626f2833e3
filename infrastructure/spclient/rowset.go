package spclient

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"spws/domain/sharepoint"
)

// ErrMalformedResponse is returned when a response body is not well-formed XML.
var ErrMalformedResponse = errors.New("malformed response")

// ParseRowset returns one ListItem per row element in the rowset namespace,
// in document order. Every attribute is kept verbatim as a field.
// A document without rows yields an empty, non-nil slice.
func ParseRowset(body []byte) ([]sharepoint.ListItem, error) {
	items := []sharepoint.ListItem{}
	err := walkElements(body, func(se xml.StartElement) error {
		if isRow(se.Name) {
			items = append(items, sharepoint.NewListItem(attrFields(se.Attr)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// parseLists returns every List element of a GetList or GetListCollection response.
func parseLists(body []byte) ([]*sharepoint.List, error) {
	lists := []*sharepoint.List{}
	err := walkElements(body, func(se xml.StartElement) error {
		if se.Name.Space == ListsNamespace && se.Name.Local == "List" {
			lists = append(lists, sharepoint.NewList(attrFields(se.Attr)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lists, nil
}

// parseUpdateResults reads the Results block of an UpdateListItems response.
// Result IDs look like "VP_IDX0,New".
func parseUpdateResults(body []byte) ([]sharepoint.UpdateResult, error) {
	results := []sharepoint.UpdateResult{}
	var current *sharepoint.UpdateResult
	var text *strings.Builder

	err := walkTokens(body, func(tok xml.Token) error {
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "Result" && current == nil:
				current = &sharepoint.UpdateResult{}
				for _, a := range t.Attr {
					if a.Name.Local == "ID" {
						current.MethodID, current.Command = splitResultID(a.Value)
					}
				}
			case current == nil:
			case t.Name.Local == "ErrorCode", t.Name.Local == "ErrorText":
				text = &strings.Builder{}
			case isRow(t.Name):
				item := sharepoint.NewListItem(attrFields(t.Attr))
				current.Item = &item
			}
		case xml.CharData:
			if text != nil {
				text.Write(t)
			}
		case xml.EndElement:
			if current == nil {
				return nil
			}
			switch {
			case t.Name.Local == "ErrorCode" && text != nil:
				current.ErrorCode = strings.TrimSpace(text.String())
				text = nil
			case t.Name.Local == "ErrorText" && text != nil:
				current.ErrorText = strings.TrimSpace(text.String())
				text = nil
			case t.Name.Local == "Result":
				results = append(results, *current)
				current = nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func splitResultID(v string) (string, sharepoint.Command) {
	id, cmd, _ := strings.Cut(v, ",")
	return id, sharepoint.Command(cmd)
}

func isRow(name xml.Name) bool {
	return name.Space == RowsetNamespace && name.Local == "row"
}

// attrFields copies element attributes into a FieldSet, skipping namespace
// declarations.
func attrFields(attrs []xml.Attr) sharepoint.FieldSet {
	fields := make(sharepoint.FieldSet, 0, len(attrs))
	for _, a := range attrs {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		fields = append(fields, sharepoint.Field{Name: a.Name.Local, Value: a.Value})
	}
	return fields
}

// walkElements calls fn for every start element in the document.
func walkElements(body []byte, fn func(xml.StartElement) error) error {
	return walkTokens(body, func(tok xml.Token) error {
		if se, ok := tok.(xml.StartElement); ok {
			return fn(se)
		}
		return nil
	})
}

// walkTokens calls fn for every token of a single XML document. Empty bodies
// and text outside the root element are malformed, so a plain-text error page
// is never mistaken for an empty result.
func walkTokens(body []byte, fn func(xml.Token) error) error {
	dec := xml.NewDecoder(bytes.NewReader(body))
	depth := 0
	rooted := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			if !rooted {
				return fmt.Errorf("%w: no root element", ErrMalformedResponse)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 && rooted {
				return fmt.Errorf("%w: more than one root element", ErrMalformedResponse)
			}
			depth++
			rooted = true
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				return fmt.Errorf("%w: text outside the root element", ErrMalformedResponse)
			}
		}
		if err := fn(tok); err != nil {
			return err
		}
	}
}
