package spclient

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Namespaces used by the Lists web service.
const (
	SOAPEnvelopeNamespace = "http://schemas.xmlsoap.org/soap/envelope/"
	ListsNamespace        = "http://schemas.microsoft.com/sharepoint/soap/"
	RowsetNamespace       = "#RowsetSchema"
)

// ListsServicePath is the Lists web service endpoint relative to a site.
const ListsServicePath = "_vti_bin/Lists.asmx"

// Lists service operations (SOAPAction = ListsNamespace + operation).
const (
	ActionGetListCollection = "GetListCollection"
	ActionGetList           = "GetList"
	ActionGetListItems      = "GetListItems"
	ActionUpdateListItems   = "UpdateListItems"
)

// QueryBuilder writes caller-authored XML into a request. It is invoked with
// the encoder positioned inside a scope whose default namespace is empty, so
// plain element names (Where, Eq, FieldRef, Method...) are written as-is.
// Its output is not validated here; the server is the judge.
type QueryBuilder func(enc *xml.Encoder) error

// ErrInvalidFragment is returned when a RawXML fragment is not well formed.
var ErrInvalidFragment = errors.New("invalid xml fragment")

// RawXML returns a QueryBuilder that replays an XML fragment through the
// encoder. The fragment must be well formed and free of namespace prefixes;
// processing instructions and directives are dropped.
func RawXML(fragment string) QueryBuilder {
	return func(enc *xml.Encoder) error {
		dec := xml.NewDecoder(strings.NewReader(fragment))
		depth := 0
		for {
			tok, err := dec.RawToken()
			if err == io.EOF {
				if depth != 0 {
					return fmt.Errorf("%w: %d unclosed element(s)", ErrInvalidFragment, depth)
				}
				return nil
			}
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidFragment, err)
			}
			switch t := tok.(type) {
			case xml.ProcInst, xml.Directive:
				continue
			case xml.StartElement:
				if err := checkUnprefixed(t); err != nil {
					return err
				}
				depth++
			case xml.EndElement:
				if depth == 0 {
					return fmt.Errorf("%w: unexpected end element", ErrInvalidFragment)
				}
				depth--
			}
			if err := enc.EncodeToken(xml.CopyToken(tok)); err != nil {
				return fmt.Errorf("raw xml fragment: %w", err)
			}
		}
	}
}

// checkUnprefixed rejects prefixed element and attribute names. RawToken
// leaves prefixes unresolved and the encoder would write them back as
// namespace URIs.
func checkUnprefixed(se xml.StartElement) error {
	if se.Name.Space != "" {
		return fmt.Errorf("%w: prefixed element %s:%s", ErrInvalidFragment, se.Name.Space, se.Name.Local)
	}
	for _, a := range se.Attr {
		if a.Name.Space != "" {
			return fmt.Errorf("%w: prefixed attribute %s:%s", ErrInvalidFragment, a.Name.Space, a.Name.Local)
		}
	}
	return nil
}

// WrapEnvelope places an operation element inside a SOAP 1.1 envelope.
func WrapEnvelope(body []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(body) + 160)
	buf.WriteString(xml.Header)
	buf.WriteString(`<Envelope xmlns="` + SOAPEnvelopeNamespace + `"><Body>`)
	buf.Write(body)
	buf.WriteString(`</Body></Envelope>`)
	return buf.Bytes()
}

// resetNamespace clears the inherited default namespace for an element and its children.
var resetNamespace = xml.Attr{Name: xml.Name{Local: "xmlns"}, Value: ""}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

// tokenWriter wraps an encoder and keeps the first error, so request
// builders read top to bottom like the document they produce.
type tokenWriter struct {
	enc *xml.Encoder
	err error
}

func (w *tokenWriter) start(name xml.Name, attrs ...xml.Attr) {
	if w.err != nil {
		return
	}
	w.err = w.enc.EncodeToken(xml.StartElement{Name: name, Attr: attrs})
}

func (w *tokenWriter) end(name xml.Name) {
	if w.err != nil {
		return
	}
	w.err = w.enc.EncodeToken(xml.EndElement{Name: name})
}

// element writes <local attrs>text</local>.
func (w *tokenWriter) element(local, text string, attrs ...xml.Attr) {
	name := xml.Name{Local: local}
	w.start(name, attrs...)
	if text != "" && w.err == nil {
		w.err = w.enc.EncodeToken(xml.CharData(text))
	}
	w.end(name)
}

// call runs a caller callback against the underlying encoder.
func (w *tokenWriter) call(fn QueryBuilder) {
	if w.err != nil || fn == nil {
		return
	}
	w.err = fn(w.enc)
}

func (w *tokenWriter) flush() error {
	if w.err != nil {
		return w.err
	}
	return w.enc.Flush()
}
