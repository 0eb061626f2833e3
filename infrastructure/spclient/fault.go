package spclient

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// FaultError is returned when the server or transport rejects a call. It
// carries the HTTP status and, when the body held a SOAP fault, its details.
type FaultError struct {
	StatusCode  int
	Code        string // faultcode, e.g. soap:Server
	Message     string // faultstring
	ErrorString string // detail/errorstring from SharePoint
	ErrorCode   string // detail/errorcode, e.g. 0x82000006
	Err         error  // underlying transport error, if any
}

func (e *FaultError) Error() string {
	var b strings.Builder
	b.WriteString("sharepoint fault")
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Code != "" {
		b.WriteString(": ")
		b.WriteString(e.Code)
	}
	msg := firstNonEmpty(e.ErrorString, e.Message)
	if msg != "" {
		b.WriteString(": ")
		b.WriteString(strings.TrimSpace(msg))
	}
	if e.ErrorCode != "" {
		fmt.Fprintf(&b, " [%s]", e.ErrorCode)
	}
	if msg == "" && e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *FaultError) Unwrap() error {
	return e.Err
}

type soapFault struct {
	Code    string `xml:"faultcode"`
	Message string `xml:"faultstring"`
	Detail  struct {
		ErrorString string `xml:"errorstring"`
		ErrorCode   string `xml:"errorcode"`
	} `xml:"detail"`
}

// parseFault looks for a SOAP Fault element in body. Bodies that are not
// XML simply report no fault.
func parseFault(body []byte) (*FaultError, bool) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Fault" || se.Name.Space != SOAPEnvelopeNamespace {
			continue
		}
		var f soapFault
		if err := dec.DecodeElement(&f, &se); err != nil {
			return nil, false
		}
		return &FaultError{
			Code:        strings.TrimSpace(f.Code),
			Message:     strings.TrimSpace(f.Message),
			ErrorString: strings.TrimSpace(f.Detail.ErrorString),
			ErrorCode:   strings.TrimSpace(f.Detail.ErrorCode),
		}, true
	}
}
