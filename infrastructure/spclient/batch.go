package spclient

import (
	"bytes"
	"encoding/xml"

	"spws/domain/sharepoint"
)

// EncodeBatch writes one Method per mutation followed by whatever raw
// writes. Methods are numbered VP_IDX0..n-1 in input order; the first Field
// of each is ID, then the mutation's fields in their given order with names
// passed through namer. Commands are not checked.
func EncodeBatch(enc *xml.Encoder, mutations []sharepoint.MutationRequest, namer sharepoint.FieldNamer, raw QueryBuilder) error {
	if namer == nil {
		namer = sharepoint.CamelCaseNamer{}
	}
	w := &tokenWriter{enc: enc}
	method := xml.Name{Local: "Method"}

	for i, m := range mutations {
		w.start(method,
			attr("ID", sharepoint.BatchMethodID(i)),
			attr("Cmd", string(m.Command)),
		)
		w.element("Field", m.ID, attr("Name", "ID"))
		for _, f := range m.Fields {
			w.element("Field", f.Value, attr("Name", namer.FieldName(f.Name)))
		}
		w.end(method)
	}
	w.call(raw)
	return w.err
}

// BuildUpdateListItems produces the UpdateListItems operation element:
// listName followed by updates/Batch carrying the batch options.
func BuildUpdateListItems(list string, opts sharepoint.BatchOptions, mutations []sharepoint.MutationRequest, namer sharepoint.FieldNamer, raw QueryBuilder) ([]byte, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	w := &tokenWriter{enc: enc}

	op := xml.Name{Space: ListsNamespace, Local: ActionUpdateListItems}
	updates := xml.Name{Local: "updates"}
	batch := xml.Name{Local: "Batch"}

	w.start(op)
	w.element("listName", list)
	w.start(updates)
	w.start(batch,
		resetNamespace,
		attr("ViewName", opts.ViewName),
		attr("OnError", string(opts.EffectiveOnError())),
		attr("ListVersion", opts.ListVersion),
		attr("Version", opts.Version),
	)
	if w.err == nil {
		w.err = EncodeBatch(enc, mutations, namer, raw)
	}
	w.end(batch)
	w.end(updates)
	w.end(op)

	if err := w.flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
