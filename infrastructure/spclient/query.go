package spclient

import (
	"bytes"
	"encoding/xml"
	"strconv"

	"spws/domain/sharepoint"
)

// BuildGetListItems produces the GetListItems operation element:
// listName, viewName, rowLimit, the optional query and the queryOptions block.
func BuildGetListItems(list string, opts sharepoint.QueryOptions, query QueryBuilder) ([]byte, error) {
	var buf bytes.Buffer
	w := &tokenWriter{enc: xml.NewEncoder(&buf)}

	op := xml.Name{Space: ListsNamespace, Local: ActionGetListItems}
	w.start(op)
	w.element("listName", list)
	w.element("viewName", opts.ViewName)
	w.element("rowLimit", rowLimitText(opts.RowLimit))
	embedQuery(w, query)
	writeQueryOptions(w, opts)
	w.end(op)

	if err := w.flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// embedQuery writes <query xmlns=""> around the caller's CAML. Without a
// callback the element is left out and the view's own filter applies.
func embedQuery(w *tokenWriter, query QueryBuilder) {
	if query == nil {
		return
	}
	name := xml.Name{Local: "query"}
	w.start(name, resetNamespace)
	w.call(query)
	w.end(name)
}

// writeQueryOptions writes the queryOptions block. Non-recursive and local
// dates are expressed by leaving the elements out.
func writeQueryOptions(w *tokenWriter, opts sharepoint.QueryOptions) {
	outer := xml.Name{Local: "queryOptions"}
	inner := xml.Name{Local: "QueryOptions"}

	w.start(outer)
	w.start(inner, resetNamespace)
	w.element("Folder", opts.Folder)
	if opts.Recursive {
		w.element("ViewAttributes", "", attr("Scope", "Recursive"))
	}
	if opts.DateInUTC {
		w.element("DateInUtc", "True")
	}
	w.element("IncludeAttachmentUrls", "True")
	w.end(inner)
	w.end(outer)
}

func rowLimitText(limit int) string {
	if limit <= 0 {
		return ""
	}
	return strconv.Itoa(limit)
}

// buildListNameOperation produces operations that only take a list name
// (GetList) or nothing at all (GetListCollection, when list is empty).
func buildListNameOperation(action, list string) ([]byte, error) {
	var buf bytes.Buffer
	w := &tokenWriter{enc: xml.NewEncoder(&buf)}

	op := xml.Name{Space: ListsNamespace, Local: action}
	w.start(op)
	if list != "" {
		w.element("listName", list)
	}
	w.end(op)

	if err := w.flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
