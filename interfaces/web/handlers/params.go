package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"spws/domain/sharepoint"
)

// queryOptionsFromRequest reads view, rowLimit, folder, recursive and utc
// query parameters on top of the default query options.
func queryOptionsFromRequest(r *http.Request) (sharepoint.QueryOptions, error) {
	q := r.URL.Query()
	opts := sharepoint.DefaultQueryOptions()
	opts.ViewName = q.Get("view")
	opts.Folder = q.Get("folder")

	if v := q.Get("rowLimit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return opts, badRequest("rowLimit must be a non-negative integer")
		}
		opts.RowLimit = limit
	}

	var err error
	if opts.Recursive, err = boolParam(q.Get("recursive"), opts.Recursive); err != nil {
		return opts, badRequest("recursive: " + err.Error())
	}
	if opts.DateInUTC, err = boolParam(q.Get("utc"), opts.DateInUTC); err != nil {
		return opts, badRequest("utc: " + err.Error())
	}
	return opts, nil
}

func boolParam(v string, def bool) (bool, error) {
	if strings.TrimSpace(v) == "" {
		return def, nil
	}
	return strconv.ParseBool(v)
}

// intParam parses an optional integer query parameter.
func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def, badRequest(name + " must be an integer")
	}
	return i, nil
}
