package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"git.home.luguber.info/inful/sitemapd/internal/foundation/errors"
)

const contentTypeJSON = "application/json; charset=utf-8"

// writeJSON marshals v before touching w, so encode failures leave the
// response untouched. Indentation is enabled with ?pretty=1.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) error {
	var (
		body []byte
		err  error
	)
	if pretty, _ := strconv.ParseBool(r.URL.Query().Get("pretty")); pretty {
		body, err = json.MarshalIndent(v, "", "  ")
	} else {
		body, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_, err = w.Write(append(body, '\n'))
	return err
}

// allowRead reports whether r is a GET or HEAD and answers everything else
// with 400 and an Allow header.
func allowRead(adapter *errors.HTTPErrorAdapter, w http.ResponseWriter, r *http.Request) bool {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	adapter.WriteErrorResponse(w, r, errors.ValidationError("method not allowed").
		WithContext("method", r.Method).
		Build())
	return false
}
