// Package wire is the serializer collaborator named in SPEC_FULL.md §4.7:
// it converts the core's in-memory return values to the JSON wire format
// the HTTP façade sends over the network. The core itself never imports
// this package, and internal/transport's handlers reach the JSON library
// only through JSON below, never by calling go-json or encoding/json
// directly.
package wire

import (
	"net/http"

	json "github.com/goccy/go-json"
)

// Encode marshals v to its JSON wire representation.
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// CountsResponse is the wire shape for a /counts or /top response: a
// JSON array of {domain, count} objects, order-preserving (unlike a JSON
// object, whose key order is not meaningful).
type CountsResponse struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// JSON is a gin render.Render implementation backed by Encode, so gin's
// c.Render(code, wire.JSON{...}) is the only path a handler has to a
// response body — it never calls c.JSON or the JSON package itself.
type JSON struct {
	Data any
}

// Render implements gin's render.Render.
func (j JSON) Render(w http.ResponseWriter) error {
	j.WriteContentType(w)
	body, err := Encode(j.Data)
	if err != nil {
		return err
	}
	_, err = w.Write(body)
	return err
}

// WriteContentType implements gin's render.Render.
func (j JSON) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if val := header["Content-Type"]; len(val) == 0 {
		header["Content-Type"] = []string{"application/json; charset=utf-8"}
	}
}
