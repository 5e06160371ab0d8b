package ajax

import (
	"encoding/json"
	"net/http"
)

const contentType = "application/json"

// Render serializes a command batch to a JSON array in the order given.
// A nil batch renders as []. Entries are encoded as-is, with no validation
// or filtering; encoder errors are returned unmodified.
func Render(commands []Command) ([]byte, error) {
	if commands == nil {
		commands = []Command{}
	}
	return json.Marshal(commands)
}

// Respond sets the JSON content type on w and writes the rendered batch as
// the full response body. An explicit empty or nil batch writes [].
func Respond(w http.ResponseWriter, commands []Command) error {
	body, err := Render(commands)
	if err != nil {
		return err
	}
	SetContentType(w)
	_, err = w.Write(body)
	return err
}

// SetContentType sets the JSON content type on w without writing a body.
// Use it when a handler declares a JSON response but has no commands to
// send; Respond with an empty batch writes [] instead.
func SetContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", contentType)
}
