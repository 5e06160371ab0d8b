package ajax

import (
	"encoding/json"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestRenderScenario(t *testing.T) {
	out, err := Render([]Command{Alert("Hello"), Remove("#box")})
	if err != nil {
		t.Fatal(err)
	}
	want := `[{"command":"alert","text":"Hello"},{"command":"remove","target":"#box"}]`
	if string(out) != want {
		t.Errorf("Render = %s, want %s", out, want)
	}
}

func TestRenderNilBatch(t *testing.T) {
	out, err := Render(nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "[]" {
		t.Errorf("Render(nil) = %s, want []", out)
	}
}

func TestRenderRoundTrip(t *testing.T) {
	batch := []Command{
		Insert("#content", MethodHTML, "<p>hi</p>"),
		Invoke("#form", "submit", "now"),
	}
	out, err := Render(batch)
	if err != nil {
		t.Fatal(err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 2 {
		t.Fatalf("decoded %d entries, want 2", len(decoded))
	}
	want0 := map[string]any{"command": "insert", "method": "html", "target": "#content", "data": "<p>hi</p>"}
	if !reflect.DeepEqual(decoded[0], want0) {
		t.Errorf("decoded[0] = %v, want %v", decoded[0], want0)
	}
	want1 := map[string]any{"command": "invoke", "target": "#form", "method": "submit", "arguments": []any{"now"}}
	if !reflect.DeepEqual(decoded[1], want1) {
		t.Errorf("decoded[1] = %v, want %v", decoded[1], want1)
	}
}

func TestRespondEmptyBatch(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := Respond(rec, []Command{}); err != nil {
		t.Fatal(err)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Body.String() != "[]" {
		t.Errorf("body = %q, want []", rec.Body.String())
	}
}

func TestRespondWritesBatch(t *testing.T) {
	rec := httptest.NewRecorder()
	err := Respond(rec, []Command{Alert("saved"), CSS("#row", map[string]string{"display": "none"})})
	if err != nil {
		t.Fatal(err)
	}
	want := `[{"command":"alert","text":"saved"},{"command":"css","target":"#row","argument":{"display":"none"}}]`
	if rec.Body.String() != want {
		t.Errorf("body = %s, want %s", rec.Body.String(), want)
	}
}

func TestSetContentTypeHeaderOnly(t *testing.T) {
	rec := httptest.NewRecorder()
	SetContentType(rec)
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rec.Body.String())
	}
}

func TestRenderUnencodableValue(t *testing.T) {
	// Encoder errors propagate unmodified.
	_, err := Render([]Command{Data("#t", "bad", func() {})})
	if err == nil {
		t.Fatal("expected encoder error for func value")
	}
}
