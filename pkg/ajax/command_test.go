package ajax

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestBuilderKinds(t *testing.T) {
	tests := []struct {
		cmd  Command
		kind string
	}{
		{Alert("hi"), "alert"},
		{Insert("#box", MethodAppend, "<p>hi</p>"), "insert"},
		{Remove("#box"), "remove"},
		{CSS("#box", map[string]string{"color": "red"}), "css"},
		{Settings(map[string]any{"foo": "bar"}), "settings"},
		{Data("#box", "count", 3), "data"},
		{Invoke("#box", "focus"), "invoke"},
	}
	for _, tt := range tests {
		if tt.cmd.Kind() != tt.kind {
			t.Errorf("Kind() = %q, want %q", tt.cmd.Kind(), tt.kind)
		}
	}
}

func TestAlertCarriesText(t *testing.T) {
	for _, text := range []string{"Hello", "", "line\nbreak", `quo"te`} {
		c := Alert(text).(AlertCommand)
		if c.Command != "alert" || c.Text != text {
			t.Errorf("Alert(%q) = %+v", text, c)
		}
	}
}

func TestInsertExactFields(t *testing.T) {
	data, err := json.Marshal(Insert("#target", "replaceWith", "<b>x</b>"))
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"command": "insert",
		"method":  "replaceWith",
		"target":  "#target",
		"data":    "<b>x</b>",
	}
	if !reflect.DeepEqual(m, want) {
		t.Errorf("insert fields = %v, want %v", m, want)
	}
}

func TestInvokeArguments(t *testing.T) {
	c := Invoke("#box", "trigger").(InvokeCommand)
	if c.Arguments == nil || len(c.Arguments) != 0 {
		t.Errorf("no-arg Arguments = %#v, want empty slice", c.Arguments)
	}
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"command":"invoke","target":"#box","method":"trigger","arguments":[]}` {
		t.Errorf("no-arg invoke = %s", data)
	}

	c = Invoke("#box", "trigger", "a", float64(2)).(InvokeCommand)
	if len(c.Arguments) != 2 || c.Arguments[0] != "a" || c.Arguments[1] != float64(2) {
		t.Errorf("Arguments = %#v, want [a 2] in order", c.Arguments)
	}
}

func TestSettingsScenario(t *testing.T) {
	data, err := json.Marshal(Settings(map[string]any{"foo": "bar"}))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"command":"settings","settings":{"foo":"bar"}}` {
		t.Errorf("settings = %s", data)
	}
}

func TestCSSScenario(t *testing.T) {
	data, err := json.Marshal(CSS("#x", map[string]string{"color": "red"}))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"command":"css","target":"#x","argument":{"color":"red"}}` {
		t.Errorf("css = %s", data)
	}
}

func TestDataCarriesAnyValue(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{"s", `{"command":"data","target":"#t","name":"n","value":"s"}`},
		{float64(1.5), `{"command":"data","target":"#t","name":"n","value":1.5}`},
		{nil, `{"command":"data","target":"#t","name":"n","value":null}`},
		{[]any{"a", "b"}, `{"command":"data","target":"#t","name":"n","value":["a","b"]}`},
	}
	for _, tt := range tests {
		data, err := json.Marshal(Data("#t", "n", tt.value))
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != tt.want {
			t.Errorf("data(%v) = %s, want %s", tt.value, data, tt.want)
		}
	}
}

func TestRawPassThrough(t *testing.T) {
	r := Raw{"command": "blink", "speed": float64(3)}
	if r.Kind() != "blink" {
		t.Errorf("Kind() = %q, want blink", r.Kind())
	}
	// Entries without a command key are still serialized as-is.
	r = Raw{"speed": float64(3)}
	if r.Kind() != "" {
		t.Errorf("Kind() = %q, want empty", r.Kind())
	}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"speed":3}` {
		t.Errorf("raw = %s", data)
	}
}
