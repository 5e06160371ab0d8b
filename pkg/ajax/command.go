// Package ajax implements the client-update command protocol: small typed
// commands built server-side, serialized as a JSON array, and executed in
// order by the browser-side dispatcher.
package ajax

// Command kinds understood by the browser-side dispatcher.
const (
	KindAlert    = "alert"
	KindInsert   = "insert"
	KindRemove   = "remove"
	KindCSS      = "css"
	KindSettings = "settings"
	KindData     = "data"
	KindInvoke   = "invoke"
)

// DOM insertion methods conventionally passed to Insert. The set is a
// convention shared with the dispatcher, not enforced here.
const (
	MethodReplaceWith = "replaceWith"
	MethodAppend      = "append"
	MethodPrepend     = "prepend"
	MethodBefore      = "before"
	MethodAfter       = "after"
	MethodHTML        = "html"
)

// Command is one instruction for the browser-side dispatcher. Kind returns
// the value of the "command" discriminator field.
type Command interface {
	Kind() string
}

// AlertCommand shows a user-facing alert dialog.
type AlertCommand struct {
	Command string `json:"command"`
	Text    string `json:"text"`
}

func (AlertCommand) Kind() string { return KindAlert }

// Alert builds an alert command.
func Alert(text string) Command {
	return AlertCommand{Command: KindAlert, Text: text}
}

// InsertCommand inserts HTML relative to the elements matched by Target,
// using one of the dispatcher's insertion methods.
type InsertCommand struct {
	Command string `json:"command"`
	Method  string `json:"method"`
	Target  string `json:"target"`
	Data    string `json:"data"`
}

func (InsertCommand) Kind() string { return KindInsert }

// Insert builds an insert command. html is carried in the "data" field.
func Insert(target, method, html string) Command {
	return InsertCommand{Command: KindInsert, Method: method, Target: target, Data: html}
}

// RemoveCommand removes the elements matched by Target.
type RemoveCommand struct {
	Command string `json:"command"`
	Target  string `json:"target"`
}

func (RemoveCommand) Kind() string { return KindRemove }

// Remove builds a remove command.
func Remove(target string) Command {
	return RemoveCommand{Command: KindRemove, Target: target}
}

// CSSCommand applies CSS properties to the elements matched by Target.
type CSSCommand struct {
	Command  string            `json:"command"`
	Target   string            `json:"target"`
	Argument map[string]string `json:"argument"`
}

func (CSSCommand) Kind() string { return KindCSS }

// CSS builds a css command.
func CSS(target string, argument map[string]string) Command {
	return CSSCommand{Command: KindCSS, Target: target, Argument: argument}
}

// SettingsCommand merges the given settings into the dispatcher's
// client-side state. The merge happens on the client, not here.
type SettingsCommand struct {
	Command  string         `json:"command"`
	Settings map[string]any `json:"settings"`
}

func (SettingsCommand) Kind() string { return KindSettings }

// Settings builds a settings command.
func Settings(settings map[string]any) Command {
	return SettingsCommand{Command: KindSettings, Settings: settings}
}

// DataCommand attaches a named value to the elements matched by Target.
type DataCommand struct {
	Command string `json:"command"`
	Target  string `json:"target"`
	Name    string `json:"name"`
	Value   any    `json:"value"`
}

func (DataCommand) Kind() string { return KindData }

// Data builds a data command.
func Data(target, name string, value any) Command {
	return DataCommand{Command: KindData, Target: target, Name: name, Value: value}
}

// InvokeCommand calls Method on the elements matched by Target with the
// given arguments.
type InvokeCommand struct {
	Command   string `json:"command"`
	Target    string `json:"target"`
	Method    string `json:"method"`
	Arguments []any  `json:"arguments"`
}

func (InvokeCommand) Kind() string { return KindInvoke }

// Invoke builds an invoke command. With no args the command carries an
// empty argument list, which encodes as [] rather than null.
func Invoke(target, method string, args ...any) Command {
	if args == nil {
		args = []any{}
	}
	return InvokeCommand{Command: KindInvoke, Target: target, Method: method, Arguments: args}
}

// Raw is an arbitrary batch entry serialized as-is. The responder never
// inspects command shapes, so Raw lets callers emit entries this package
// has no builder for, including ones the dispatcher will reject.
type Raw map[string]any

// Kind returns the entry's "command" value if it is a string, else "".
func (r Raw) Kind() string {
	k, _ := r["command"].(string)
	return k
}
