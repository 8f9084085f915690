package models

import (
	"github.com/casualjim/cfagui/internal/registry"
)

// Global holds the capability table. It is seeded with the built-in models
// and may be extended at runtime with Register.
var Global = newTable()

func newTable() registry.Registry[Capabilities] {
	r := registry.New[Capabilities]()
	for name, caps := range builtin {
		r.Add(name, caps)
	}
	return r
}

// Register adds or replaces the capabilities of a model.
func Register(name string, caps Capabilities) {
	Global.Add(name, caps)
}

// Lookup returns the capabilities of a known model.
func Lookup(name string) (Capabilities, bool) {
	return Global.Get(name)
}

// Get returns the capabilities of name, or Unknown when the model is not in
// the table.
func Get(name string) Capabilities {
	if caps, ok := Global.Get(name); ok {
		return caps
	}
	return Unknown
}

// Names returns every model in the table in lexical order.
func Names() []string {
	return Global.Names()
}

// Del removes a model from the table.
func Del(name string) {
	Global.Del(name)
}
