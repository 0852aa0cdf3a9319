// Package dvar describes the game console variables the launcher can pass to
// the game executable and renders them as command line arguments.
package dvar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnknown is returned for names missing from the definition table.
	ErrUnknown = errors.New("unknown dvar")
	// ErrInvalidValue is returned when a raw value does not fit the dvar kind.
	ErrInvalidValue = errors.New("invalid dvar value")
)

// Kind is the value type a dvar accepts.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	default:
		return "string"
	}
}

// Definition is one entry of the dvar table.
type Definition struct {
	Name        string
	Description string
	Kind        Kind
	Min         int
	Max         int
	// Command dvars are passed as "+name value" instead of "+set name value".
	Command bool
}

var definitions = []Definition{
	{Name: "ai_disableSpawn", Description: "Disable AI from spawning", Kind: KindBool},
	{Name: "developer", Description: "Run developer mode", Kind: KindInt, Min: 0, Max: 2},
	{Name: "g_password", Description: "Password for your server", Kind: KindString},
	{Name: "logfile", Description: "Console log information written to current fs_game", Kind: KindInt, Min: 0, Max: 2},
	{Name: "scr_mod_enable_devblock", Description: "Developer blocks are executed in mods", Kind: KindBool},
	{Name: "connect", Description: "Connect to a specific server", Kind: KindString, Command: true},
	{Name: "set_gametype", Description: "Set a gametype to load with map", Kind: KindString, Command: true},
	{Name: "splitscreen", Description: "Enable splitscreen", Kind: KindBool},
	{Name: "splitscreen_playerCount", Description: "Allocate the number of instances for splitscreen", Kind: KindInt, Min: 0, Max: 2},
}

// Definitions returns the dvar table in display order.
func Definitions() []Definition {
	return append([]Definition(nil), definitions...)
}

// Lookup finds a definition by name, ignoring case.
func Lookup(name string) (Definition, bool) {
	name = strings.TrimSpace(name)
	for _, def := range definitions {
		if strings.EqualFold(def.Name, name) {
			return def, true
		}
	}
	return Definition{}, false
}

// Value is a dvar value tagged with its kind.
type Value struct {
	kind Kind
	b    bool
	i    int
	s    string
}

func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }
func IntValue(i int) Value { return Value{kind: KindInt, i: i} }
func StringValue(s string) Value { return Value{kind: KindString, s: s} }
func (v Value) Kind() Kind { return v.kind }
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }
func (v Value) Int() (int, bool) { return v.i, v.kind == KindInt }

// Text returns the string payload of a string value.
func (v Value) Text() (string, bool) { return v.s, v.kind == KindString }

// String renders the value the way the game parses it.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		if v.b {
			return "1"
		}
		return "0"
	case KindInt:
		return strconv.Itoa(v.i)
	default:
		return v.s
	}
}

// Parse converts raw text into a value of def's kind.
func Parse(def Definition, raw string) (Value, error) {
	raw = strings.TrimSpace(raw)
	switch def.Kind {
	case KindBool:
		switch strings.ToLower(raw) {
		case "1", "true", "on", "yes":
			return BoolValue(true), nil
		case "0", "false", "off", "no", "":
			return BoolValue(false), nil
		}
		return Value{}, fmt.Errorf("%w: %s expects a boolean, got %q", ErrInvalidValue, def.Name, raw)
	case KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %s expects an integer, got %q", ErrInvalidValue, def.Name, raw)
		}
		if n < def.Min || n > def.Max {
			return Value{}, fmt.Errorf("%w: %s must be between %d and %d", ErrInvalidValue, def.Name, def.Min, def.Max)
		}
		return IntValue(n), nil
	default:
		return StringValue(raw), nil
	}
}

// ParseNamed looks up name and parses raw for it.
func ParseNamed(name, raw string) (Definition, Value, error) {
	def, ok := Lookup(name)
	if !ok {
		return Definition{}, Value{}, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	v, err := Parse(def, raw)
	return def, v, err
}

// Assignment pairs a definition with its value.
type Assignment struct {
	Def   Definition
	Value Value
}

// Args renders the assignment. Empty string values produce nothing.
func (a Assignment) Args() []string {
	value := a.Value.String()
	if a.Value.Kind() == KindString && value == "" {
		return nil
	}
	if a.Def.Command {
		return []string{"+" + a.Def.Name, value}
	}
	return []string{"+set", a.Def.Name, value}
}

// RunArgs concatenates the arguments of every assignment in order.
func RunArgs(assignments []Assignment) []string {
	var args []string
	for _, a := range assignments {
		args = append(args, a.Args()...)
	}
	return args
}
