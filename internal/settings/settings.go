// Package settings exposes the launcher's persisted user preferences as typed
// accessors over an injected key-value backend.
//
// The pipeline never reads preferences itself; callers resolve the values
// they need here and pass them explicitly.
package settings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"modlauncher/internal/dvar"
)

// ErrUnknownKey is returned for keys outside the enumerated set.
var ErrUnknownKey = errors.New("unknown setting")

// Key names one preference.
type Key string

const (
	KeyBuildLanguage       Key = "build_language"
	KeyExport2BinTargetDir Key = "export2bin_target_dir"
	KeyExport2BinOverwrite Key = "export2bin_overwrite"
	KeyIgnoreErrors        Key = "ignore_errors"
	KeyRunOptions          Key = "run_options"

	dvarPrefix = "dvar_"
)

var fixedKeys = []Key{
	KeyBuildLanguage,
	KeyExport2BinTargetDir,
	KeyExport2BinOverwrite,
	KeyIgnoreErrors,
	KeyRunOptions,
}

// DvarKey returns the key storing the value of the named dvar.
func DvarKey(name string) Key {
	return Key(dvarPrefix + name)
}

// Keys returns the fixed keys in display order. Dvar keys are not included.
func Keys() []Key {
	return append([]Key(nil), fixedKeys...)
}

// Valid reports whether k is a fixed key or names a known dvar.
func (k Key) Valid() bool {
	for _, fixed := range fixedKeys {
		if k == fixed {
			return true
		}
	}
	if name, ok := strings.CutPrefix(string(k), dvarPrefix); ok {
		_, known := dvar.Lookup(name)
		return known
	}
	return false
}

// ParseKey validates raw as a key.
func ParseKey(raw string) (Key, error) {
	k := Key(strings.ToLower(strings.TrimSpace(raw)))
	if name, ok := strings.CutPrefix(string(k), dvarPrefix); ok {
		if def, known := dvar.Lookup(name); known {
			return DvarKey(def.Name), nil
		}
	}
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, raw)
	}
	return k, nil
}

// Backend stores raw values by key.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
}

// Defaults supply values for keys that were never set.
type Defaults struct {
	Language     string
	TargetDir    string
	Overwrite    bool
	IgnoreErrors bool
}

// Service provides typed access to preferences.
type Service struct {
	backend  Backend
	defaults Defaults
}

// New wraps backend. Defaults usually come from the loaded configuration.
func New(backend Backend, defaults Defaults) *Service {
	return &Service{backend: backend, defaults: defaults}
}

// Get returns the stored value for key and whether one was stored.
func (s *Service) Get(ctx context.Context, key Key) (string, bool, error) {
	if !key.Valid() {
		return "", false, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	value, ok, err := s.backend.Get(ctx, string(key))
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, ok, nil
}

// Set validates and stores value for key. Dvar keys go through SetDvar.
func (s *Service) Set(ctx context.Context, key Key, value string) error {
	if name, ok := strings.CutPrefix(string(key), dvarPrefix); ok {
		return s.SetDvar(ctx, name, value)
	}
	if !key.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	value = strings.TrimSpace(value)
	switch key {
	case KeyExport2BinOverwrite, KeyIgnoreErrors:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s expects a boolean, got %q", key, value)
		}
		value = strconv.FormatBool(b)
	case KeyBuildLanguage:
		value = strings.ToLower(value)
	}
	if err := s.backend.Set(ctx, string(key), value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Unset removes the stored value so the default applies again.
func (s *Service) Unset(ctx context.Context, key Key) error {
	if !key.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if err := s.backend.Delete(ctx, string(key)); err != nil {
		return fmt.Errorf("unset %s: %w", key, err)
	}
	return nil
}

// Entry is one effective preference.
type Entry struct {
	Key    Key
	Value  string
	Stored bool
}

// List returns every fixed key with its effective value, followed by the
// stored dvars sorted by key.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	stored, err := s.backend.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	entries := make([]Entry, 0, len(fixedKeys)+len(stored))
	for _, key := range fixedKeys {
		value, ok := stored[string(key)]
		if !ok {
			value = s.defaultValue(key)
		}
		entries = append(entries, Entry{Key: key, Value: value, Stored: ok})
	}
	var dvarKeys []string
	for key := range stored {
		if strings.HasPrefix(key, dvarPrefix) {
			dvarKeys = append(dvarKeys, key)
		}
	}
	sort.Strings(dvarKeys)
	for _, key := range dvarKeys {
		entries = append(entries, Entry{Key: Key(key), Value: stored[key], Stored: true})
	}
	return entries, nil
}

func (s *Service) defaultValue(key Key) string {
	switch key {
	case KeyBuildLanguage:
		return s.defaults.Language
	case KeyExport2BinTargetDir:
		return s.defaults.TargetDir
	case KeyExport2BinOverwrite:
		return strconv.FormatBool(s.defaults.Overwrite)
	case KeyIgnoreErrors:
		return strconv.FormatBool(s.defaults.IgnoreErrors)
	}
	return ""
}

func (s *Service) stringOr(ctx context.Context, key Key, fallback string) (string, error) {
	value, ok, err := s.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if !ok || value == "" {
		return fallback, nil
	}
	return value, nil
}

func (s *Service) boolOr(ctx context.Context, key Key, fallback bool) (bool, error) {
	value, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return fallback, err
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback, fmt.Errorf("stored %s is not a boolean: %q", key, value)
	}
	return b, nil
}

// TargetDir is the converter output directory.
func (s *Service) TargetDir(ctx context.Context) (string, error) {
	return s.stringOr(ctx, KeyExport2BinTargetDir, s.defaults.TargetDir)
}

// Overwrite reports whether the converter replaces existing outputs.
func (s *Service) Overwrite(ctx context.Context) (bool, error) {
	return s.boolOr(ctx, KeyExport2BinOverwrite, s.defaults.Overwrite)
}

// Language is the linker language selection.
func (s *Service) Language(ctx context.Context) (string, error) {
	return s.stringOr(ctx, KeyBuildLanguage, s.defaults.Language)
}

// IgnoreErrors reports whether command runs continue past failing tasks.
func (s *Service) IgnoreErrors(ctx context.Context) (bool, error) {
	return s.boolOr(ctx, KeyIgnoreErrors, s.defaults.IgnoreErrors)
}

// RunOptions returns the extra launch options typed by the user.
func (s *Service) RunOptions(ctx context.Context) (string, error) {
	return s.stringOr(ctx, KeyRunOptions, "")
}

// Dvars returns the stored dvar assignments in table order.
func (s *Service) Dvars(ctx context.Context) ([]dvar.Assignment, error) {
	stored, err := s.backend.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	var out []dvar.Assignment
	for _, def := range dvar.Definitions() {
		raw, ok := stored[string(DvarKey(def.Name))]
		if !ok {
			continue
		}
		value, err := dvar.Parse(def, raw)
		if err != nil {
			return nil, fmt.Errorf("stored dvar: %w", err)
		}
		out = append(out, dvar.Assignment{Def: def, Value: value})
	}
	return out, nil
}

// SetDvar validates raw for the named dvar and stores its canonical form.
func (s *Service) SetDvar(ctx context.Context, name, raw string) error {
	def, value, err := dvar.ParseNamed(name, raw)
	if err != nil {
		return err
	}
	if err := s.backend.Set(ctx, string(DvarKey(def.Name)), value.String()); err != nil {
		return fmt.Errorf("set dvar %s: %w", def.Name, err)
	}
	return nil
}

// UnsetDvar removes the stored value of the named dvar.
func (s *Service) UnsetDvar(ctx context.Context, name string) error {
	def, ok := dvar.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", dvar.ErrUnknown, name)
	}
	if err := s.backend.Delete(ctx, string(DvarKey(def.Name))); err != nil {
		return fmt.Errorf("unset dvar %s: %w", def.Name, err)
	}
	return nil
}

// RunArgs renders the stored dvars as game arguments.
func (s *Service) RunArgs(ctx context.Context) ([]string, error) {
	assignments, err := s.Dvars(ctx)
	if err != nil {
		return nil, err
	}
	return dvar.RunArgs(assignments), nil
}
