// Package currency maps ISO currency codes to display symbols.
package currency

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
)

//go:embed currencies.json
var embedded []byte

// Currency is one entry of the registry file.
type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
}

// Registry is an immutable code-to-symbol table.
type Registry struct {
	list    []Currency
	symbols map[string]string
}

var loadDefault = sync.OnceValues(func() (*Registry, error) {
	return Parse(embedded)
})

// Default returns the built-in registry, loading it on first use.
func Default() (*Registry, error) {
	return loadDefault()
}

// Load returns the registry at path, or the built-in one when path is empty.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// LoadFile reads a registry from a JSON file of {code, symbol} objects.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadFile: read %s: %w", path, err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("LoadFile: %s: %w", path, err)
	}
	return r, nil
}

// Parse builds a registry from JSON. Later duplicates of a code are ignored.
func Parse(data []byte) (*Registry, error) {
	var list []Currency
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("Parse: decode currencies: %w", err)
	}

	r := &Registry{symbols: make(map[string]string, len(list))}
	for _, c := range list {
		if c.Code == "" {
			continue
		}
		if _, dup := r.symbols[c.Code]; dup {
			continue
		}
		r.symbols[c.Code] = c.Symbol
		r.list = append(r.list, c)
	}
	return r, nil
}

// Symbol looks up code exactly. Empty or unknown codes report false.
func (r *Registry) Symbol(code string) (string, bool) {
	if r == nil || code == "" {
		return "", false
	}
	s, ok := r.symbols[code]
	return s, ok
}

// Codes returns all codes in ascending order.
func (r *Registry) Codes() []string {
	if r == nil {
		return nil
	}
	codes := make([]string, 0, len(r.list))
	for _, c := range r.list {
		codes = append(codes, c.Code)
	}
	sort.Strings(codes)
	return codes
}

// All returns a copy of the entries in file order.
func (r *Registry) All() []Currency {
	if r == nil {
		return nil
	}
	return append([]Currency(nil), r.list...)
}
