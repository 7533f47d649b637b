package http

import (
	"strings"

	sliceutil "rawhttp/lib/slice"
)

// Headers maps field names to values exactly as they were received.
// A repeated name keeps the last value. The zero value is empty and ready to use.
type Headers struct {
	values map[string]string
	names  []string // in order of first appearance.
	fields []Field  // every Set, in order.
}

func NewHeaders(fields ...Field) Headers {
	h := Headers{values: make(map[string]string, len(fields))}
	for _, f := range fields {
		h.Set(f.Name, f.Value)
	}
	return h
}

func (h *Headers) Set(name, value string) {
	if h.values == nil {
		h.values = make(map[string]string)
	}
	if _, ok := h.values[name]; !ok {
		h.names = append(h.names, name)
	}
	h.values[name] = value
	h.fields = append(h.fields, Field{Name: name, Value: value})
}

// Get compares names case-sensitively.
func (h Headers) Get(name string) (value string, ok bool) {
	value, ok = h.values[name]
	return
}

// Lookup compares names case-insensitively, as HTTP defines them.
// When several spellings were received the one received last wins.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-5.1
func (h Headers) Lookup(name string) (value string, ok bool) {
	for idx := len(h.fields) - 1; idx >= 0; idx-- {
		if strings.EqualFold(h.fields[idx].Name, name) {
			return h.fields[idx].Value, true
		}
	}
	return "", false
}

func (h Headers) Len() int { return len(h.names) }

// Fields returns one field per distinct name in order of first appearance.
func (h Headers) Fields() []Field {
	return sliceutil.Map(h.names, func(name string) Field {
		return Field{Name: name, Value: h.values[name]}
	})
}

// Map returns a copy of the name to value mapping.
func (h Headers) Map() map[string]string {
	m := make(map[string]string, len(h.values))
	for k, v := range h.values {
		m[k] = v
	}
	return m
}
