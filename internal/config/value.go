package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Kind discriminates the cases of Value.
type Kind int

const (
	KindScalar Kind = iota
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "scalar"
	}
}

// Value is a node of a configuration document: a scalar (string, bool,
// integer, float or datetime), a sequence, or a mapping.
type Value struct {
	Kind   Kind
	Scalar any
	Seq    []Value
	Map    Document
}

// Document is the root mapping of one configuration layer.
type Document map[string]Value

// NewScalar wraps a TOML scalar.
func NewScalar(v any) Value {
	return Value{Kind: KindScalar, Scalar: v}
}

// NewSequence wraps an ordered list of values.
func NewSequence(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{Kind: KindSequence, Seq: items}
}

// NewMapping wraps a nested table.
func NewMapping(m Document) Value {
	if m == nil {
		m = Document{}
	}
	return Value{Kind: KindMapping, Map: m}
}

// Strings builds a sequence of string scalars.
func Strings(items ...string) Value {
	vals := make([]Value, len(items))
	for i, s := range items {
		vals[i] = NewScalar(s)
	}
	return NewSequence(vals...)
}

// Merge returns dst overlaid with src. Keys holding a mapping on both sides
// are merged recursively; any other value from src replaces the one in dst
// outright, so sequences are never concatenated. Neither input is modified.
func Merge(dst, src Document) Document {
	out := dst.Clone()
	for k, v := range src {
		if cur, ok := out[k]; ok && cur.Kind == KindMapping && v.Kind == KindMapping {
			out[k] = NewMapping(Merge(cur.Map, v.Map))
			continue
		}
		out[k] = v.Clone()
	}
	return out
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v.Clone()
	}
	return out
}

// Clone returns a deep copy of the value.
func (v Value) Clone() Value {
	switch v.Kind {
	case KindSequence:
		items := make([]Value, len(v.Seq))
		for i, item := range v.Seq {
			items[i] = item.Clone()
		}
		return NewSequence(items...)
	case KindMapping:
		return NewMapping(v.Map.Clone())
	default:
		return v
	}
}

// Get looks up a dotted key ("diff.tool") in the document.
func (d Document) Get(key string) (Value, bool) {
	parts := strings.Split(key, ".")
	cur := d
	for i, part := range parts {
		v, ok := cur[part]
		if !ok {
			return Value{}, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		if v.Kind != KindMapping {
			return Value{}, false
		}
		cur = v.Map
	}
	return Value{}, false
}

// Set assigns v at a dotted key, creating intermediate tables.
// It fails when an intermediate key already holds a non-table value.
func (d Document) Set(key string, v Value) error {
	parts := strings.Split(key, ".")
	for _, p := range parts {
		if p == "" {
			return fmt.Errorf("invalid key %q", key)
		}
	}

	cur := d
	for i, part := range parts[:len(parts)-1] {
		next, ok := cur[part]
		if !ok {
			next = NewMapping(nil)
			cur[part] = next
		}
		if next.Kind != KindMapping {
			return fmt.Errorf("%s is a %s, not a table", strings.Join(parts[:i+1], "."), next.Kind)
		}
		cur = next.Map
	}
	cur[parts[len(parts)-1]] = v
	return nil
}

// Unset removes a dotted key. Returns false when it was not present.
func (d Document) Unset(key string) bool {
	parts := strings.Split(key, ".")
	cur := d
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part]
		if !ok || next.Kind != KindMapping {
			return false
		}
		cur = next.Map
	}
	last := parts[len(parts)-1]
	if _, ok := cur[last]; !ok {
		return false
	}
	delete(cur, last)
	return true
}

// FromTOML converts a decoded TOML table into a Document.
func FromTOML(m map[string]any) Document {
	doc := make(Document, len(m))
	for k, v := range m {
		doc[k] = fromTOML(v)
	}
	return doc
}

func fromTOML(v any) Value {
	switch t := v.(type) {
	case map[string]any:
		return NewMapping(FromTOML(t))
	case []map[string]any:
		items := make([]Value, len(t))
		for i, m := range t {
			items[i] = NewMapping(FromTOML(m))
		}
		return NewSequence(items...)
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = fromTOML(item)
		}
		return NewSequence(items...)
	default:
		return NewScalar(t)
	}
}

// ToTOML converts the document back into plain Go values for encoding.
func (d Document) ToTOML() map[string]any {
	m := make(map[string]any, len(d))
	for k, v := range d {
		m[k] = v.toTOML()
	}
	return m
}

func (v Value) toTOML() any {
	switch v.Kind {
	case KindSequence:
		items := make([]any, len(v.Seq))
		for i, item := range v.Seq {
			items[i] = item.toTOML()
		}
		return items
	case KindMapping:
		return v.Map.ToTOML()
	default:
		return v.Scalar
	}
}

// ParseValue interprets a command-line value as a TOML literal
// (`true`, `3`, `["a", "b"]`), falling back to a plain string.
func ParseValue(raw string) Value {
	var m map[string]any
	if _, err := toml.Decode("v = "+raw, &m); err == nil {
		if v, ok := m["v"]; ok {
			return fromTOML(v)
		}
	}
	return NewScalar(raw)
}

// String renders the value for display: strings print bare, everything
// else in TOML syntax.
func (v Value) String() string {
	switch v.Kind {
	case KindScalar:
		if s, ok := v.Scalar.(string); ok {
			return s
		}
		return fmt.Sprint(v.Scalar)
	case KindMapping:
		data, err := toml.Marshal(v.Map.ToTOML())
		if err != nil {
			return fmt.Sprint(v.Map.ToTOML())
		}
		return strings.TrimRight(string(data), "\n")
	default:
		parts := make([]string, len(v.Seq))
		for i, item := range v.Seq {
			if s, ok := item.Scalar.(string); ok && item.Kind == KindScalar {
				parts[i] = fmt.Sprintf("%q", s)
				continue
			}
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
}

// Keys returns the dotted paths of all leaf values in sorted order.
func (d Document) Keys() []string {
	var keys []string
	var walk func(prefix string, doc Document)
	walk = func(prefix string, doc Document) {
		for k, v := range doc {
			full := k
			if prefix != "" {
				full = prefix + "." + k
			}
			if v.Kind == KindMapping && len(v.Map) > 0 {
				walk(full, v.Map)
				continue
			}
			keys = append(keys, full)
		}
	}
	walk("", d)
	sort.Strings(keys)
	return keys
}
