// Package catalog holds the registry of known record fields and their kinds.
package catalog

import (
	"errors"
	"fmt"
	"sort"
)

// ErrEmptyFieldName is returned when a catalog set contains an empty name.
var ErrEmptyFieldName = errors.New("empty field name")

// DuplicateFieldError is returned when a field is listed under two kinds.
type DuplicateFieldError struct {
	Field  string
	First  Kind
	Second Kind
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("field %q is declared as both %s and %s", e.Field, e.First, e.Second)
}

// Sets is the serialisable form of a catalog: one identifier list per kind.
type Sets struct {
	Numeric   []string `yaml:"numeric_fields"`
	Time      []string `yaml:"time_fields"`
	String    []string `yaml:"string_fields"`
	Predicate []string `yaml:"predicate_fields"`
}

func (s Sets) byKind() map[Kind][]string {
	return map[Kind][]string{
		KindNumber:    s.Numeric,
		KindTime:      s.Time,
		KindString:    s.String,
		KindPredicate: s.Predicate,
	}
}

// Catalog maps field names to kinds. It is immutable once built and safe
// for concurrent use.
type Catalog struct {
	fields map[string]Kind
}

// New builds a catalog from the given sets. A name may appear in at most one set.
func New(sets Sets) (*Catalog, error) {
	c := &Catalog{fields: make(map[string]Kind)}
	lists := sets.byKind()
	for _, kind := range Kinds() {
		for _, name := range lists[kind] {
			if name == "" {
				return nil, fmt.Errorf("%s fields: %w", kind, ErrEmptyFieldName)
			}
			if prev, exists := c.fields[name]; exists {
				if prev == kind {
					continue
				}
				return nil, &DuplicateFieldError{Field: name, First: prev, Second: kind}
			}
			c.fields[name] = kind
		}
	}
	return c, nil
}

// Lookup returns the kind of a field and whether it is known.
func (c *Catalog) Lookup(name string) (Kind, bool) {
	if c == nil {
		return KindInvalid, false
	}
	kind, ok := c.fields[name]
	return kind, ok
}

// Kind returns the kind of a field, or KindInvalid when it is unknown.
func (c *Catalog) Kind(name string) Kind {
	kind, _ := c.Lookup(name)
	return kind
}

// Fields returns the sorted names of all fields of the given kind.
func (c *Catalog) Fields(kind Kind) []string {
	if c == nil {
		return nil
	}
	var names []string
	for name, k := range c.fields {
		if k == kind {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Names returns every field name, sorted.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.fields))
	for name := range c.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of fields in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.fields)
}

// Sets returns a copy of the catalog in its serialisable form.
func (c *Catalog) Sets() Sets {
	return Sets{
		Numeric:   c.Fields(KindNumber),
		Time:      c.Fields(KindTime),
		String:    c.Fields(KindString),
		Predicate: c.Fields(KindPredicate),
	}
}
