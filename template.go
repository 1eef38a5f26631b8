package newsclip

import (
	"errors"
	"fmt"
)

// Template is a named set of CSS selectors scoped to one assumed page
// layout. The header selector exists purely for dispatch: a template
// applies to a document iff its header selector matches at least one
// element. Content fields are looked up by logical name.
type Template struct {
	Name   string            `yaml:"name"`
	Header string            `yaml:"header"`
	Fields map[string]string `yaml:"fields"`
}

// Validate checks that the template can be dispatched and that it
// carries a selector for every field a descriptor set will ask for.
func (t Template) Validate(fields []FieldDescriptor) error {
	if t.Header == "" {
		return fmt.Errorf("template %q: a header selector is required", t.Name)
	}
	for _, f := range fields {
		if _, ok := t.Fields[f.Field]; !ok {
			return fmt.Errorf("template %q: no selector for field %q", t.Name, f.Field)
		}
	}
	return nil
}

// FieldDescriptor describes how one logical field is extracted: its
// arity, whether an attribute is read instead of text, and whether the
// owning record tolerates the field being absent.
type FieldDescriptor struct {
	Field    string `yaml:"field"`
	Multiple bool   `yaml:"multiple"`
	Attr     string `yaml:"attr,omitempty"`
	Optional bool   `yaml:"optional,omitempty"`
}

// ValidateDescriptors rejects descriptor sets with unnamed or duplicate
// fields. Descriptor sets are validated once at configuration load, not
// on every extraction.
func ValidateDescriptors(fields []FieldDescriptor) error {
	if len(fields) == 0 {
		return errors.New("at least one field descriptor is required")
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Field == "" {
			return errors.New("field descriptors need a field name")
		}
		if seen[f.Field] {
			return fmt.Errorf("duplicate field descriptor %q", f.Field)
		}
		seen[f.Field] = true
	}
	return nil
}

// FieldValue holds the extracted value for one field. Exactly one of
// Text or Texts is set depending on the descriptor's arity; a zero
// FieldValue is an explicitly absent optional field. Entries of Texts
// are nil when a matched element lacked the requested attribute.
type FieldValue struct {
	Text  *string
	Texts []*string
}

// Absent reports whether the field matched nothing.
func (v FieldValue) Absent() bool {
	return v.Text == nil && v.Texts == nil
}

// Record maps logical field names to extracted values. A record always
// carries an entry for every descriptor it was extracted with; absent
// optional fields are explicit zero values, not missing keys.
type Record map[string]FieldValue

// First returns the single value for a field, or "" and false when the
// field is absent or has no value.
func (r Record) First(field string) (string, bool) {
	v, ok := r[field]
	if !ok || v.Text == nil {
		return "", false
	}
	return *v.Text, true
}

// All returns the ordered values for a multiple-arity field. Nil entries
// mark elements that lacked the requested attribute.
func (r Record) All(field string) []*string {
	return r[field].Texts
}
