package parser

import (
	"fmt"
	"strings"
)

// Field is a single value of a record. A null field has an empty Value.
type Field struct {
	Value string
	Null  bool
}

func (f Field) String() string {
	if f.Null {
		return "<null>"
	}
	return f.Value
}

// Record is one parsed record. It holds no reference to the parser and may
// be retained after parsing continues.
type Record struct {
	fields       []Field
	header       *Header
	comment      string
	hasComment   bool
	recordNumber int64
	position     int64
}

// NewRecord builds a record from plain values, for use with printers and
// in tests.
func NewRecord(header *Header, values ...string) *Record {
	fields := make([]Field, len(values))
	for i, v := range values {
		fields[i] = Field{Value: v}
	}
	return &Record{fields: fields, header: header, recordNumber: 1}
}

// RecordNumber returns the 1-based number of the record in the stream.
// The header record is not counted.
func (r *Record) RecordNumber() int64 { return r.recordNumber }

// CharacterPosition returns the character offset of the start of the
// record, after any comment lines and skipped blank lines.
func (r *Record) CharacterPosition() int64 { return r.position }

// Len returns the number of fields.
func (r *Record) Len() int { return len(r.fields) }

// Field returns the i-th field.
func (r *Record) Field(i int) Field { return r.fields[i] }

// Value returns the i-th value; null fields read as "".
func (r *Record) Value(i int) string { return r.fields[i].Value }

// IsNull reports whether the i-th field is null.
func (r *Record) IsNull(i int) bool { return r.fields[i].Null }

// Values returns a copy of the values. Null fields read as "".
func (r *Record) Values() []string {
	values := make([]string, len(r.fields))
	for i, f := range r.fields {
		values[i] = f.Value
	}
	return values
}

// Fields returns a copy of the fields.
func (r *Record) Fields() []Field {
	fields := make([]Field, len(r.fields))
	copy(fields, r.fields)
	return fields
}

// Comment returns the comment lines that preceded the record.
func (r *Record) Comment() (string, bool) { return r.comment, r.hasComment }

// Header returns the header shared by the records of the parse session, or
// nil when the format defines none.
func (r *Record) Header() *Header { return r.header }

// Get returns the value of the named column.
func (r *Record) Get(name string) (string, error) {
	f, err := r.GetField(name)
	return f.Value, err
}

// GetField returns the field of the named column.
func (r *Record) GetField(name string) (Field, error) {
	if r.header == nil {
		return Field{}, ErrNoHeader
	}
	i, ok := r.header.Index(name)
	if !ok {
		return Field{}, fmt.Errorf("%w: %q, expected one of %q", ErrUnmappedName, name, r.header.names)
	}
	if i >= len(r.fields) {
		return Field{}, fmt.Errorf("%w: index for header %q is %d but record %d has only %d values",
			ErrInconsistentRecord, name, i, r.recordNumber, len(r.fields))
	}
	return r.fields[i], nil
}

// IsMapped reports whether the header defines the named column.
func (r *Record) IsMapped(name string) bool {
	_, ok := r.header.Index(name)
	return ok
}

// IsSet reports whether the named column is mapped and present in this
// record.
func (r *Record) IsSet(name string) bool {
	i, ok := r.header.Index(name)
	return ok && i < len(r.fields)
}

// IsConsistent reports whether the record has as many fields as the header.
// Records without a header are always consistent.
func (r *Record) IsConsistent() bool {
	return r.header == nil || r.header.Len() == len(r.fields)
}

// ToMap returns the record keyed by column name. Columns missing from the
// record are left out.
func (r *Record) ToMap() map[string]string {
	if r.header == nil {
		return map[string]string{}
	}
	m := make(map[string]string, r.header.Len())
	for name, i := range r.header.Map() {
		if i < len(r.fields) {
			m[name] = r.fields[i].Value
		}
	}
	return m
}

func (r *Record) String() string {
	var sb strings.Builder
	sb.WriteString("Record [")
	if r.hasComment {
		fmt.Fprintf(&sb, "comment=%q, ", r.comment)
	}
	fmt.Fprintf(&sb, "recordNumber=%d, values=[", r.recordNumber)
	for i, f := range r.fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.String())
	}
	sb.WriteString("]]")
	return sb.String()
}
