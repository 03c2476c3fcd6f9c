package model

import "fmt"

// Field names one of the seven editable text fields of a Record.
type Field string

const (
	FieldName      Field = "name"
	FieldLink      Field = "link"
	FieldLogin     Field = "login"
	FieldEmail     Field = "email"
	FieldPassword  Field = "password"
	FieldOtherData Field = "other_data"
	FieldCodes     Field = "codes"
)

// Fields lists the editable fields in canonical (persisted) order.
var Fields = []Field{
	FieldName,
	FieldLink,
	FieldLogin,
	FieldEmail,
	FieldPassword,
	FieldOtherData,
	FieldCodes,
}

// ParseField maps a field name to its Field. "id" is rejected like any other
// unknown name because ids are only assigned by the store.
func ParseField(name string) (Field, error) {
	switch f := Field(name); f {
	case FieldName, FieldLink, FieldLogin, FieldEmail, FieldPassword, FieldOtherData, FieldCodes:
		return f, nil
	default:
		return "", fmt.Errorf("unknown field %q: %w", name, ErrValidation)
	}
}

// Record is one stored credential entry. ID is nil until the store assigns
// one on first insertion.
type Record struct {
	Name      string `json:"name" yaml:"name"`
	Link      string `json:"link" yaml:"link"`
	Login     string `json:"login" yaml:"login"`
	Email     string `json:"email" yaml:"email"`
	Password  string `json:"password" yaml:"password"`
	OtherData string `json:"other_data" yaml:"other_data"`
	Codes     string `json:"codes" yaml:"codes"`
	ID        *int   `json:"id" yaml:"id"`
}

// NewRecord builds a Record from sparse key/value input. Missing fields stay
// empty and the id stays absent; unknown keys and "id" are ignored.
func NewRecord(values map[string]string) Record {
	var r Record
	for k, v := range values {
		f, err := ParseField(k)
		if err != nil {
			continue
		}
		r.set(f, v)
	}
	return r
}

// Update sets exactly one field. Unknown names and "id" leave the record
// unchanged and return an error wrapping ErrValidation.
func (r *Record) Update(field, value string) error {
	f, err := ParseField(field)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	r.set(f, value)
	return nil
}

func (r *Record) set(f Field, value string) {
	switch f {
	case FieldName:
		r.Name = value
	case FieldLink:
		r.Link = value
	case FieldLogin:
		r.Login = value
	case FieldEmail:
		r.Email = value
	case FieldPassword:
		r.Password = value
	case FieldOtherData:
		r.OtherData = value
	case FieldCodes:
		r.Codes = value
	}
}

// Get returns the value of the given field, or "" for an unknown field.
func (r Record) Get(f Field) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldLink:
		return r.Link
	case FieldLogin:
		return r.Login
	case FieldEmail:
		return r.Email
	case FieldPassword:
		return r.Password
	case FieldOtherData:
		return r.OtherData
	case FieldCodes:
		return r.Codes
	default:
		return ""
	}
}

// Values returns the seven field values in canonical order.
func (r Record) Values() []string {
	vals := make([]string, len(Fields))
	for i, f := range Fields {
		vals[i] = r.Get(f)
	}
	return vals
}

// HasID reports whether the store has assigned an id.
func (r Record) HasID() bool {
	return r.ID != nil
}

// IDValue returns the assigned id, or -1 when absent.
func (r Record) IDValue() int {
	if r.ID == nil {
		return -1
	}
	return *r.ID
}

// WithID returns a copy of r carrying the given id.
func (r Record) WithID(id int) Record {
	r.ID = &id
	return r
}

// Clone returns a copy that shares no memory with r.
func (r Record) Clone() Record {
	if r.ID != nil {
		return r.WithID(*r.ID)
	}
	return r
}
