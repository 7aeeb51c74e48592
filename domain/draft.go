package domain

import (
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Field names one input of the post form.
type Field string

const (
	FieldTitle  Field = "title"
	FieldBody   Field = "body"
	FieldAuthor Field = "author"
)

// Fields lists the form fields in display order.
var Fields = []Field{FieldTitle, FieldBody, FieldAuthor}

// Label returns the human-facing name of the field.
func (f Field) Label() string {
	switch f {
	case FieldTitle:
		return "Title"
	case FieldBody:
		return "Body"
	case FieldAuthor:
		return "Author"
	}
	return string(f)
}

// Draft is the user's in-progress, not yet submitted post.
type Draft struct {
	Title  string
	Body   string
	Author string
}

// Payload is a draft that passed validation and may be sent to the store.
type Payload struct {
	Title  string
	Body   string
	Author string
}

// Get returns the current value of a field.
func (d Draft) Get(f Field) string {
	switch f {
	case FieldTitle:
		return d.Title
	case FieldBody:
		return d.Body
	case FieldAuthor:
		return d.Author
	}
	return ""
}

// Set returns a copy of the draft with one field replaced.
func (d Draft) Set(f Field, value string) Draft {
	switch f {
	case FieldTitle:
		d.Title = value
	case FieldBody:
		d.Body = value
	case FieldAuthor:
		d.Author = value
	}
	return d
}

// IsEmpty reports whether every field is blank.
func (d Draft) IsEmpty() bool {
	return d == Draft{}
}

// Validate checks that every field is present. Values are not trimmed: the
// form only enforces presence, so whitespace counts as content.
// All failing fields are reported together.
func (d Draft) Validate() (Payload, FieldErrors) {
	errs := FieldErrors{}
	for _, f := range Fields {
		if d.Get(f) == "" {
			errs[f] = f.Label() + " is required"
		}
	}
	if len(errs) > 0 {
		return Payload{}, errs
	}
	return Payload{Title: d.Title, Body: d.Body, Author: d.Author}, nil
}

// FieldErrors maps each invalid field to a message for the user.
type FieldErrors map[Field]string

// FieldError is one entry of FieldErrors as an error value.
type FieldError struct {
	Field   Field
	Message string
}

func (e *FieldError) Error() string { return e.Message }

// Unwrap lets callers match validation failures with errors.Is.
func (e *FieldError) Unwrap() error { return ErrFieldRequired }

// Error joins the messages in field display order.
func (fe FieldErrors) Error() string {
	msgs := make([]string, 0, len(fe))
	for _, f := range fe.ordered() {
		msgs = append(msgs, fe[f])
	}
	return strings.Join(msgs, "; ")
}

// Err folds the entries into a multierror, or nil when there are none.
func (fe FieldErrors) Err() error {
	var result *multierror.Error
	for _, f := range fe.ordered() {
		result = multierror.Append(result, &FieldError{Field: f, Message: fe[f]})
	}
	return result.ErrorOrNil()
}

func (fe FieldErrors) ordered() []Field {
	out := make([]Field, 0, len(fe))
	for _, f := range Fields {
		if _, ok := fe[f]; ok {
			out = append(out, f)
		}
	}
	// Unknown keys (from a server response) go last, in stable order.
	var extra []string
	for f := range fe {
		if f != FieldTitle && f != FieldBody && f != FieldAuthor {
			extra = append(extra, string(f))
		}
	}
	sort.Strings(extra)
	for _, f := range extra {
		out = append(out, Field(f))
	}
	return out
}
