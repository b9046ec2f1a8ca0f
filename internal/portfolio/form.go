package portfolio

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// Field names a contact form input.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldMessage Field = "message"
)

// ErrUnknownField is returned for input names the form does not have.
var ErrUnknownField = errors.New("unknown form field")

// ParseField converts an input name into a Field.
func ParseField(raw string) (Field, error) {
	switch f := Field(strings.ToLower(strings.TrimSpace(raw))); f {
	case FieldName, FieldEmail, FieldMessage:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, raw)
}

// ContactForm mirrors the three controlled inputs of the contact section.
type ContactForm struct {
	Name    string
	Email   string
	Message string
}

// Set stores the current value of one input. Called on every keystroke.
func (f *ContactForm) Set(field Field, value string) {
	switch field {
	case FieldName:
		f.Name = value
	case FieldEmail:
		f.Email = value
	case FieldMessage:
		f.Message = value
	}
}

// Get returns the current value of one input.
func (f ContactForm) Get(field Field) string {
	switch field {
	case FieldName:
		return f.Name
	case FieldEmail:
		return f.Email
	case FieldMessage:
		return f.Message
	}
	return ""
}

// Missing lists the fields that are still empty, in form order. The browser
// enforces required inputs; this only drives the template.
func (f ContactForm) Missing() []Field {
	var out []Field
	for _, field := range []Field{FieldName, FieldEmail, FieldMessage} {
		if strings.TrimSpace(f.Get(field)) == "" {
			out = append(out, field)
		}
	}
	return out
}

// Submission is one logged contact form send.
type Submission struct {
	Form      ContactForm
	Submitted time.Time
}

// Diagnostics receives contact submissions. It is a local log, never a
// delivery channel.
type Diagnostics interface {
	RecordContact(ctx context.Context, s Submission) error
}

// LogDiagnostics writes submissions to the process log only.
type LogDiagnostics struct{}

// RecordContact implements Diagnostics.
func (LogDiagnostics) RecordContact(_ context.Context, s Submission) error {
	log.Printf("contact: submission name=%q email=%q message=%q", s.Form.Name, s.Form.Email, s.Form.Message)
	return nil
}
