package domain

import (
	"context"
	"fmt"
	"strings"
)

// Field names one of the four sign-up inputs. The value doubles as the form
// input name and the JSON key sent upstream.
type Field string

const (
	FieldFirstName Field = "firstName"
	FieldLastName  Field = "lastName"
	FieldEmail     Field = "email"
	FieldPassword  Field = "password"
)

// Fields lists the draft fields in render order.
var Fields = []Field{FieldFirstName, FieldLastName, FieldEmail, FieldPassword}

// ParseField maps an input name onto a Field.
func ParseField(name string) (Field, error) {
	for _, f := range Fields {
		if string(f) == strings.TrimSpace(name) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Draft holds the in-progress, unsubmitted sign-up values.
type Draft struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Get returns the value currently held for f.
func (d Draft) Get(f Field) string {
	switch f {
	case FieldFirstName:
		return d.FirstName
	case FieldLastName:
		return d.LastName
	case FieldEmail:
		return d.Email
	case FieldPassword:
		return d.Password
	}
	return ""
}

// With returns a copy of the draft with f set to value. Other fields are
// left untouched.
func (d Draft) With(f Field, value string) (Draft, error) {
	switch f {
	case FieldFirstName:
		d.FirstName = value
	case FieldLastName:
		d.LastName = value
	case FieldEmail:
		d.Email = value
	case FieldPassword:
		d.Password = value
	default:
		return d, fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	return d, nil
}

// SignupSubmitter sends a completed draft to the remote sign-up endpoint.
// A nil error means the endpoint answered with a success status.
type SignupSubmitter interface {
	Submit(ctx context.Context, draft Draft) error
}
