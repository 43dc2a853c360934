package domain

import "errors"

// ErrUnknownField is returned for a field name outside the sign-up form.
var ErrUnknownField = errors.New("unknown sign-up field")
