package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/nfrund/stucruum/internal/domain"
)

// CustomValidator wraps the go-playground/validator library to implement Echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new CustomValidator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// SignupRequest is the full form as posted by the submit button. The checks
// mirror the inputs' required attributes and nothing more.
type SignupRequest struct {
	FirstName string `form:"firstName" validate:"required"`
	LastName  string `form:"lastName" validate:"required"`
	Email     string `form:"email" validate:"required"`
	Password  string `form:"password" validate:"required"`
}

// Draft converts the request into a draft.
func (r SignupRequest) Draft() domain.Draft {
	return domain.Draft{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Password:  r.Password,
	}
}
