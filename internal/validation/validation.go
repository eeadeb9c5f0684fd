package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// RegisterInput is the expected shape of a registration request.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=20,username"`
	Password string `json:"password" validate:"required,min=8"`
}

// MessageInput is the expected shape of an anonymous message submission.
type MessageInput struct {
	Content string `json:"content" validate:"required,max=1000"`
}

// FieldError names the first failing field and the rule it broke. Inputs are
// never coerced; a failing input is rejected as-is.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// usernames double as public profile slugs
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidateRegistration checks a registration input and reports the first
// failing field.
func ValidateRegistration(input RegisterInput) *FieldError {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return &FieldError{Field: "input", Message: "Invalid input"}
	}
	return registrationMessage(fieldErrs[0])
}

// ValidateMessage checks an anonymous message submission.
func ValidateMessage(input MessageInput) *FieldError {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return &FieldError{Field: "content", Message: "Invalid input"}
	}
	fe := fieldErrs[0]
	if fe.Tag() == "required" {
		return &FieldError{Field: "content", Message: "Message is required"}
	}
	return &FieldError{Field: "content", Message: "Message must be less than 1000 characters"}
}

func registrationMessage(fe validator.FieldError) *FieldError {
	switch fe.Field() {
	case "Name":
		if fe.Tag() == "required" {
			return &FieldError{Field: "name", Message: "Name is required"}
		}
		return &FieldError{Field: "name", Message: "Name must be less than 50 characters"}
	case "Email":
		if fe.Tag() == "required" {
			return &FieldError{Field: "email", Message: "Email is required"}
		}
		return &FieldError{Field: "email", Message: "Invalid email address"}
	case "Username":
		switch fe.Tag() {
		case "required":
			return &FieldError{Field: "username", Message: "Username is required"}
		case "min", "max":
			return &FieldError{Field: "username", Message: "Username must be between 3 and 20 characters"}
		default:
			return &FieldError{Field: "username", Message: "Username may only contain letters, numbers and underscores"}
		}
	case "Password":
		if fe.Tag() == "required" {
			return &FieldError{Field: "password", Message: "Password is required"}
		}
		return &FieldError{Field: "password", Message: "Password must be at least 8 characters"}
	default:
		return &FieldError{Field: fe.Field(), Message: "Invalid input"}
	}
}
