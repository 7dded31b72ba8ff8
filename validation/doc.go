// Package validation validates structs with go-playground/validator tags and
// converts failures into *errors.AppError values with per-field details.
//
//	type Credentials struct {
//	    Email    string `json:"email" validate:"required,email"`
//	    Password string `json:"password" validate:"required"`
//	}
//	if err := validation.Validate(creds); err != nil { ... }
package validation
