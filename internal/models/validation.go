// file: internal/models/validation.go
package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Shared validator instance; validator.Validate caches struct metadata and
// is safe for concurrent use.
var validate = validator.New()

// Validate runs the struct tag rules on any model.
func Validate(model interface{}) error {
	if err := validate.Struct(model); err != nil {
		return fmt.Errorf("model validation failed: %w", err)
	}
	return nil
}

// Validate checks the notification against its field rules.
func (n *Notification) Validate() error {
	return Validate(n)
}

// Validate checks the fail against its field rules.
func (f *Fail) Validate() error {
	return Validate(f)
}

// Validate checks the comment against its field rules.
func (c *Comment) Validate() error {
	return Validate(c)
}

// Validate checks the reaction against its field rules, including the
// reaction palette.
func (r *Reaction) Validate() error {
	if !r.Type.IsValid() {
		return fmt.Errorf("invalid reaction type %q", r.Type)
	}
	return Validate(r)
}
