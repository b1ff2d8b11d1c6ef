// Package parse defines the boundary struct handed over by the record
// creation pipeline. The natural-language layer resolves ambiguity before
// this point; the core never interprets free text.
package parse

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// componentsValidate is the validator instance for creation components.
var componentsValidate *validator.Validate

func init() {
	componentsValidate = validator.New()
}

// ParsedComponents carries the already-tokenized fields for one record
// creation. Optional fields keep their zero value when absent.
type ParsedComponents struct {
	Title        string   `validate:"required,min=1,max=500"`
	Tier         string   `validate:"required,oneof=feature phase session task"`
	Description  string   `validate:"max=10000"`
	Status       string   `validate:"omitempty,oneof=pending in_progress completed cancelled blocked"`
	Priority     string   `validate:"omitempty,oneof=low medium high critical"`
	Tags         []string `validate:"dive,min=1,max=100"`
	Dependencies []string `validate:"dive,min=1"`
	ParentID     string   `validate:"omitempty,min=1"`
}

// Validate checks the struct tags and returns the first problem found.
func (c ParsedComponents) Validate() error {
	err := componentsValidate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("invalid component %s: failed %q constraint", fe.Field(), fe.Tag())
	}
	return err
}
