// Package types provides type definitions for structured data used throughout the resume-tailor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate validates the ResumeContent using the validator.
// Bullet IDs must also be unique across the whole résumé.
func (r *ResumeContent) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	seen := make(map[string]bool)
	for _, exp := range r.Experiences {
		for _, b := range exp.Bullets {
			if seen[b.ID] {
				return fmt.Errorf("duplicate bullet id %q", b.ID)
			}
			seen[b.ID] = true
		}
	}
	expSeen := make(map[string]bool, len(r.Experiences))
	for _, exp := range r.Experiences {
		if expSeen[exp.ID] {
			return fmt.Errorf("duplicate experience id %q", exp.ID)
		}
		expSeen[exp.ID] = true
	}
	return nil
}

// Validate validates the JobData using the validator.
func (j *JobData) Validate() error {
	return validate.Struct(j)
}
