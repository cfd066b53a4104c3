// Package types provides type definitions for structured data used throughout the resume-tailor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// JobData represents the target job posting
type JobData struct {
	ID           string   `json:"id" validate:"required"`
	Title        string   `json:"title" validate:"required"`
	CompanyName  string   `json:"companyName,omitempty"`
	Description  string   `json:"description,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
	Skills       []string `json:"skills,omitempty"`
}

// NormalizeSkill lowercases and trims a skill name for comparison
func NormalizeSkill(skill string) string {
	return strings.ToLower(strings.TrimSpace(skill))
}
