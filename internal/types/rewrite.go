// Package types provides type definitions for structured data used throughout the resume-tailor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// RewriteRequest is everything the external rewriting step needs
type RewriteRequest struct {
	Resume       *ResumeContent              `json:"resume"`
	Job          *JobData                    `json:"job"`
	Instructions *TransformationInstructions `json:"instructions"`
}

// RewriteResponse is the plain-value answer of the rewriting step
type RewriteResponse struct {
	Bullets    []RewrittenBullet `json:"bullets"`
	Summary    string            `json:"summary,omitempty"`
	WhyFit     string            `json:"whyFit,omitempty"`
	TokenUsage TokenUsage        `json:"tokenUsage"`
}

// RewrittenBullet is the new text for one bullet
type RewrittenBullet struct {
	BulletID string `json:"bulletId"`
	Text     string `json:"text"`
}
