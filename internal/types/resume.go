// Package types provides type definitions for structured data used throughout the resume-tailor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ResumeContent is the structured résumé being tailored. The core treats it as read-only input.
type ResumeContent struct {
	ID          string       `json:"id,omitempty"`
	Contact     Contact      `json:"contact" validate:"required"`
	Summary     string       `json:"summary,omitempty"`
	Experiences []Experience `json:"experiences" validate:"dive"`
	Education   []Education  `json:"education"`
	Skills      Skills       `json:"skills"`
	Projects    []Project    `json:"projects,omitempty"`
}

// Contact holds the candidate's contact details
type Contact struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
}

// Experience represents a single role with its bullets
type Experience struct {
	ID        string   `json:"id" validate:"required"`
	Title     string   `json:"title" validate:"required"`
	Company   string   `json:"company" validate:"required"`
	Location  string   `json:"location,omitempty"`
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate,omitempty"`
	Bullets   []Bullet `json:"bullets" validate:"dive"`
}

// Bullet represents a single bullet point within an experience
type Bullet struct {
	ID         string `json:"id" validate:"required"`
	Text       string `json:"text"`
	IsModified bool   `json:"isModified,omitempty"`
}

// Education represents a degree or certification entry
type Education struct {
	ID             string `json:"id,omitempty"`
	Institution    string `json:"institution"`
	Degree         string `json:"degree,omitempty"`
	Field          string `json:"field,omitempty"`
	GraduationDate string `json:"graduationDate,omitempty"`
}

// Skills groups technical and soft skills
type Skills struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
}

// Project represents a side project or portfolio entry
type Project struct {
	ID           string   `json:"id,omitempty"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

// BulletRef locates a bullet inside a résumé.
type BulletRef struct {
	ExperienceID    string
	ExperienceIndex int
	BulletIndex     int
}

// BulletIndex maps every bullet ID to its location.
func (r *ResumeContent) BulletIndex() map[string]BulletRef {
	index := make(map[string]BulletRef)
	for i, exp := range r.Experiences {
		for j, bullet := range exp.Bullets {
			index[bullet.ID] = BulletRef{ExperienceID: exp.ID, ExperienceIndex: i, BulletIndex: j}
		}
	}
	return index
}

// ExperienceIndex maps every experience ID to its position.
func (r *ResumeContent) ExperienceIndex() map[string]int {
	index := make(map[string]int, len(r.Experiences))
	for i, exp := range r.Experiences {
		index[exp.ID] = i
	}
	return index
}

// BulletCount returns the total number of bullets across all experiences
func (r *ResumeContent) BulletCount() int {
	count := 0
	for _, exp := range r.Experiences {
		count += len(exp.Bullets)
	}
	return count
}

// Clone returns a deep copy of the résumé.
func (r *ResumeContent) Clone() *ResumeContent {
	if r == nil {
		return nil
	}
	out := *r
	out.Experiences = make([]Experience, len(r.Experiences))
	for i, exp := range r.Experiences {
		exp.Bullets = append([]Bullet(nil), exp.Bullets...)
		out.Experiences[i] = exp
	}
	out.Education = append([]Education(nil), r.Education...)
	out.Skills = Skills{
		Technical: append([]string(nil), r.Skills.Technical...),
		Soft:      append([]string(nil), r.Skills.Soft...),
	}
	if r.Projects != nil {
		out.Projects = make([]Project, len(r.Projects))
		for i, p := range r.Projects {
			p.Technologies = append([]string(nil), p.Technologies...)
			out.Projects[i] = p
		}
	}
	return &out
}
