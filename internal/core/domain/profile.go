package domain

import "time"

// SyllabusEntry is one subject of a user's syllabus with its chapters, in
// teaching order.
type SyllabusEntry struct {
	Subject  string   `json:"subject"`
	Chapters []string `json:"chapters"`
}

type CalendarEvent struct {
	Title string    `json:"title"`
	Date  time.Time `json:"date"`
	Notes string    `json:"notes,omitempty"`
}

// Profile is a user's study profile. Mutated only through the profile
// management operations; the retrieval path treats it as read-only.
type Profile struct {
	UserID    string          `json:"user_id"`
	Name      string          `json:"name"`
	Course    string          `json:"course,omitempty"`
	Year      int             `json:"year,omitempty"`
	Syllabus  []SyllabusEntry `json:"syllabus"`
	Calendar  []CalendarEvent `json:"calendar,omitempty"`
	Roadmap   *Roadmap        `json:"roadmap,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SyllabusSubjects returns the subject names in syllabus order.
func (p *Profile) SyllabusSubjects() []string {
	if p == nil {
		return nil
	}
	out := make([]string, 0, len(p.Syllabus))
	for _, entry := range p.Syllabus {
		out = append(out, entry.Subject)
	}
	return out
}

// Roadmap is a generated study plan persisted on the profile.
type Roadmap struct {
	Goal      string        `json:"goal"`
	Steps     []RoadmapStep `json:"steps"`
	CreatedAt time.Time     `json:"created_at"`
}

type RoadmapStep struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DurationDay int    `json:"duration_days,omitempty"`
	Completed   bool   `json:"completed"`
}
