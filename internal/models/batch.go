package models

import (
	"time"

	"github.com/google/uuid"
)

// Content kinds.
const (
	ContentKindVideo = "video"
	ContentKindPDF   = "pdf"
)

// ContentItem is one piece of material inside a chapter. Items have no
// identity key: duplicate titles are allowed and items are strictly appended.
type ContentItem struct {
	Title    string `json:"title"`
	Kind     string `json:"type"`
	URL      string `json:"url"`
	Duration string `json:"duration,omitempty"`
}

// Chapter groups content items under a subject. The name is the identity key
// among its siblings (exact string match, case-sensitive).
type Chapter struct {
	Name     string        `json:"chapterName"`
	Contents []ContentItem `json:"contents"`
}

// Subject groups chapters inside a batch. Same identity rule as Chapter.
type Subject struct {
	Name     string    `json:"subjectName"`
	Chapters []Chapter `json:"chapters"`
}

// Batch is a purchasable course owned by one institute. The whole
// subject -> chapter -> content tree is embedded and persisted as a single
// JSONB document.
type Batch struct {
	ID          uuid.UUID `json:"id"`
	InstituteID uuid.UUID `json:"instituteId"`
	Title       string    `json:"title"`
	Teacher     string    `json:"teacher,omitempty"`
	Price       float64   `json:"price"`
	Banner      string    `json:"banner,omitempty"`
	Description string    `json:"description,omitempty"`
	Subjects    []Subject `json:"subjects"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
