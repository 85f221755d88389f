package batches

import (
	"errors"

	"github.com/coachdesk/backend/internal/models"
)

// ErrInvalidContentKind is returned when a content item's kind is not one of
// the recognized values.
var ErrInvalidContentKind = errors.New("content type must be video or pdf")

// MergeContent inserts one content item into the subjects tree under
// (subjectName, chapterName), creating the subject and chapter on first use.
//
// Lookup is a first-match scan by exact, case-sensitive name equality; a
// missing subject or chapter is appended at the end of its sibling sequence.
// Content items are always appended, never replaced or merged by title, so
// sibling names stay unique while items may repeat. The merged tree is
// returned; persisting it is the caller's job.
func MergeContent(subjects []models.Subject, subjectName, chapterName string, item models.ContentItem) ([]models.Subject, error) {
	if item.Kind != models.ContentKindVideo && item.Kind != models.ContentKindPDF {
		return nil, ErrInvalidContentKind
	}

	si := -1
	for i := range subjects {
		if subjects[i].Name == subjectName {
			si = i
			break
		}
	}
	if si == -1 {
		subjects = append(subjects, models.Subject{Name: subjectName, Chapters: []models.Chapter{}})
		si = len(subjects) - 1
	}
	subject := &subjects[si]

	ci := -1
	for i := range subject.Chapters {
		if subject.Chapters[i].Name == chapterName {
			ci = i
			break
		}
	}
	if ci == -1 {
		subject.Chapters = append(subject.Chapters, models.Chapter{Name: chapterName, Contents: []models.ContentItem{}})
		ci = len(subject.Chapters) - 1
	}
	chapter := &subject.Chapters[ci]

	chapter.Contents = append(chapter.Contents, item)
	return subjects, nil
}
