package batches

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachdesk/backend/internal/models"
)

func video(title string) models.ContentItem {
	return models.ContentItem{Title: title, Kind: models.ContentKindVideo, URL: "https://cdn.example.com/" + title}
}

func TestMergeContent_EmptyTree(t *testing.T) {
	item := models.ContentItem{Title: "Intro", Kind: models.ContentKindVideo, URL: "https://x/1"}

	subjects, err := MergeContent(nil, "Chemistry", "Atoms", item)
	require.NoError(t, err)

	require.Len(t, subjects, 1)
	assert.Equal(t, "Chemistry", subjects[0].Name)
	require.Len(t, subjects[0].Chapters, 1)
	assert.Equal(t, "Atoms", subjects[0].Chapters[0].Name)
	require.Len(t, subjects[0].Chapters[0].Contents, 1)
	assert.Equal(t, item, subjects[0].Chapters[0].Contents[0])
}

func TestMergeContent_SameSubjectChapterTwice(t *testing.T) {
	subjects, err := MergeContent(nil, "Physics", "Kinematics", video("lesson-1"))
	require.NoError(t, err)
	subjects, err = MergeContent(subjects, "Physics", "Kinematics", video("lesson-2"))
	require.NoError(t, err)

	require.Len(t, subjects, 1, "second merge must reuse the subject")
	require.Len(t, subjects[0].Chapters, 1, "second merge must reuse the chapter")
	contents := subjects[0].Chapters[0].Contents
	require.Len(t, contents, 2)
	assert.Equal(t, "lesson-1", contents[0].Title)
	assert.Equal(t, "lesson-2", contents[1].Title)
}

func TestMergeContent_DistinctPairsAnyOrder(t *testing.T) {
	pairs := []struct{ subject, chapter string }{
		{"Physics", "Kinematics"},
		{"Physics", "Dynamics"},
		{"Chemistry", "Atoms"},
		{"Maths", "Algebra"},
		{"Chemistry", "Bonds"},
		{"Physics", "Kinematics"},
		{"Maths", "Algebra"},
	}

	var subjects []models.Subject
	var err error
	for i, p := range pairs {
		subjects, err = MergeContent(subjects, p.subject, p.chapter, video(p.chapter))
		require.NoError(t, err, "merge %d", i)
	}

	// One subject node per distinct name, one chapter per distinct pair.
	require.Len(t, subjects, 3)
	byName := map[string][]models.Chapter{}
	for _, s := range subjects {
		byName[s.Name] = s.Chapters
	}
	assert.Len(t, byName["Physics"], 2)
	assert.Len(t, byName["Chemistry"], 2)
	assert.Len(t, byName["Maths"], 1)

	// Repeated pairs appended items instead of creating siblings.
	assert.Len(t, byName["Physics"][0].Contents, 2)
	assert.Len(t, byName["Maths"][0].Contents, 2)
}

func TestMergeContent_NewNodesAppendAtEnd(t *testing.T) {
	subjects, err := MergeContent(nil, "Physics", "Kinematics", video("a"))
	require.NoError(t, err)
	subjects, err = MergeContent(subjects, "Chemistry", "Atoms", video("b"))
	require.NoError(t, err)
	subjects, err = MergeContent(subjects, "Physics", "Dynamics", video("c"))
	require.NoError(t, err)

	require.Len(t, subjects, 2)
	assert.Equal(t, "Physics", subjects[0].Name)
	assert.Equal(t, "Chemistry", subjects[1].Name)
	require.Len(t, subjects[0].Chapters, 2)
	assert.Equal(t, "Kinematics", subjects[0].Chapters[0].Name)
	assert.Equal(t, "Dynamics", subjects[0].Chapters[1].Name)
}

func TestMergeContent_NamesAreCaseSensitive(t *testing.T) {
	subjects, err := MergeContent(nil, "physics", "kinematics", video("a"))
	require.NoError(t, err)
	subjects, err = MergeContent(subjects, "Physics", "kinematics", video("b"))
	require.NoError(t, err)
	subjects, err = MergeContent(subjects, "physics", "Kinematics", video("c"))
	require.NoError(t, err)

	require.Len(t, subjects, 2, "exact match only, no case folding")
	assert.Len(t, subjects[0].Chapters, 2)
	assert.Len(t, subjects[1].Chapters, 1)
}

func TestMergeContent_NoTrimming(t *testing.T) {
	subjects, err := MergeContent(nil, "Physics", "Kinematics", video("a"))
	require.NoError(t, err)
	subjects, err = MergeContent(subjects, " Physics", "Kinematics", video("b"))
	require.NoError(t, err)

	assert.Len(t, subjects, 2)
}

func TestMergeContent_DuplicateTitlesAllowed(t *testing.T) {
	subjects, err := MergeContent(nil, "Physics", "Kinematics", video("same"))
	require.NoError(t, err)
	subjects, err = MergeContent(subjects, "Physics", "Kinematics", video("same"))
	require.NoError(t, err)

	assert.Len(t, subjects[0].Chapters[0].Contents, 2, "items are never merged by title")
}

func TestMergeContent_InvalidKindRejected(t *testing.T) {
	for _, kind := range []string{"", "audio", "VIDEO", "Pdf"} {
		_, err := MergeContent(nil, "Physics", "Kinematics", models.ContentItem{Title: "x", Kind: kind, URL: "https://x"})
		assert.ErrorIs(t, err, ErrInvalidContentKind, "kind %q", kind)
	}
}

func TestMergeContent_PDFKindAccepted(t *testing.T) {
	subjects, err := MergeContent(nil, "Physics", "Kinematics", models.ContentItem{Title: "notes", Kind: models.ContentKindPDF, URL: "https://x/n.pdf"})
	require.NoError(t, err)
	assert.Equal(t, models.ContentKindPDF, subjects[0].Chapters[0].Contents[0].Kind)
}
