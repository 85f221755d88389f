package batches_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachdesk/backend/internal/batches"
	"github.com/coachdesk/backend/internal/models"
)

type fakeStore struct {
	byID map[uuid.UUID]*models.Batch
}

func newFakeStore() *fakeStore {
	return &fakeStore{byID: make(map[uuid.UUID]*models.Batch)}
}

func (f *fakeStore) Create(_ context.Context, b *models.Batch) error {
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	if b.Subjects == nil {
		b.Subjects = []models.Subject{}
	}
	cp := *b
	f.byID[b.ID] = &cp
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*models.Batch, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, batches.ErrNotFound
	}
	return b, nil
}

func (f *fakeStore) ListByInstitute(_ context.Context, instituteID uuid.UUID) ([]models.Batch, error) {
	var list []models.Batch
	for _, b := range f.byID {
		if b.InstituteID == instituteID {
			list = append(list, *b)
		}
	}
	return list, nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return batches.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeStore) AddContent(_ context.Context, batchID uuid.UUID, subjectName, chapterName string, item models.ContentItem) (*models.Batch, error) {
	b, ok := f.byID[batchID]
	if !ok {
		return nil, batches.ErrNotFound
	}
	merged, err := batches.MergeContent(b.Subjects, subjectName, chapterName, item)
	if err != nil {
		return nil, err
	}
	b.Subjects = merged
	return b, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newRouter(store *fakeStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := batches.NewHandler(store, nil)
	r := gin.New()
	r.POST("/api/admin/add-batch", h.AddBatch)
	r.GET("/api/admin/my-batches/:instId", h.ListByPath)
	r.GET("/api/admin/batch/:id", h.GetByID)
	r.POST("/api/admin/add-material/:batchId", h.AddMaterial)
	r.DELETE("/api/admin/delete-batch/:id", h.Delete)
	r.GET("/api/batches", h.ListByHeader)
	r.GET("/api/batches/:instId", h.ListByPath)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func seedBatch(t *testing.T, store *fakeStore, instituteID uuid.UUID) *models.Batch {
	t.Helper()
	b := &models.Batch{InstituteID: instituteID, Title: "JEE 2026"}
	require.NoError(t, store.Create(context.Background(), b))
	return b
}

func TestAddBatch(t *testing.T) {
	store := newFakeStore()
	r := newRouter(store)
	instID := uuid.New()

	w, env := doJSON(t, r, http.MethodPost, "/api/admin/add-batch", gin.H{
		"instituteId": instID.String(),
		"title":       "NEET Crash Course",
		"teacher":     "Dr. Rao",
		"price":       4999,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var b models.Batch
	require.NoError(t, json.Unmarshal(env.Data, &b))
	assert.Equal(t, instID, b.InstituteID)
	assert.Equal(t, "NEET Crash Course", b.Title)
	assert.NotEqual(t, uuid.Nil, b.ID)
	assert.Empty(t, b.Subjects)
}

func TestAddBatch_MissingTitle(t *testing.T) {
	r := newRouter(newFakeStore())
	w, _ := doJSON(t, r, http.MethodPost, "/api/admin/add-batch", gin.H{"instituteId": uuid.New().String()})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddMaterial_BuildsNestedTree(t *testing.T) {
	store := newFakeStore()
	r := newRouter(store)
	b := seedBatch(t, store, uuid.New())

	w, env := doJSON(t, r, http.MethodPost, "/api/admin/add-material/"+b.ID.String(), gin.H{
		"subjectName": "Chemistry",
		"chapterName": "Atoms",
		"title":       "Intro",
		"type":        "video",
		"url":         "https://x/1",
	})
	require.Equal(t, http.StatusOK, w.Code, env.Error)

	var got models.Batch
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got.Subjects, 1)
	assert.Equal(t, "Chemistry", got.Subjects[0].Name)
	require.Len(t, got.Subjects[0].Chapters, 1)
	require.Len(t, got.Subjects[0].Chapters[0].Contents, 1)
	assert.Equal(t, "Intro", got.Subjects[0].Chapters[0].Contents[0].Title)
}

func TestAddMaterial_UnknownBatch(t *testing.T) {
	r := newRouter(newFakeStore())
	w, _ := doJSON(t, r, http.MethodPost, "/api/admin/add-material/"+uuid.NewString(), gin.H{
		"subjectName": "Chemistry",
		"chapterName": "Atoms",
		"title":       "Intro",
		"type":        "video",
		"url":         "https://x/1",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddMaterial_InvalidKind(t *testing.T) {
	store := newFakeStore()
	r := newRouter(store)
	b := seedBatch(t, store, uuid.New())

	w, env := doJSON(t, r, http.MethodPost, "/api/admin/add-material/"+b.ID.String(), gin.H{
		"subjectName": "Chemistry",
		"chapterName": "Atoms",
		"title":       "Intro",
		"type":        "quiz",
		"url":         "https://x/1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error, "video or pdf")
}

func TestAddMaterial_InvalidBatchID(t *testing.T) {
	r := newRouter(newFakeStore())
	w, _ := doJSON(t, r, http.MethodPost, "/api/admin/add-material/not-a-uuid", gin.H{
		"subjectName": "Chemistry",
		"chapterName": "Atoms",
		"title":       "Intro",
		"type":        "video",
		"url":         "https://x/1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteBatch(t *testing.T) {
	store := newFakeStore()
	r := newRouter(store)
	b := seedBatch(t, store, uuid.New())

	w, _ := doJSON(t, r, http.MethodDelete, "/api/admin/delete-batch/"+b.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = doJSON(t, r, http.MethodDelete, "/api/admin/delete-batch/"+b.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListBatches_HeaderForm(t *testing.T) {
	store := newFakeStore()
	r := newRouter(store)
	instID := uuid.New()
	seedBatch(t, store, instID)
	seedBatch(t, store, uuid.New()) // other tenant

	req := httptest.NewRequest(http.MethodGet, "/api/batches", nil)
	req.Header.Set("x-institute-id", instID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var list []models.Batch
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)
}

func TestListBatches_MissingHeader(t *testing.T) {
	r := newRouter(newFakeStore())
	req := httptest.NewRequest(http.MethodGet, "/api/batches", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListBatches_PathForm_EmptyTenant(t *testing.T) {
	r := newRouter(newFakeStore())
	w, env := doJSON(t, r, http.MethodGet, "/api/batches/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", string(bytes.TrimSpace(env.Data)))
}
