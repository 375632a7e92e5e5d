package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unisearch/api/model"
)

type fakeApplicationStore struct {
	mu              sync.Mutex
	nextID          uint
	applications    []*model.Application
	documents       []model.ApplicationDocument
	createAppErr    error
	createDocsErr   error
	docInsertCalled bool
}

func (f *fakeApplicationStore) CreateApplication(app *model.Application) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createAppErr != nil {
		return f.createAppErr
	}
	f.nextID++
	app.ID = f.nextID
	f.applications = append(f.applications, app)
	return nil
}

func (f *fakeApplicationStore) CreateApplicationDocuments(docs []model.ApplicationDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docInsertCalled = true
	if f.createDocsErr != nil {
		return f.createDocsErr
	}
	f.documents = append(f.documents, docs...)
	return nil
}

type fakeObjectStorage struct {
	mu       sync.Mutex
	uploaded map[string][]byte
	failOn   model.DocumentType
}

func newFakeObjectStorage() *fakeObjectStorage {
	return &fakeObjectStorage{uploaded: make(map[string][]byte)}
}

func (f *fakeObjectStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if f.failOn != "" && strings.HasSuffix(key, string(f.failOn)) {
		return "", errors.New("storage quota exceeded")
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded[key] = data
	return key, nil
}

func fullSubmissionInput() SubmissionInput {
	files := make(map[model.DocumentType]DocumentFile)
	for _, field := range RequiredDocumentFields {
		files[field] = DocumentFile{Content: []byte("%PDF-fake"), ContentType: "application/pdf"}
	}
	return SubmissionInput{
		UserID:         7,
		UniversityID:   3,
		CourseID:       11,
		Files:          files,
		HasEnglishTest: true,
	}
}

func TestSubmit_Success(t *testing.T) {
	store := &fakeApplicationStore{}
	storage := newFakeObjectStorage()
	svc := NewApplicationService(store, storage)
	svc.now = func() time.Time { return time.Unix(1700000000, 0) }

	result, err := svc.Submit(context.Background(), fullSubmissionInput())
	require.NoError(t, err)

	assert.Equal(t, StateComplete, result.State)
	assert.Equal(t, uint(1), result.ApplicationID)
	assert.Equal(t, DismissDelay, result.DismissAfter)

	// One row per uploaded file plus the english_test marker
	assert.Len(t, store.documents, len(RequiredDocumentFields)+1)

	// All upload keys share the submission timestamp
	for key := range storage.uploaded {
		assert.True(t, strings.HasPrefix(key, "7/1/1700000000_"), "unexpected key %s", key)
	}
}

func TestSubmit_EnglishTestMarkerAlwaysStaged(t *testing.T) {
	store := &fakeApplicationStore{}
	svc := NewApplicationService(store, newFakeObjectStorage())

	input := fullSubmissionInput()
	input.HasEnglishTest = false

	_, err := svc.Submit(context.Background(), input)
	require.NoError(t, err)

	var marker *model.ApplicationDocument
	for i := range store.documents {
		if store.documents[i].DocumentType == model.DocumentTypeEnglishTest {
			require.Nil(t, marker, "expected exactly one english_test row")
			marker = &store.documents[i]
		}
	}
	require.NotNil(t, marker)
	assert.Equal(t, model.EnglishTestFilePath, marker.FilePath)
	assert.False(t, marker.HasEnglishTest)
	assert.Equal(t, model.ApplicationStatusPending, marker.Status)
}

func TestSubmit_MissingRequiredFileRejectedBeforeSideEffects(t *testing.T) {
	store := &fakeApplicationStore{}
	storage := newFakeObjectStorage()
	svc := NewApplicationService(store, storage)

	input := fullSubmissionInput()
	delete(input.Files, model.DocumentTypePassport)

	result, err := svc.Submit(context.Background(), input)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrMissingRequiredDocument)
	assert.Empty(t, store.applications)
	assert.Empty(t, storage.uploaded)
}

func TestSubmit_CreateApplicationFailureAbortsBeforeUploads(t *testing.T) {
	store := &fakeApplicationStore{createAppErr: errors.New("insert failed")}
	storage := newFakeObjectStorage()
	svc := NewApplicationService(store, storage)

	result, err := svc.Submit(context.Background(), fullSubmissionInput())
	assert.Nil(t, result)

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, StateCreated, subErr.State)
	assert.Empty(t, storage.uploaded)
}

func TestSubmit_UploadFailureSkipsDocumentInsertKeepsApplication(t *testing.T) {
	store := &fakeApplicationStore{}
	storage := newFakeObjectStorage()
	storage.failOn = model.DocumentTypeCV
	svc := NewApplicationService(store, storage)

	result, err := svc.Submit(context.Background(), fullSubmissionInput())

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, StateUploading, subErr.State)

	require.NotNil(t, result)
	assert.Equal(t, StateFailed, result.State)
	assert.Equal(t, StateUploading, result.FailedAt)

	// No rollback: the application record stays in pending
	require.Len(t, store.applications, 1)
	assert.Equal(t, model.ApplicationStatusPending, store.applications[0].Status)

	// Fail fast: the document batch insert never happens
	assert.False(t, store.docInsertCalled)
}

func TestSubmit_DocumentInsertFailureKeepsUploads(t *testing.T) {
	store := &fakeApplicationStore{createDocsErr: errors.New("batch insert failed")}
	storage := newFakeObjectStorage()
	svc := NewApplicationService(store, storage)

	result, err := svc.Submit(context.Background(), fullSubmissionInput())

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, StateDocumenting, subErr.State)

	require.NotNil(t, result)
	assert.Equal(t, StateFailed, result.State)
	assert.Equal(t, StateDocumenting, result.FailedAt)

	// Uploaded files are not cleaned up
	assert.Len(t, storage.uploaded, len(RequiredDocumentFields))
}

func TestSubmit_OptionalExperienceLetterUploaded(t *testing.T) {
	store := &fakeApplicationStore{}
	storage := newFakeObjectStorage()
	svc := NewApplicationService(store, storage)

	input := fullSubmissionInput()
	input.Files[model.DocumentTypeExperienceLetter] = DocumentFile{Content: []byte("%PDF-x"), ContentType: "application/pdf"}

	_, err := svc.Submit(context.Background(), input)
	require.NoError(t, err)

	assert.Len(t, storage.uploaded, len(RequiredDocumentFields)+1)
	assert.Len(t, store.documents, len(RequiredDocumentFields)+2)
}

func TestSubmit_UploadPathLayout(t *testing.T) {
	store := &fakeApplicationStore{}
	storage := newFakeObjectStorage()
	svc := NewApplicationService(store, storage)
	svc.now = func() time.Time { return time.Unix(1234, 0) }

	_, err := svc.Submit(context.Background(), fullSubmissionInput())
	require.NoError(t, err)

	for _, field := range RequiredDocumentFields {
		key := fmt.Sprintf("7/1/1234_%s", field)
		_, ok := storage.uploaded[key]
		assert.True(t, ok, "missing upload at %s", key)
	}
}
