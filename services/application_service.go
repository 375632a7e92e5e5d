package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/unisearch/api/model"
)

// SubmissionState tracks how far a submission got before finishing or
// failing. The workflow never rolls back: a failed submission leaves the
// application record and any already-uploaded files in place.
type SubmissionState string

const (
	StateCreated     SubmissionState = "created"
	StateUploading   SubmissionState = "uploading"
	StateDocumenting SubmissionState = "documenting"
	StateComplete    SubmissionState = "complete"
	StateFailed      SubmissionState = "failed"
)

// DismissDelay is how long the caller should keep the success state visible
// before dismissing the submission UI.
const DismissDelay = 2 * time.Second

// uploadTimeout bounds the concurrent upload fan-out for one submission.
const uploadTimeout = 2 * time.Minute

// RequiredDocumentFields are the file fields a submission must carry.
var RequiredDocumentFields = []model.DocumentType{
	model.DocumentTypeAcademics,
	model.DocumentTypePassport,
	model.DocumentTypeCV,
	model.DocumentTypeRecommendationLetter1,
	model.DocumentTypeRecommendationLetter2,
}

// OptionalDocumentFields may be present but are not required.
var OptionalDocumentFields = []model.DocumentType{
	model.DocumentTypeExperienceLetter,
}

// ObjectStorage is the object-store surface the workflow depends on.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// ApplicationStore is the relational-storage surface the workflow depends on.
type ApplicationStore interface {
	CreateApplication(app *model.Application) error
	CreateApplicationDocuments(docs []model.ApplicationDocument) error
}

// DocumentFile is one named attachment in a submission.
type DocumentFile struct {
	Content     []byte
	ContentType string
}

// SubmissionInput carries everything a submission needs.
type SubmissionInput struct {
	UserID         uint
	UniversityID   uint
	CourseID       uint
	Files          map[model.DocumentType]DocumentFile
	HasEnglishTest bool
}

// SubmissionResult reports the outcome of a submission attempt.
type SubmissionResult struct {
	ApplicationID uint
	State         SubmissionState
	FailedAt      SubmissionState // state the workflow was in when it failed
	Documents     []model.ApplicationDocument
	DismissAfter  time.Duration
}

// SubmissionError wraps a workflow failure with the state it failed in.
type SubmissionError struct {
	State SubmissionState
	Err   error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission failed during %s: %v", e.State, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// ErrMissingRequiredDocument is returned before any side effect when a
// required file field is absent.
var ErrMissingRequiredDocument = errors.New("missing required document")

// ApplicationService orchestrates the submission workflow: create the
// application record, upload documents, persist document metadata.
type ApplicationService struct {
	store   ApplicationStore
	storage ObjectStorage
	now     func() time.Time
}

// NewApplicationService creates a new application service
func NewApplicationService(store ApplicationStore, storage ObjectStorage) *ApplicationService {
	return &ApplicationService{
		store:   store,
		storage: storage,
		now:     time.Now,
	}
}

// Submit runs the submission workflow. Uploads are issued concurrently and
// fail fast: the first upload error aborts the workflow without waiting for
// the rest, and nothing already persisted is rolled back.
func (s *ApplicationService) Submit(ctx context.Context, input SubmissionInput) (*SubmissionResult, error) {
	if err := validateRequiredFiles(input.Files); err != nil {
		return nil, err
	}

	// Step 1: create the application record. Nothing may be uploaded for a
	// non-existent application.
	app := &model.Application{
		UserID:       input.UserID,
		UniversityID: input.UniversityID,
		CourseID:     input.CourseID,
		Status:       model.ApplicationStatusPending,
	}
	if err := s.store.CreateApplication(app); err != nil {
		return nil, &SubmissionError{State: StateCreated, Err: err}
	}

	result := &SubmissionResult{
		ApplicationID: app.ID,
		State:         StateUploading,
	}

	// Step 2: upload every attached file concurrently. One timestamp is
	// captured per submission so all paths in it correlate.
	timestamp := s.now().Unix()
	documents, err := s.uploadAll(ctx, input, app.ID, timestamp)
	if err != nil {
		result.State = StateFailed
		result.FailedAt = StateUploading
		return result, &SubmissionError{State: StateUploading, Err: err}
	}

	// Step 3: the english_test marker row is always staged, file or not.
	documents = append(documents, model.ApplicationDocument{
		ApplicationID:  app.ID,
		DocumentType:   model.DocumentTypeEnglishTest,
		FilePath:       model.EnglishTestFilePath,
		Status:         model.ApplicationStatusPending,
		HasEnglishTest: input.HasEnglishTest,
	})

	// Step 4: persist all document rows in one batch.
	result.State = StateDocumenting
	if err := s.store.CreateApplicationDocuments(documents); err != nil {
		result.State = StateFailed
		result.FailedAt = StateDocumenting
		return result, &SubmissionError{State: StateDocumenting, Err: err}
	}

	result.State = StateComplete
	result.Documents = documents
	result.DismissAfter = DismissDelay
	return result, nil
}

// uploadAll fans the uploads out and returns either all staged document rows
// or the first error. On error, in-flight uploads are cancelled; files that
// already landed stay in storage.
func (s *ApplicationService) uploadAll(ctx context.Context, input SubmissionInput, appID uint, timestamp int64) ([]model.ApplicationDocument, error) {
	if len(input.Files) == 0 {
		return nil, nil
	}

	// Bounded deadline for the whole upload fan-out
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	type uploadResult struct {
		doc model.ApplicationDocument
		err error
	}

	results := make(chan uploadResult, len(input.Files))
	var wg sync.WaitGroup

	for field, file := range input.Files {
		wg.Add(1)
		go func(field model.DocumentType, file DocumentFile) {
			defer wg.Done()

			key := fmt.Sprintf("%d/%d/%d_%s", input.UserID, appID, timestamp, field)
			path, err := s.storage.Upload(ctx, key, file.Content, file.ContentType)
			if err != nil {
				results <- uploadResult{err: fmt.Errorf("upload %s: %w", field, err)}
				return
			}

			results <- uploadResult{doc: model.ApplicationDocument{
				ApplicationID: appID,
				DocumentType:  field,
				FilePath:      path,
				Status:        model.ApplicationStatusPending,
			}}
		}(field, file)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// The channel is buffered to the number of senders, so cancelling and
	// returning on the first error never blocks the remaining uploads.
	documents := make([]model.ApplicationDocument, 0, len(input.Files))
	for r := range results {
		if r.err != nil {
			cancel()
			return nil, r.err
		}
		documents = append(documents, r.doc)
	}

	return documents, nil
}

func validateRequiredFiles(files map[model.DocumentType]DocumentFile) error {
	for _, field := range RequiredDocumentFields {
		if _, ok := files[field]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingRequiredDocument, field)
		}
	}
	return nil
}

// NotifySubmitted sends a best-effort submission notification through the
// given notifier. Failures are logged, never surfaced to the submitter.
func NotifySubmitted(ctx context.Context, notifier Notifier, event SubmissionEvent) {
	if notifier == nil {
		return
	}
	if err := notifier.SendSubmissionEmail(ctx, event); err != nil {
		log.Printf("Failed to send submission notification for application %d: %v", event.ApplicationID, err)
	}
}
