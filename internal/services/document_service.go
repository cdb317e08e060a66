package services

import (
	"context"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ahmed7gendy/hr-edecs/internal/apperror"
	"github.com/ahmed7gendy/hr-edecs/internal/database"
	"github.com/ahmed7gendy/hr-edecs/internal/logger"
	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/store"
	"github.com/ahmed7gendy/hr-edecs/internal/validation"
)

const documentFolder = "hr-documents"

// UploadDocumentInput is a file plus the metadata to store with it.
type UploadDocumentInput struct {
	UserID   string
	Title    string
	Category string
	FileName string
	File     io.Reader
}

// DocumentService stores employee documents. Files go to the Uploader,
// metadata to the documents collection.
type DocumentService struct {
	cols     *database.Collections
	uploader Uploader
	activity ActivityRecorder
	log      *zap.Logger
	now      func() time.Time
}

// NewDocumentService creates a new DocumentService. uploader may be nil, in
// which case only metadata for externally hosted files can be recorded.
func NewDocumentService(cols *database.Collections, uploader Uploader, activity ActivityRecorder, log *zap.Logger) *DocumentService {
	return &DocumentService{
		cols:     cols,
		uploader: uploader,
		activity: activity,
		log:      logger.OrNop(log).Named("documents"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create records metadata for a file that is already hosted.
func (s *DocumentService) Create(ctx context.Context, actor models.Actor, doc models.Document) (*models.Document, error) {
	doc.Title = strings.TrimSpace(doc.Title)
	if err := invalid(validation.ValidateDocument(doc)); err != nil {
		return nil, err
	}
	if _, err := s.cols.Users.Get(ctx, doc.UserID); err != nil {
		return nil, lookupErr(err, "employee", doc.UserID, "get employee")
	}

	doc.ID = store.NewID()
	doc.UploadedBy = actor.UserID
	doc.CreatedAt = s.now()
	if doc.Category == "" {
		doc.Category = "general"
	}
	if err := s.cols.Documents.Insert(ctx, doc); err != nil {
		return nil, apperror.FromStore(err, "create document")
	}

	s.activity.LogActivity(ctx, models.ActivityEntry{
		UserID:      actor.UserID,
		Type:        models.ActivityDocument,
		Action:      models.ActionCreate,
		Title:       "Document added",
		Description: doc.Title,
		RelatedID:   doc.ID,
		Metadata:    map[string]any{"employeeId": doc.UserID, "category": doc.Category},
	})
	return &doc, nil
}

// Upload sends the file to storage, then records its metadata. If the
// metadata write fails the uploaded file is removed again.
func (s *DocumentService) Upload(ctx context.Context, actor models.Actor, in UploadDocumentInput) (*models.Document, error) {
	if s.uploader == nil {
		return nil, apperror.New(apperror.KindNetwork, "File storage is not configured")
	}
	errs := validation.ValidateDocument(models.Document{UserID: in.UserID, Title: in.Title, URL: "pending"})
	if in.File == nil {
		errs["url"] = "File is required"
	}
	if err := invalid(errs); err != nil {
		return nil, err
	}
	if _, err := s.cols.Users.Get(ctx, in.UserID); err != nil {
		return nil, lookupErr(err, "employee", in.UserID, "get employee")
	}

	log := logger.WithContext(ctx, s.log)
	res, err := s.uploader.Upload(ctx, in.File, documentFolder+"/"+in.UserID, in.FileName)
	if err != nil {
		log.Error("document upload failed", zap.String("user_id", in.UserID), zap.Error(err))
		return nil, apperror.Wrap(err, apperror.KindNetwork, "File upload failed")
	}

	doc, err := s.Create(ctx, actor, models.Document{
		UserID:   in.UserID,
		Title:    in.Title,
		Category: in.Category,
		URL:      res.URL,
		PublicID: res.PublicID,
		FileName: in.FileName,
		Size:     res.Bytes,
	})
	if err != nil {
		if rmErr := s.uploader.Remove(context.WithoutCancel(ctx), res.PublicID); rmErr != nil {
			log.Warn("orphaned upload not removed", zap.String("public_id", res.PublicID), zap.Error(rmErr))
		}
		return nil, err
	}
	return doc, nil
}

// List returns a user's documents, newest first.
func (s *DocumentService) List(ctx context.Context, userID, category string) ([]models.Document, error) {
	q := store.NewQuery()
	if userID != "" {
		q = q.Eq("userId", userID)
	}
	if category != "" {
		q = q.Eq("category", category)
	}
	items, err := s.cols.Documents.Find(ctx, q.OrderBy("createdAt", true))
	if err != nil {
		return nil, apperror.FromStore(err, "list documents")
	}
	return items, nil
}

// Delete removes the metadata and, when hosted by the uploader, the file.
// A failed file removal is logged; the metadata is already gone.
func (s *DocumentService) Delete(ctx context.Context, actor models.Actor, id string) error {
	doc, err := s.cols.Documents.Get(ctx, id)
	if err != nil {
		return lookupErr(err, "document", id, "get document")
	}
	if err := s.cols.Documents.Delete(ctx, id); err != nil {
		return lookupErr(err, "document", id, "delete document")
	}

	if doc.PublicID != "" && s.uploader != nil {
		if err := s.uploader.Remove(ctx, doc.PublicID); err != nil {
			logger.WithContext(ctx, s.log).Warn("stored file not removed",
				zap.String("document_id", id),
				zap.String("public_id", doc.PublicID),
				zap.Error(err),
			)
		}
	}

	s.activity.LogActivity(ctx, models.ActivityEntry{
		UserID:      actor.UserID,
		Type:        models.ActivityDocument,
		Action:      models.ActionDelete,
		Title:       "Document deleted",
		Description: doc.Title,
		RelatedID:   id,
		Metadata:    map[string]any{"employeeId": doc.UserID},
	})
	return nil
}
