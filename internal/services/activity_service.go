package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ahmed7gendy/hr-edecs/internal/apperror"
	"github.com/ahmed7gendy/hr-edecs/internal/logger"
	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/store"
)

// ActivityRecorder accepts audit entries without reporting failures.
type ActivityRecorder interface {
	LogActivity(ctx context.Context, entry models.ActivityEntry)
}

const defaultActivityLimit = 50

// ActivityLogger appends audit records in the background. A failed write is
// logged and dropped; it never reaches the caller.
type ActivityLogger struct {
	coll    store.Collection[models.Activity]
	timeout time.Duration
	log     *zap.Logger
	now     func() time.Time
	wg      sync.WaitGroup
}

// NewActivityLogger creates an ActivityLogger. timeout bounds each background
// write; zero selects 5s.
func NewActivityLogger(coll store.Collection[models.Activity], timeout time.Duration, log *zap.Logger) *ActivityLogger {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ActivityLogger{
		coll:    coll,
		timeout: timeout,
		log:     logger.OrNop(log).Named("activity"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// LogActivity stamps entry and writes it on its own goroutine. The write
// outlives cancellation of ctx so a finished request still gets its record.
func (a *ActivityLogger) LogActivity(ctx context.Context, entry models.ActivityEntry) {
	log := logger.WithContext(ctx, a.log)
	if !entry.Type.Valid() || !entry.Action.Valid() {
		log.Warn("activity dropped: unknown type or action",
			zap.String("type", string(entry.Type)),
			zap.String("action", string(entry.Action)),
		)
		return
	}

	doc := models.Activity{
		ID:          store.NewID(),
		UserID:      entry.UserID,
		Type:        entry.Type,
		Action:      entry.Action,
		Title:       entry.Title,
		Description: entry.Description,
		RelatedID:   entry.RelatedID,
		Metadata:    entry.Metadata,
		Timestamp:   a.now(),
	}

	bg := context.WithoutCancel(ctx)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Error("activity write panicked", zap.Any("panic", r), zap.String("activity_id", doc.ID))
			}
		}()

		wctx, cancel := context.WithTimeout(bg, a.timeout)
		defer cancel()
		if err := a.coll.Insert(wctx, doc); err != nil {
			log.Error("activity write failed",
				zap.String("activity_id", doc.ID),
				zap.String("type", string(doc.Type)),
				zap.String("action", string(doc.Action)),
				zap.String("related_id", doc.RelatedID),
				zap.Error(err),
			)
		}
	}()
}

// Wait blocks until every pending write has finished.
func (a *ActivityLogger) Wait() {
	a.wg.Wait()
}

// Recent returns the newest activities across all users. A non-positive
// limit selects the default page size.
func (a *ActivityLogger) Recent(ctx context.Context, limit int64) ([]models.Activity, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	return a.find(ctx, store.NewQuery(), limit, "list recent activity")
}

// ForUser returns the newest activities performed by userID.
func (a *ActivityLogger) ForUser(ctx context.Context, userID string, limit int64) ([]models.Activity, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	return a.find(ctx, store.Where("userId", userID), limit, "list user activity")
}

// ForRelated returns every activity about the entity relatedID, newest first.
func (a *ActivityLogger) ForRelated(ctx context.Context, relatedID string) ([]models.Activity, error) {
	return a.find(ctx, store.Where("relatedId", relatedID), 0, "list related activity")
}

func (a *ActivityLogger) find(ctx context.Context, q store.Query, limit int64, op string) ([]models.Activity, error) {
	items, err := a.coll.Find(ctx, q.OrderBy("timestamp", true).Limit(limit))
	if err != nil {
		return nil, apperror.FromStore(err, op)
	}
	return items, nil
}
