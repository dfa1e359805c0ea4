package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyhall-backend/internal/logger"
	"github.com/yungbote/studyhall-backend/internal/types"
)

type NotificationQueueRepo interface {
	Enqueue(ctx context.Context, tx *gorm.DB, item *types.NotificationQueueItem) (*types.NotificationQueueItem, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.NotificationQueueItem, error)

	// DueItems returns up to limit pending items with scheduled_for <= now,
	// oldest scheduled first.
	DueItems(ctx context.Context, tx *gorm.DB, limit int, now time.Time) ([]*types.NotificationQueueItem, error)

	// Claim flips a single item pending -> in_progress and reports whether
	// this caller won the claim. Two dispatcher processes racing on the same
	// item see exactly one true.
	Claim(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error)

	// ReclaimStale re-offers in_progress items older than the cutoff back to
	// pending, covering a dispatcher that died mid-cycle.
	ReclaimStale(ctx context.Context, tx *gorm.DB, olderThan time.Time) (int64, error)

	// Terminal transitions. Each is a conditional update; a false return means
	// the item was not in a state the transition applies to and nothing was
	// written. Terminal states are never overwritten.
	MarkDelivered(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error)
	MarkFailed(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error)
	Cancel(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error)

	ActiveByEventAndClass(ctx context.Context, tx *gorm.DB, eventID uuid.UUID, class types.NotificationClass) ([]*types.NotificationQueueItem, error)
	ExistsRecent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, class types.NotificationClass, tutorID *uuid.UUID, since time.Time) (bool, error)
	ListDeliveredInApp(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.NotificationQueueItem, error)
}

type notificationQueueRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationQueueRepo(db *gorm.DB, baseLog *logger.Logger) NotificationQueueRepo {
	return &notificationQueueRepo{db: db, log: baseLog.With("repo", "NotificationQueueRepo")}
}

func (r *notificationQueueRepo) Enqueue(ctx context.Context, tx *gorm.DB, item *types.NotificationQueueItem) (*types.NotificationQueueItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.Status == "" {
		item.Status = types.NotificationStatusPending
	}
	if err := transaction.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *notificationQueueRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.NotificationQueueItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var item types.NotificationQueueItem
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *notificationQueueRepo) DueItems(ctx context.Context, tx *gorm.DB, limit int, now time.Time) ([]*types.NotificationQueueItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.NotificationQueueItem
	q := transaction.WithContext(ctx).
		Where("status = ? AND scheduled_for <= ?", types.NotificationStatusPending, now).
		Order("scheduled_for ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *notificationQueueRepo) Claim(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
	return r.transition(ctx, tx, id,
		[]types.NotificationStatus{types.NotificationStatusPending},
		map[string]interface{}{
			"status":     types.NotificationStatusInProgress,
			"updated_at": time.Now(),
		})
}

func (r *notificationQueueRepo) ReclaimStale(ctx context.Context, tx *gorm.DB, olderThan time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.NotificationQueueItem{}).
		Where("status = ? AND updated_at < ?", types.NotificationStatusInProgress, olderThan).
		Updates(map[string]interface{}{
			"status":     types.NotificationStatusPending,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *notificationQueueRepo) MarkDelivered(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
	now := time.Now()
	return r.transition(ctx, tx, id,
		[]types.NotificationStatus{types.NotificationStatusPending, types.NotificationStatusInProgress},
		map[string]interface{}{
			"status":       types.NotificationStatusDelivered,
			"delivered_at": now,
			"updated_at":   now,
		})
}

func (r *notificationQueueRepo) MarkFailed(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
	return r.transition(ctx, tx, id,
		[]types.NotificationStatus{types.NotificationStatusPending, types.NotificationStatusInProgress},
		map[string]interface{}{
			"status":     types.NotificationStatusFailed,
			"updated_at": time.Now(),
		})
}

// Cancel only applies to pending items: an item the dispatcher already
// claimed cannot be retroactively cancelled.
func (r *notificationQueueRepo) Cancel(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
	return r.transition(ctx, tx, id,
		[]types.NotificationStatus{types.NotificationStatusPending},
		map[string]interface{}{
			"status":     types.NotificationStatusCancelled,
			"updated_at": time.Now(),
		})
}

func (r *notificationQueueRepo) transition(ctx context.Context, tx *gorm.DB, id uuid.UUID, from []types.NotificationStatus, updates map[string]interface{}) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.NotificationQueueItem{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *notificationQueueRepo) ActiveByEventAndClass(ctx context.Context, tx *gorm.DB, eventID uuid.UUID, class types.NotificationClass) ([]*types.NotificationQueueItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.NotificationQueueItem
	if err := transaction.WithContext(ctx).
		Where("calendar_event_id = ? AND class = ? AND status IN ?", eventID, class,
			[]types.NotificationStatus{types.NotificationStatusPending, types.NotificationStatusInProgress}).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *notificationQueueRepo) ExistsRecent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, class types.NotificationClass, tutorID *uuid.UUID, since time.Time) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).
		Model(&types.NotificationQueueItem{}).
		Where("user_id = ? AND class = ? AND created_at >= ? AND status <> ?",
			userID, class, since, types.NotificationStatusCancelled)
	if tutorID != nil {
		q = q.Where("tutor_id = ?", *tutorID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *notificationQueueRepo) ListDeliveredInApp(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.NotificationQueueItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.NotificationQueueItem
	q := transaction.WithContext(ctx).
		Where("user_id = ? AND send_in_app = ? AND status = ?", userID, true, types.NotificationStatusDelivered).
		Order("delivered_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
