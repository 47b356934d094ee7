package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/ksuid"
	"gorm.io/gorm"

	"Alumni_Network/internal/model"
)

type OutboxRepository struct {
	DB *gorm.DB
}

// insertOutbox writes an outbox row on tx so the event commits or rolls back
// together with the change it describes.
func insertOutbox(tx *gorm.DB, event string, aggregateID uint64, fields map[string]any) error {
	body := map[string]any{
		"event":      event,
		"event_time": time.Now().UTC().Format(time.RFC3339Nano),
	}
	for k, v := range fields {
		body[k] = v
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return tx.Create(&model.Outbox{
		EventID:     ksuid.New().String(),
		EventType:   event,
		AggregateID: aggregateID,
		Payload:     string(payload),
		Status:      model.OutboxPending,
	}).Error
}

// List returns pending rows and failed rows still under maxRetry, oldest first.
func (r *OutboxRepository) List(ctx context.Context, batchSize, maxRetry int) ([]model.Outbox, error) {
	var list []model.Outbox
	if err := r.DB.WithContext(ctx).
		Where("(status = ? OR (status = ? AND retry < ?))", model.OutboxPending, model.OutboxFailed, maxRetry).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// RetryUpdate marks a delivery failure.
func (r *OutboxRepository) RetryUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.Outbox{}).Where("id = ?", id).
		Updates(map[string]any{"status": model.OutboxFailed, "retry": gorm.Expr("retry + 1")}).Error
}

func (r *OutboxRepository) SuccessUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.Outbox{}).Where("id = ?", id).
		Update("status", model.OutboxSent).Error
}
