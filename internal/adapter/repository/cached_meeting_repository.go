package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scribeflow/scribeflow/internal/domain/entities"
	"github.com/scribeflow/scribeflow/internal/domain/repositories"
	"github.com/scribeflow/scribeflow/internal/infrastructure/cache"
)

const meetingCacheTTL = 5 * time.Minute

// CachedMeetingRepository decorates a MeetingRepository with a read-through
// cache on GetByID. Meeting lookups run on every ingested chunk, so they are
// the hottest read in the system. Cache failures degrade to the database.
type CachedMeetingRepository struct {
	inner  repositories.MeetingRepository
	store  cache.Store
	logger *zap.Logger
}

// NewCachedMeetingRepository wraps inner with the given cache store
func NewCachedMeetingRepository(inner repositories.MeetingRepository, store cache.Store, logger *zap.Logger) *CachedMeetingRepository {
	return &CachedMeetingRepository{inner: inner, store: store, logger: logger}
}

func meetingCacheKey(id uuid.UUID) string {
	return "meeting:" + id.String()
}

// Create passes through and does not populate the cache
func (r *CachedMeetingRepository) Create(ctx context.Context, meeting *entities.Meeting) error {
	return r.inner.Create(ctx, meeting)
}

// GetByID serves from cache when possible
func (r *CachedMeetingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	key := meetingCacheKey(id)
	if cached, ok, err := r.store.Get(ctx, key); err == nil && ok {
		var meeting entities.Meeting
		if err := json.Unmarshal([]byte(cached), &meeting); err == nil {
			return &meeting, nil
		}
		// unreadable entry, drop it
		_ = r.store.Delete(ctx, key)
	} else if err != nil {
		r.logger.Warn("⚠️ meeting cache read failed", zap.Error(err))
	}

	meeting, err := r.inner.GetByID(ctx, id)
	if err != nil || meeting == nil {
		return meeting, err
	}

	if encoded, err := json.Marshal(meeting); err == nil {
		if err := r.store.Set(ctx, key, string(encoded), meetingCacheTTL); err != nil {
			r.logger.Warn("⚠️ meeting cache write failed", zap.Error(err))
		}
	}
	return meeting, nil
}

// GetByExternalTranscriptID passes through, webhook lookups are rare
func (r *CachedMeetingRepository) GetByExternalTranscriptID(ctx context.Context, externalID string) (*entities.Meeting, error) {
	return r.inner.GetByExternalTranscriptID(ctx, externalID)
}

// SetExternalTranscriptID passes through and invalidates
func (r *CachedMeetingRepository) SetExternalTranscriptID(ctx context.Context, id uuid.UUID, externalID string) error {
	if err := r.inner.SetExternalTranscriptID(ctx, id, externalID); err != nil {
		return err
	}
	_ = r.store.Delete(ctx, meetingCacheKey(id))
	return nil
}

// Update passes through and invalidates
func (r *CachedMeetingRepository) Update(ctx context.Context, meeting *entities.Meeting) error {
	if err := r.inner.Update(ctx, meeting); err != nil {
		return err
	}
	_ = r.store.Delete(ctx, meetingCacheKey(meeting.ID))
	return nil
}

// Delete passes through and invalidates
func (r *CachedMeetingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	_ = r.store.Delete(ctx, meetingCacheKey(id))
	return nil
}
