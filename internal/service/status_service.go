package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gimvic/schedule-sync/internal/models"
)

const statusKeyPrefix = "schedule-sync:last-run:"

// StatusService keeps the last run result per source in Redis so the ops
// endpoint can report freshness across process restarts.
type StatusService struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatusService constructs the status store. Results expire after a week
// so dead sources eventually read as unknown rather than stale-forever.
func NewStatusService(client *redis.Client) *StatusService {
	return &StatusService{client: client, ttl: 7 * 24 * time.Hour}
}

// Record stores a run result for its source.
func (s *StatusService) Record(ctx context.Context, result *models.RunResult) error {
	if s == nil || s.client == nil {
		return nil
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal run result: %w", err)
	}
	if err := s.client.Set(ctx, statusKeyPrefix+result.Source, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("store run result: %w", err)
	}
	return nil
}

// LastRun returns the stored result for a source, or nil when none is known.
func (s *StatusService) LastRun(ctx context.Context, source string) (*models.RunResult, error) {
	if s == nil || s.client == nil {
		return nil, nil
	}
	payload, err := s.client.Get(ctx, statusKeyPrefix+source).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load run result: %w", err)
	}

	var result models.RunResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("decode run result: %w", err)
	}
	return &result, nil
}

// Overview returns the last run per source, skipping sources with no record.
func (s *StatusService) Overview(ctx context.Context, sources []string) (map[string]*models.RunResult, error) {
	overview := make(map[string]*models.RunResult, len(sources))
	for _, source := range sources {
		result, err := s.LastRun(ctx, source)
		if err != nil {
			return nil, err
		}
		if result != nil {
			overview[source] = result
		}
	}
	return overview, nil
}
