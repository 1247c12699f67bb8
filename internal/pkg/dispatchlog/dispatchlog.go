// Package dispatchlog keeps a Redis-backed record of newsletter dispatch
// runs, so a double-triggered publish does not blast subscribers twice and
// past runs stay visible to the admin API.
package dispatchlog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	redisc "github.com/maquinsa/site-core/internal/pkg/redis"
	"github.com/redis/go-redis/v9"
)

// Entry is one recorded dispatch run.
type Entry struct {
	ID          string         `json:"id"`
	ContentID   string         `json:"content_id"`
	Slug        string         `json:"slug"`
	Sent        int            `json:"sent"`
	PerLanguage map[string]int `json:"per_language"`
	Errors      []string       `json:"errors,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

const (
	keyPrefix  = "mq:dispatch:"
	keyIndex   = "mq:dispatches:index"      // sorted set: score=created_at, member=entry_id
	keyByTopic = "mq:dispatches:by_content" // hash: content_id -> entry_id
	entryTTL   = 30 * 24 * time.Hour
	// DedupWindow is how long a content id blocks a repeat dispatch.
	DedupWindow = 10 * time.Minute
)

// Service manages the dispatch log.
type Service struct {
	rc *redisc.Client
}

func NewService(rc *redisc.Client) *Service {
	return &Service{rc: rc}
}

func (s *Service) entryKey(id string) string { return keyPrefix + id }

// Record stores a finished dispatch run and indexes it by content id.
func (s *Service) Record(ctx context.Context, entry *Entry) (*Entry, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}

	pipe := s.rc.Raw().TxPipeline()
	pipe.Set(ctx, s.entryKey(entry.ID), data, entryTTL)
	pipe.ZAdd(ctx, keyIndex, redis.Z{
		Score:  float64(entry.CreatedAt.UnixMilli()),
		Member: entry.ID,
	})
	if entry.ContentID != "" {
		pipe.HSet(ctx, keyByTopic, entry.ContentID, entry.ID)
	}
	_, err = pipe.Exec(ctx)
	return entry, err
}

// GetByID retrieves one entry, nil when absent or expired.
func (s *Service) GetByID(ctx context.Context, id string) (*Entry, error) {
	data, err := s.rc.Raw().Get(ctx, s.entryKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entry Entry
	return &entry, json.Unmarshal(data, &entry)
}

// FindRecent returns the last run for a content id if it happened within
// the dedup window, nil otherwise.
func (s *Service) FindRecent(ctx context.Context, contentID string) (*Entry, error) {
	id, err := s.rc.Raw().HGet(ctx, keyByTopic, contentID).Result()
	if err == redis.Nil || id == "" {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	entry, err := s.GetByID(ctx, id)
	if err != nil || entry == nil {
		return nil, err
	}
	if time.Since(entry.CreatedAt) > DedupWindow {
		return nil, nil
	}
	return entry, nil
}

// List returns dispatch runs newest first.
func (s *Service) List(ctx context.Context, page, size int) ([]*Entry, int64, error) {
	ids, err := s.rc.Raw().ZRevRange(ctx, keyIndex, 0, -1).Result()
	if err != nil {
		return nil, 0, err
	}

	entries := make([]*Entry, 0, len(ids))
	for _, id := range ids {
		entry, err := s.GetByID(ctx, id)
		if err != nil || entry == nil {
			continue
		}
		entries = append(entries, entry)
	}

	total := int64(len(entries))
	start := (page - 1) * size
	end := start + size
	if start >= len(entries) {
		return []*Entry{}, total, nil
	}
	if end > len(entries) {
		end = len(entries)
	}
	return entries[start:end], total, nil
}
