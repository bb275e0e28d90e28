package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	feedKey = "notifications:feed"
	seqKey  = "notifications:seq"
)

// RedisFeed stores the feed as a capped Redis list, newest at the head, so
// several API processes can share it.
type RedisFeed struct {
	client redis.UniversalClient
	limit  int64
	now    func() time.Time
}

func NewRedisFeed(client redis.UniversalClient, limit int, now func() time.Time) *RedisFeed {
	if now == nil {
		now = time.Now
	}
	if limit <= 0 {
		limit = 100
	}
	return &RedisFeed{client: client, limit: int64(limit), now: now}
}

// Seed writes seed into an empty feed. An existing feed is left untouched.
func (f *RedisFeed) Seed(ctx context.Context, seed ...Notification) error {
	n, err := f.client.Exists(ctx, feedKey).Result()
	if err != nil {
		return fmt.Errorf("check feed: %w", err)
	}
	if n > 0 || len(seed) == 0 {
		return nil
	}

	values := make([]any, 0, len(seed))
	maxID := 0
	for _, s := range seed {
		data, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("marshal notification %d: %w", s.ID, err)
		}
		values = append(values, data)
		maxID = max(maxID, s.ID)
	}

	_, err = f.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, feedKey, values...)
		pipe.LTrim(ctx, feedKey, 0, f.limit-1)
		pipe.Set(ctx, seqKey, maxID, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed feed: %w", err)
	}
	return nil
}

func (f *RedisFeed) List(ctx context.Context) ([]Notification, error) {
	raw, err := f.client.LRange(ctx, feedKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}

	items := make([]Notification, 0, len(raw))
	for _, r := range raw {
		var n Notification
		if err := json.Unmarshal([]byte(r), &n); err != nil {
			return nil, fmt.Errorf("decode notification: %w", err)
		}
		items = append(items, n)
	}
	return items, nil
}

func (f *RedisFeed) Push(ctx context.Context, kind Kind, message string) (Notification, error) {
	if err := checkKind(kind); err != nil {
		return Notification{}, err
	}

	id, err := f.client.Incr(ctx, seqKey).Result()
	if err != nil {
		return Notification{}, fmt.Errorf("next notification id: %w", err)
	}

	n := Notification{ID: int(id), Message: message, Kind: kind, CreatedAt: f.now().UTC()}
	data, err := json.Marshal(n)
	if err != nil {
		return Notification{}, fmt.Errorf("marshal notification: %w", err)
	}

	_, err = f.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, feedKey, data)
		pipe.LTrim(ctx, feedKey, 0, f.limit-1)
		return nil
	})
	if err != nil {
		return Notification{}, fmt.Errorf("push notification: %w", err)
	}
	return n, nil
}
