package devotionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/mannadev/scriptura/internal/domain/devotion"
)

// ValkeyStore mirrors processed devotions in a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "devotion"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// GetDevotion fetches the mirrored devotion for a day.
func (s *ValkeyStore) GetDevotion(ctx context.Context, day int) (devotion.ProcessedDevotion, bool, error) {
	cmd := s.client.B().Get().Key(s.dayKey(day)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return devotion.ProcessedDevotion{}, false, nil
		}
		return devotion.ProcessedDevotion{}, false, err
	}
	var record devotion.ProcessedDevotion
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return devotion.ProcessedDevotion{}, false, err
	}
	return record, true, nil
}

// SaveDevotion mirrors one devotion with an optional TTL.
func (s *ValkeyStore) SaveDevotion(ctx context.Context, record devotion.ProcessedDevotion, ttl time.Duration) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.dayKey(record.Day)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) dayKey(day int) string {
	return fmt.Sprintf("%s:day:%d", s.prefix, day)
}

var _ devotion.Store = (*ValkeyStore)(nil)
