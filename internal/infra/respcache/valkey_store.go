package respcache

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

const scanBatch = 200

// ValkeyStore keeps entries in a Valkey-compatible server under a
// per-session namespace, so Clear only touches this session's keys.
type ValkeyStore struct {
	client    valkey.Client
	namespace string
}

// NewValkeyStore namespaces keys as "<prefix>:<session id>:".
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "aqi:responses"
	}
	return &ValkeyStore{
		client:    client,
		namespace: fmt.Sprintf("%s:%s:", prefix, uuid.NewString()),
	}
}

// Namespace returns the session key prefix.
func (s *ValkeyStore) Namespace() string {
	return s.namespace
}

func (s *ValkeyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Do(ctx, s.client.B().Get().Key(s.namespace+key).Build()).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

func (s *ValkeyStore) SetIfAbsent(ctx context.Context, key string, value []byte) error {
	cmd := s.client.B().Set().Key(s.namespace + key).Value(valkey.BinaryString(value)).Nx().Build()
	err := s.client.Do(ctx, cmd).Error()
	if valkey.IsValkeyNil(err) {
		// NX declined: the key was already written.
		return nil
	}
	return err
}

func (s *ValkeyStore) Delete(ctx context.Context, key string) error {
	return s.client.Do(ctx, s.client.B().Del().Key(s.namespace+key).Build()).Error()
}

func (s *ValkeyStore) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		entry, err := s.client.Do(ctx, s.client.B().Scan().Cursor(cursor).Match(s.namespace+"*").Count(scanBatch).Build()).AsScanEntry()
		if err != nil {
			return err
		}
		if len(entry.Elements) > 0 {
			if err := s.client.Do(ctx, s.client.B().Del().Key(entry.Elements...).Build()).Error(); err != nil {
				return err
			}
		}
		cursor = entry.Cursor
		if cursor == 0 {
			return nil
		}
	}
}

func (s *ValkeyStore) Close() error {
	s.client.Close()
	return nil
}

var _ Store = (*ValkeyStore)(nil)
