package storage

import (
	"context"
	"encoding/json"
	"fmt"

	pkgerrors "github.com/angelmondragon/cartcore/pkg/errors"
	"github.com/angelmondragon/cartcore/pkg/logger"
	"github.com/angelmondragon/cartcore/pkg/metrics"
)

// RecordStore reads and writes one JSON-encoded record type on top of a KV
// backend. A stored value that fails to parse is treated as corrupted: the
// key is removed and the zero value returned, never an error.
type RecordStore[T any] struct {
	kv      KV
	log     *logger.Logger
	metrics *metrics.CartMetrics
}

// NewRecordStore builds a record store. The metrics collaborator may be nil.
func NewRecordStore[T any](kv KV, log *logger.Logger, met *metrics.CartMetrics) (*RecordStore[T], error) {
	if kv == nil {
		return nil, fmt.Errorf("kv backend required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &RecordStore[T]{kv: kv, log: log, metrics: met}, nil
}

// Read returns the decoded record and whether one was present.
func (s *RecordStore[T]) Read(ctx context.Context, key string) (T, bool, error) {
	var zero T

	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return zero, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read record")
	}
	if !ok {
		return zero, false, nil
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		s.log.Warn(s.log.WithField(ctx, "key", key), "discarding corrupted record")
		s.metrics.IncCorruptRecord()
		if delErr := s.kv.Del(ctx, key); delErr != nil {
			s.log.Error(ctx, "removing corrupted record", delErr)
		}
		return zero, false, nil
	}
	return value, true, nil
}

// Write serializes and stores the record, overwriting any prior value.
func (s *RecordStore[T]) Write(ctx context.Context, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode record")
	}
	if err := s.kv.Set(ctx, key, string(raw)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStoreWrite, err, "persist record")
	}
	return nil
}

// Erase removes the record; erasing an absent key is a no-op.
func (s *RecordStore[T]) Erase(ctx context.Context, key string) error {
	if err := s.kv.Del(ctx, key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStoreWrite, err, "erase record")
	}
	return nil
}
