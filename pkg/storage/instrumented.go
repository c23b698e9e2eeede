package storage

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/monesting/notification-store/pkg/metrics"
)

// instrumented records operation counts and latencies for a backend.
type instrumented struct {
	next    KV
	backend string
}

// Instrument wraps kv so that every operation is reported to the
// storage_operations metrics under the given backend label.
func Instrument(kv KV, backend string) KV {
	return &instrumented{next: kv, backend: backend}
}

func (i *instrumented) observe(op string, start time.Time, err error) {
	result := metrics.ResultOK
	switch {
	case errors.Is(err, ErrNotFound):
		result = metrics.ResultNotFound
	case err != nil:
		result = metrics.ResultError
	}
	metrics.StorageOperations.WithLabelValues(i.backend, op, result).Inc()
	metrics.StorageOperationDuration.WithLabelValues(i.backend, op).Observe(time.Since(start).Seconds())
}

func (i *instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	value, err := i.next.Get(ctx, key)
	i.observe("get", start, err)
	return value, err
}

func (i *instrumented) Put(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := i.next.Put(ctx, key, value)
	i.observe("put", start, err)
	return err
}

func (i *instrumented) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := i.next.Delete(ctx, key)
	i.observe("delete", start, err)
	return err
}

func (i *instrumented) List(ctx context.Context, prefix string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		start := time.Now()
		var listErr error
		defer func() { i.observe("list", start, listErr) }()

		for key, err := range i.next.List(ctx, prefix) {
			if err != nil {
				listErr = err
			}
			if !yield(key, err) {
				return
			}
		}
	}
}

func (i *instrumented) Close() error {
	return i.next.Close()
}
