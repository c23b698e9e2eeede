package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strings"
)

// Namespace is a key prefix separating one record kind from another on a
// shared backend.
type Namespace string

const (
	NamespaceSubscriptions Namespace = "subscriptions"
	NamespaceNotifications Namespace = "notifications"
)

// Prefix returns the key prefix for the namespace, e.g. "subscriptions:".
func (n Namespace) Prefix() string {
	return string(n) + ":"
}

// Key returns the backend key for id within the namespace.
func (n Namespace) Key(id string) string {
	return n.Prefix() + id
}

// Store is the JSON-typed, namespaced layer over a KV backend. Each
// (namespace, id) pair holds exactly one complete JSON document.
type Store struct {
	kv KV
}

// NewStore wraps kv.
func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Get decodes the record for (ns, id) into v. A missing record is reported as
// found=false with a nil error.
func (s *Store) Get(ctx context.Context, ns Namespace, id string, v any) (bool, error) {
	data, err := s.kv.Get(ctx, ns.Key(id))
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", ns.Key(id), err)
	}
	return true, nil
}

// Put encodes v and overwrites the record for (ns, id).
func (s *Store) Put(ctx context.Context, ns Namespace, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", ns.Key(id), err)
	}
	return s.kv.Put(ctx, ns.Key(id), data)
}

// Delete removes the record for (ns, id). Missing records are not an error.
func (s *Store) Delete(ctx context.Context, ns Namespace, id string) error {
	return s.kv.Delete(ctx, ns.Key(id))
}

// List yields the ids of every record in ns, with the namespace prefix
// stripped.
func (s *Store) List(ctx context.Context, ns Namespace) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		prefix := ns.Prefix()
		for key, err := range s.kv.List(ctx, prefix) {
			if err != nil {
				yield("", err)
				return
			}
			if !yield(strings.TrimPrefix(key, prefix), nil) {
				return
			}
		}
	}
}
