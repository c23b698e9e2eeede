package storage

import (
	"context"
	"errors"
	"iter"
)

// ErrNotFound is returned by KV.Get when the key does not exist.
var ErrNotFound = errors.New("key not found")

// KV is a flat key/value backend. Values are opaque bytes; keys are plain
// strings. Backends may be eventually consistent: a Put is not guaranteed to
// be visible to an immediately following Get.
type KV interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put overwrites the value stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List yields every key starting with prefix. Backends that page their
	// listings fetch the next page lazily as the sequence is consumed.
	// A non-nil error is yielded at most once and ends the sequence.
	List(ctx context.Context, prefix string) iter.Seq2[string, error]

	// Close releases backend resources.
	Close() error
}

// StorageConfig holds configuration for storage backends
type StorageConfig struct {
	Type string `json:"type" mapstructure:"type"` // "memory", "file", "redis", "s3"

	// File storage config
	FilePath string `json:"file_path,omitempty" mapstructure:"file_path"`

	Redis RedisConfig `json:"redis" mapstructure:"redis"`
	S3    S3Config    `json:"s3" mapstructure:"s3"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Address  string `json:"address" mapstructure:"address"`
	Password string `json:"password,omitempty" mapstructure:"password"`
	DB       int    `json:"db" mapstructure:"db"`
	// ScanCount is the COUNT hint passed to SCAN when listing keys.
	ScanCount int64 `json:"scan_count" mapstructure:"scan_count"`
}

// S3Config configures the s3 backend. Endpoint is only set for
// S3-compatible services (MinIO, localstack, R2).
type S3Config struct {
	Bucket    string `json:"bucket" mapstructure:"bucket"`
	Region    string `json:"region" mapstructure:"region"`
	Prefix    string `json:"prefix" mapstructure:"prefix"`
	Endpoint  string `json:"endpoint,omitempty" mapstructure:"endpoint"`
	AccessKey string `json:"access_key,omitempty" mapstructure:"access_key"`
	SecretKey string `json:"secret_key,omitempty" mapstructure:"secret_key"`
}
