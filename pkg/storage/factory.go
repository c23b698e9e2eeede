package storage

import (
	"context"
	"fmt"
)

// Backend type names accepted in StorageConfig.Type.
const (
	TypeMemory = "memory"
	TypeFile   = "file"
	TypeRedis  = "redis"
	TypeS3     = "s3"
)

// NewStorage creates an instrumented storage instance based on the configuration
func NewStorage(ctx context.Context, config *StorageConfig) (KV, error) {
	var (
		kv  KV
		err error
	)

	backend := config.Type
	switch backend {
	case TypeMemory, "":
		backend = TypeMemory
		kv = NewMemoryStorage()

	case TypeFile:
		if config.FilePath == "" {
			config.FilePath = "./notification-store.json"
		}
		kv, err = NewFileStorage(config.FilePath)

	case TypeRedis:
		kv, err = NewRedisStorage(ctx, config.Redis)

	case TypeS3:
		kv, err = NewS3Storage(ctx, config.S3)

	default:
		return nil, fmt.Errorf("unknown storage type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	return Instrument(kv, backend), nil
}
