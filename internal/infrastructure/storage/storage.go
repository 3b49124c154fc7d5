// Package storage provides object storage implementations for backup archives.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrObjectNotFound is returned when a requested object does not exist
var ErrObjectNotFound = errors.New("storage: object not found")

// ObjectStorage stores and retrieves backup archives
type ObjectStorage interface {
	// Put uploads an object under the given key
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Get downloads an object by key
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
	// List returns the keys under a prefix, newest first
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

// ObjectInfo describes a stored object
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// BackupKey builds the object key for a tenant backup archive
func BackupKey(tenantCode string, tenantID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("backups/%s/BACKUP_%s_%s.json", tenantID, tenantCode, at.UTC().Format("20060102T150405Z"))
}

// TenantPrefix returns the key prefix holding all of a tenant's backups
func TenantPrefix(tenantID uuid.UUID) string {
	return fmt.Sprintf("backups/%s/", tenantID)
}

// KeyBelongsTo reports whether an object key sits under a tenant's prefix
func KeyBelongsTo(key string, tenantID uuid.UUID) bool {
	return strings.HasPrefix(key, TenantPrefix(tenantID))
}
