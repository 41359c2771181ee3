// Package blob is the facade over the resource store backends used for
// session training materials.
package blob

import (
	"context"
	"fmt"
	"os"

	"wavecore/internal/blob/core"
	fsstore "wavecore/internal/infra/blob/fs"
	memorystore "wavecore/internal/infra/blob/memory"
	s3store "wavecore/internal/infra/blob/s3"
)

// Re-exported backend contract types.
type (
	Store            = core.Store
	Driver           = core.Driver
	Info             = core.Info
	PutOptions       = core.PutOptions
	SignedURLOptions = core.SignedURLOptions
	S3Config         = s3store.Config
)

const (
	DriverFilesystem = core.DriverFilesystem
	DriverS3         = core.DriverS3
	DriverMemory     = core.DriverMemory
)

// ErrUnsupported re-exports the optional-capability error.
var ErrUnsupported = core.ErrUnsupported

// NewMemory returns an in-memory store suitable for tests.
func NewMemory() Store { return memorystore.New() }

// NewFilesystem returns a store rooted at the given directory.
func NewFilesystem(root string) (Store, error) { return fsstore.New(root) }

// NewS3 constructs an S3-backed store from explicit configuration.
func NewS3(ctx context.Context, cfg S3Config) (Store, error) { return s3store.New(ctx, cfg) }

// Open selects a backend using environment variables.
//
//	WAVECORE_BLOB_DRIVER: fs|s3|memory (default fs)
//	WAVECORE_BLOB_FS_ROOT: directory root when driver=fs
//	(S3 variables documented in the s3 package)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("WAVECORE_BLOB_DRIVER")
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		return NewFilesystem(os.Getenv("WAVECORE_BLOB_FS_ROOT"))
	case DriverS3:
		return s3store.OpenFromEnv(ctx)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}
