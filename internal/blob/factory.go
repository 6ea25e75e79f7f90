package blob

import (
	"context"
	"fmt"
	"os"

	"breedlab/internal/infra/blob/fs"
	memorystore "breedlab/internal/infra/blob/memory"
	infraS3 "breedlab/internal/infra/blob/s3"
)

// Environment variables read by Open.
const (
	EnvDriver = "BREEDLAB_BLOB_DRIVER"
	EnvFSRoot = "BREEDLAB_BLOB_FS_ROOT"
)

// S3Config re-exports the infra S3 configuration type.
type S3Config = infraS3.Config

// Open selects a Store implementation using environment variables.
//
//	BREEDLAB_BLOB_DRIVER: fs|s3|memory (default fs)
//	BREEDLAB_BLOB_FS_ROOT: directory root when driver=fs (default ./blobdata)
//	(S3 specific variables documented in internal/infra/blob/s3)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv(EnvDriver)
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		return NewFilesystem(os.Getenv(EnvFSRoot))
	case DriverS3:
		return infraS3.OpenFromEnv(ctx)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}

// NewFilesystem constructs a filesystem-backed Store rooted at root.
func NewFilesystem(root string) (Store, error) {
	return fs.New(root)
}

// NewMemory returns an in-memory Store.
func NewMemory() Store { return memorystore.New() }

// NewS3 constructs an S3-backed Store from cfg.
func NewS3(ctx context.Context, cfg S3Config) (Store, error) {
	return infraS3.New(ctx, cfg)
}
