package reference

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"breedlab/internal/blob"
	"breedlab/pkg/genetics"
)

// EnvTables names the environment variable selecting the reference source:
// a file path, "blob:<key>", "blob:latest", or empty for the built-in tables.
const EnvTables = "BREEDLAB_TABLES"

// BlobPrefix is the key prefix published bundles are stored under.
const BlobPrefix = "tables/"

const (
	blobScheme = "blob:"
	latestKey  = "latest"
	builtin    = "builtin"
)

//go:embed data/default.yaml
var defaultTables []byte

// Bundle is a loaded, validated set of reference tables.
type Bundle struct {
	Source   string           `json:"source"`
	Version  string           `json:"version,omitempty"`
	Tables   *genetics.Tables `json:"-"`
	Findings []Finding        `json:"findings"`
}

// LoadBytes parses, validates and audits a reference document.
func LoadBytes(source string, data []byte) (*Bundle, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	tables, err := doc.Tables()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return &Bundle{Source: source, Version: doc.Version, Tables: tables, Findings: Audit(tables)}, nil
}

// Default returns the tables compiled into the binary.
func Default() (*Bundle, error) {
	return LoadBytes(builtin, defaultTables)
}

// DefaultDocument returns the raw built-in document.
func DefaultDocument() []byte { return bytes.Clone(defaultTables) }

// LoadFile reads a YAML or JSON reference file.
func LoadFile(path string) (*Bundle, error) {
	// #nosec G304 -- operator-supplied reference path
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference tables: %w", err)
	}
	return LoadBytes(path, data)
}

// LoadBlob reads a published bundle. The key "latest" resolves to the most
// recently published bundle.
func LoadBlob(ctx context.Context, store blob.Store, key string) (*Bundle, error) {
	if key == latestKey {
		info, err := Latest(ctx, store)
		if err != nil {
			return nil, err
		}
		key = info.Key
	}
	_, rc, err := store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("fetch reference tables: %w", err)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("fetch reference tables: %w", err)
	}
	return LoadBytes(blobScheme+key, data)
}

// Resolve loads tables from source, as accepted by EnvTables. openBlob is
// only called for blob sources.
func Resolve(ctx context.Context, source string, openBlob func(context.Context) (blob.Store, error)) (*Bundle, error) {
	switch {
	case source == "" || source == builtin:
		return Default()
	case strings.HasPrefix(source, blobScheme):
		store, err := openBlob(ctx)
		if err != nil {
			return nil, fmt.Errorf("open blob store: %w", err)
		}
		return LoadBlob(ctx, store, strings.TrimPrefix(source, blobScheme))
	default:
		return LoadFile(source)
	}
}

// Latest returns the most recently published bundle. Publish keys sort by
// publication time, so the last key wins.
func Latest(ctx context.Context, store blob.Store) (blob.Info, error) {
	infos, err := store.List(ctx, BlobPrefix)
	if err != nil {
		return blob.Info{}, fmt.Errorf("list reference tables: %w", err)
	}
	if len(infos) == 0 {
		return blob.Info{}, fmt.Errorf("no published reference tables: %w", blob.ErrNotFound)
	}
	return infos[len(infos)-1], nil
}

// Publish validates data and stores it as a new immutable bundle keyed by
// publication time.
func Publish(ctx context.Context, store blob.Store, data []byte, now time.Time) (blob.Info, *Bundle, error) {
	bundle, err := LoadBytes("publish", data)
	if err != nil {
		return blob.Info{}, nil, err
	}
	key := fmt.Sprintf("%s%s-%s.yaml", BlobPrefix, now.UTC().Format("20060102T150405.000000000Z"), uuid.NewString()[:8])
	meta := map[string]string{"findings": fmt.Sprint(len(bundle.Findings))}
	if bundle.Version != "" {
		meta["version"] = bundle.Version
	}
	info, err := store.Put(ctx, key, bytes.NewReader(data), blob.PutOptions{ContentType: "application/yaml", Metadata: meta})
	if err != nil {
		if errors.Is(err, blob.ErrExists) {
			return blob.Info{}, nil, fmt.Errorf("publish reference tables: key collision %s: %w", key, err)
		}
		return blob.Info{}, nil, fmt.Errorf("publish reference tables: %w", err)
	}
	bundle.Source = blobScheme + key
	return info, bundle, nil
}
