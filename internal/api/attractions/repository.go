package attractions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/FACorreiaa/go-city-trip-planner/internal/types"
)

const collectionFile = "attractions.json"

// Repository persists one AttractionCollection per city. The store supports a
// write-if-absent check, a full load, and a full overwrite on rebuild; there
// is no schema versioning, stale directories must be deleted by hand.
type Repository interface {
	Exists(ctx context.Context, city string) (bool, error)
	Load(ctx context.Context, city string) (*types.AttractionCollection, error)
	Save(ctx context.Context, collection *types.AttractionCollection) error
	CityDir(city string) string
}

// Ensure implementation satisfies the interface
var _ Repository = (*FileRepository)(nil)

// FileRepository stores each city's collection as JSON under its own
// directory below root, index_<city> like the original layout.
type FileRepository struct {
	root   string
	logger *slog.Logger
}

func NewFileRepository(root string, logger *slog.Logger) *FileRepository {
	return &FileRepository{
		root:   root,
		logger: logger,
	}
}

func (r *FileRepository) CityDir(city string) string {
	return filepath.Join(r.root, "index_"+strings.ToLower(city))
}

func (r *FileRepository) Exists(_ context.Context, city string) (bool, error) {
	_, err := os.Stat(filepath.Join(r.CityDir(city), collectionFile))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: checking store for %s: %v", types.ErrPersistence, city, err)
	}
	return true, nil
}

func (r *FileRepository) Load(ctx context.Context, city string) (*types.AttractionCollection, error) {
	data, err := os.ReadFile(filepath.Join(r.CityDir(city), collectionFile))
	if err != nil {
		return nil, fmt.Errorf("%w: loading collection for %s: %v", types.ErrPersistence, city, err)
	}

	var collection types.AttractionCollection
	if err := json.Unmarshal(data, &collection); err != nil {
		return nil, fmt.Errorf("%w: decoding collection for %s: %v", types.ErrPersistence, city, err)
	}

	r.logger.DebugContext(ctx, "Loaded persisted collection",
		slog.String("city", city),
		slog.Int("attractions", len(collection.Attractions)))
	return &collection, nil
}

func (r *FileRepository) Save(ctx context.Context, collection *types.AttractionCollection) error {
	dir := r.CityDir(collection.City)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating store directory for %s: %v", types.ErrPersistence, collection.City, err)
	}

	data, err := json.MarshalIndent(collection, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding collection for %s: %v", types.ErrPersistence, collection.City, err)
	}
	if err := os.WriteFile(filepath.Join(dir, collectionFile), data, 0o644); err != nil {
		return fmt.Errorf("%w: writing collection for %s: %v", types.ErrPersistence, collection.City, err)
	}

	r.logger.InfoContext(ctx, "Persisted attraction collection",
		slog.String("city", collection.City),
		slog.Int("attractions", len(collection.Attractions)))
	return nil
}
