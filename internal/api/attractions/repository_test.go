package attractions

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/FACorreiaa/go-city-trip-planner/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testCollection(city string) *types.AttractionCollection {
	return &types.AttractionCollection{
		ID:   uuid.New(),
		City: city,
		Attractions: []types.Attraction{
			{Name: "Old Town", Description: "historic center"},
			{Name: "Kadriorg", Description: "palace and park"},
		},
		BuiltAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestFileRepository_SaveLoadRoundtrip(t *testing.T) {
	repo := NewFileRepository(t.TempDir(), testLogger())
	ctx := context.Background()

	exists, err := repo.Exists(ctx, "Tallinn")
	require.NoError(t, err)
	assert.False(t, exists)

	collection := testCollection("Tallinn")
	require.NoError(t, repo.Save(ctx, collection))

	exists, err = repo.Exists(ctx, "Tallinn")
	require.NoError(t, err)
	assert.True(t, exists)

	loaded, err := repo.Load(ctx, "Tallinn")
	require.NoError(t, err)
	assert.Equal(t, collection.ID, loaded.ID)
	assert.Equal(t, collection.City, loaded.City)
	// Order must survive the roundtrip.
	assert.Equal(t, collection.Attractions, loaded.Attractions)
}

func TestFileRepository_CityDirIsPerCity(t *testing.T) {
	root := t.TempDir()
	repo := NewFileRepository(root, testLogger())

	assert.Equal(t, filepath.Join(root, "index_tallinn"), repo.CityDir("Tallinn"))
	assert.NotEqual(t, repo.CityDir("Tallinn"), repo.CityDir("Tartu"))
}

func TestFileRepository_LoadMissingFails(t *testing.T) {
	repo := NewFileRepository(t.TempDir(), testLogger())

	_, err := repo.Load(context.Background(), "Tallinn")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrPersistence)
}

func TestFileRepository_SaveOverwrites(t *testing.T) {
	repo := NewFileRepository(t.TempDir(), testLogger())
	ctx := context.Background()

	first := testCollection("Tallinn")
	require.NoError(t, repo.Save(ctx, first))

	second := testCollection("Tallinn")
	second.Attractions = second.Attractions[:1]
	require.NoError(t, repo.Save(ctx, second))

	loaded, err := repo.Load(ctx, "Tallinn")
	require.NoError(t, err)
	assert.Equal(t, second.ID, loaded.ID)
	assert.Len(t, loaded.Attractions, 1)
}
