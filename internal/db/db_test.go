package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestOpenCreatesSchema(t *testing.T) {
	database := setupTestDB(t)

	projects, err := database.ListProjects()
	require.NoError(t, err)
	require.Empty(t, projects)

	inquiries, err := database.ListInquiries()
	require.NoError(t, err)
	require.Empty(t, inquiries)
}

func TestSeedIsIdempotent(t *testing.T) {
	database := setupTestDB(t)

	require.NoError(t, database.Seed())
	projects, err := database.ListProjects()
	require.NoError(t, err)
	require.Len(t, projects, len(defaultProjects))

	testimonials, err := database.ListTestimonials()
	require.NoError(t, err)
	require.Len(t, testimonials, len(defaultTestimonials))

	// A second seed must not duplicate anything.
	require.NoError(t, database.Seed())
	projects, err = database.ListProjects()
	require.NoError(t, err)
	require.Len(t, projects, len(defaultProjects))
}

func TestSeedSkipsNonEmptyCollections(t *testing.T) {
	database := setupTestDB(t)

	_, err := database.CreateProject(Project{Title: "Existing"})
	require.NoError(t, err)

	require.NoError(t, database.Seed())
	projects, err := database.ListProjects()
	require.NoError(t, err)
	require.Len(t, projects, 1)

	// Testimonials were empty, so they still get seeded.
	testimonials, err := database.ListTestimonials()
	require.NoError(t, err)
	require.Len(t, testimonials, len(defaultTestimonials))
}

func TestNewIDMonotonic(t *testing.T) {
	seen := make(map[int64]bool)
	prev := int64(0)
	for i := 0; i < 1000; i++ {
		id := NewID()
		require.Greater(t, id, prev)
		require.False(t, seen[id])
		seen[id] = true
		prev = id
	}
}
