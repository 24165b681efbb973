package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotificationReadToggle(t *testing.T) {
	database := setupTestDB(t)

	n, err := database.CreateNotification(Notification{Title: "Deploy finished", Type: "success", Category: "project"})
	require.NoError(t, err)
	require.NotEmpty(t, n.ID)
	require.False(t, n.IsRead)

	got, err := database.SetNotificationRead(n.ID, true)
	require.NoError(t, err)
	require.True(t, got.IsRead)

	got, err = database.SetNotificationRead(n.ID, false)
	require.NoError(t, err)
	require.False(t, got.IsRead)

	_, err = database.SetNotificationRead("missing", true)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMarkAllNotificationsRead(t *testing.T) {
	database := setupTestDB(t)

	for i := 0; i < 3; i++ {
		_, err := database.CreateNotification(Notification{Title: "n"})
		require.NoError(t, err)
	}

	updated, err := database.MarkAllNotificationsRead()
	require.NoError(t, err)
	require.EqualValues(t, 3, updated)

	updated, err = database.MarkAllNotificationsRead()
	require.NoError(t, err)
	require.EqualValues(t, 0, updated)
}

func TestAnalyticsCounts(t *testing.T) {
	database := setupTestDB(t)

	_, err := database.CreateProject(Project{Title: "A", Status: "live"})
	require.NoError(t, err)
	_, err = database.CreateProject(Project{Title: "B", Status: "live"})
	require.NoError(t, err)
	_, err = database.CreateProject(Project{Title: "C", Status: "upcoming"})
	require.NoError(t, err)
	createTestInquiry(t, database)

	a, err := database.Analytics()
	require.NoError(t, err)
	require.Equal(t, 3, a.TotalProjects)
	require.Equal(t, 2, a.ProjectsByStatus["live"])
	require.Equal(t, 1, a.TotalInquiries)
	require.Equal(t, 1, a.InquiriesByStatus["pending"])
	require.Equal(t, 1, a.UnreadNotifications)
}
