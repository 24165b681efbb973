package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/amoran/portfolio/internal/auth"
	"github.com/amoran/portfolio/internal/db"
)

const testSecret = "test-secret"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	database, err := db.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	mux := http.NewServeMux()
	New(database, zerolog.Nop(), testSecret).Register(mux, "/api/data")
	return mux
}

func mintToken(t *testing.T, email, role string) string {
	t.Helper()
	token, err := auth.IssueToken(testSecret, email, role, time.Hour)
	require.NoError(t, err)
	return token
}

func do(t *testing.T, mux *http.ServeMux, method, url, token string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func mutate(t *testing.T, mux *http.ServeMux, token, op string, data any) (int, envelope) {
	t.Helper()
	return do(t, mux, "POST", "/api/data", token, map[string]any{"type": op, "data": data})
}

func TestGetUnknownType(t *testing.T) {
	mux := newTestMux(t)
	status, env := do(t, mux, "GET", "/api/data?type=widgets", "", nil)
	require.Equal(t, http.StatusBadRequest, status)
	require.False(t, env.Success)
	require.Contains(t, env.Error, "unknown type")
}

func TestUnknownOperation(t *testing.T) {
	mux := newTestMux(t)
	admin := mintToken(t, "admin@example.com", auth.RoleAdmin)
	status, env := mutate(t, mux, admin, "frobnicate-project", map[string]any{})
	require.Equal(t, http.StatusBadRequest, status)
	require.Contains(t, env.Error, "unknown operation")
}

// Creating a record grows the collection by exactly one and the new record
// carries the submitted payload plus server-stamped id and timestamps.
func TestCreateProjectFlow(t *testing.T) {
	mux := newTestMux(t)
	admin := mintToken(t, "admin@example.com", auth.RoleAdmin)

	status, env := do(t, mux, "GET", "/api/data?type=projects", "", nil)
	require.Equal(t, http.StatusOK, status)
	var before []db.Project
	require.NoError(t, json.Unmarshal(env.Data, &before))

	status, env = mutate(t, mux, admin, "create-project", map[string]any{
		"title":        "Demo",
		"description":  "x",
		"status":       "live",
		"technologies": []string{"React"},
	})
	require.Equal(t, http.StatusOK, status)
	require.True(t, env.Success)

	var created db.Project
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.Equal(t, "Demo", created.Title)
	_, err := strconv.ParseInt(created.ID, 10, 64)
	require.NoError(t, err, "id is a numeric-string timestamp")
	require.False(t, created.CreatedAt.IsZero())
	require.False(t, created.UpdatedAt.IsZero())

	status, env = do(t, mux, "GET", "/api/data?type=projects", "", nil)
	require.Equal(t, http.StatusOK, status)
	var after []db.Project
	require.NoError(t, json.Unmarshal(env.Data, &after))
	require.Len(t, after, len(before)+1)

	found := false
	for _, p := range after {
		if p.ID == created.ID {
			found = true
			require.Equal(t, "Demo", p.Title)
			require.Equal(t, []string{"React"}, p.Technologies)
		}
	}
	require.True(t, found)
}

// Mutating a non-existent id returns 404 and leaves the stored data alone.
func TestUpdateMissingRecord(t *testing.T) {
	mux := newTestMux(t)
	admin := mintToken(t, "admin@example.com", auth.RoleAdmin)

	status, env := mutate(t, mux, admin, "update-project", map[string]any{
		"id":    "999999",
		"title": "nope",
	})
	require.Equal(t, http.StatusNotFound, status)
	require.False(t, env.Success)

	status, env = do(t, mux, "GET", "/api/data?type=projects", "", nil)
	require.Equal(t, http.StatusOK, status)
	var projects []db.Project
	require.NoError(t, json.Unmarshal(env.Data, &projects))
	require.Empty(t, projects)

	status, _ = mutate(t, mux, admin, "add-task", map[string]any{
		"inquiryId": 424242,
		"title":     "orphan",
	})
	require.Equal(t, http.StatusNotFound, status)
}

// create-inquiry produces exactly one inquiry and exactly one notification
// whose message references the submitted project title.
func TestCreateInquiryNotification(t *testing.T) {
	mux := newTestMux(t)
	admin := mintToken(t, "admin@example.com", auth.RoleAdmin)

	status, env := mutate(t, mux, "", "create-inquiry", map[string]any{
		"clientName":   "Jane Client",
		"clientEmail":  "jane@example.com",
		"projectTitle": "Company Website",
	})
	require.Equal(t, http.StatusOK, status)
	require.True(t, env.Success)

	var inq db.Inquiry
	require.NoError(t, json.Unmarshal(env.Data, &inq))
	require.NotZero(t, inq.ID)
	require.Equal(t, "pending", inq.Status)

	status, env = do(t, mux, "GET", "/api/data?type=notifications", admin, nil)
	require.Equal(t, http.StatusOK, status)
	var notifications []db.Notification
	require.NoError(t, json.Unmarshal(env.Data, &notifications))
	require.Len(t, notifications, 1)
	require.True(t, strings.Contains(notifications[0].Message, "Company Website"))
}

// add-message grows the inquiry's messages array by one, with the sender
// tag and a fresh timestamp.
func TestAddMessage(t *testing.T) {
	mux := newTestMux(t)
	client := mintToken(t, "jane@example.com", auth.RoleClient)

	_, env := mutate(t, mux, "", "create-inquiry", map[string]any{
		"clientName":   "Jane Client",
		"clientEmail":  "jane@example.com",
		"projectTitle": "Company Website",
	})
	var inq db.Inquiry
	require.NoError(t, json.Unmarshal(env.Data, &inq))

	status, env := mutate(t, mux, client, "add-message", map[string]any{
		"inquiryId": inq.ID,
		"message":   "Hello",
		"sender":    "client",
	})
	require.Equal(t, http.StatusOK, status)

	var updated db.Inquiry
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	require.Len(t, updated.Messages, 1)
	require.Equal(t, "client", updated.Messages[0].Sender)
	require.Equal(t, "Hello", updated.Messages[0].Message)
	require.False(t, updated.Messages[0].Timestamp.IsZero())
}

// Clients only ever receive their own inquiries; anonymous callers get 401.
func TestInquiryScoping(t *testing.T) {
	mux := newTestMux(t)
	admin := mintToken(t, "admin@example.com", auth.RoleAdmin)
	jane := mintToken(t, "jane@example.com", auth.RoleClient)
	other := mintToken(t, "other@example.com", auth.RoleClient)

	for _, email := range []string{"jane@example.com", "other@example.com"} {
		status, _ := mutate(t, mux, "", "create-inquiry", map[string]any{
			"clientName":   "C",
			"clientEmail":  email,
			"projectTitle": "P for " + email,
		})
		require.Equal(t, http.StatusOK, status)
	}

	status, _ := do(t, mux, "GET", "/api/data?type=inquiries", "", nil)
	require.Equal(t, http.StatusUnauthorized, status)

	status, env := do(t, mux, "GET", "/api/data?type=inquiries", jane, nil)
	require.Equal(t, http.StatusOK, status)
	var inquiries []db.Inquiry
	require.NoError(t, json.Unmarshal(env.Data, &inquiries))
	require.Len(t, inquiries, 1)
	require.Equal(t, "jane@example.com", inquiries[0].ClientEmail)

	status, env = do(t, mux, "GET", "/api/data?type=inquiries", other, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &inquiries))
	require.Len(t, inquiries, 1)
	require.Equal(t, "other@example.com", inquiries[0].ClientEmail)

	status, env = do(t, mux, "GET", "/api/data?type=inquiries", admin, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &inquiries))
	require.Len(t, inquiries, 2)
}

func TestClientCannotMessageOthersInquiry(t *testing.T) {
	mux := newTestMux(t)
	other := mintToken(t, "other@example.com", auth.RoleClient)

	_, env := mutate(t, mux, "", "create-inquiry", map[string]any{
		"clientName":   "Jane Client",
		"clientEmail":  "jane@example.com",
		"projectTitle": "Company Website",
	})
	var inq db.Inquiry
	require.NoError(t, json.Unmarshal(env.Data, &inq))

	status, _ := mutate(t, mux, other, "add-message", map[string]any{
		"inquiryId": inq.ID,
		"message":   "let me in",
	})
	require.Equal(t, http.StatusForbidden, status)
}

func TestAdminOnlyMutations(t *testing.T) {
	mux := newTestMux(t)
	client := mintToken(t, "jane@example.com", auth.RoleClient)

	status, _ := mutate(t, mux, "", "create-project", map[string]any{"title": "x"})
	require.Equal(t, http.StatusUnauthorized, status)

	status, _ = mutate(t, mux, client, "create-project", map[string]any{"title": "x"})
	require.Equal(t, http.StatusForbidden, status)

	status, _ = do(t, mux, "GET", "/api/data?type=notifications", client, nil)
	require.Equal(t, http.StatusForbidden, status)

	status, _ = do(t, mux, "GET", "/api/data?type=analytics", "", nil)
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestTestimonialModerationVisibility(t *testing.T) {
	mux := newTestMux(t)
	admin := mintToken(t, "admin@example.com", auth.RoleAdmin)

	status, env := mutate(t, mux, "", "create-testimonial", map[string]any{
		"name":    "Ana",
		"content": "Great work",
		"status":  "approved", // ignored for public submissions
	})
	require.Equal(t, http.StatusOK, status)
	var created db.Testimonial
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.Equal(t, "pending", created.Status)

	// Anonymous callers only see approved testimonials.
	status, env = do(t, mux, "GET", "/api/data?type=testimonials", "", nil)
	require.Equal(t, http.StatusOK, status)
	var public []db.Testimonial
	require.NoError(t, json.Unmarshal(env.Data, &public))
	require.Empty(t, public)

	status, _ = mutate(t, mux, admin, "update-testimonial", map[string]any{
		"id":     created.ID,
		"status": "approved",
	})
	require.Equal(t, http.StatusOK, status)

	status, env = do(t, mux, "GET", "/api/data?type=testimonials", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &public))
	require.Len(t, public, 1)
}

func TestInvalidEnumRejected(t *testing.T) {
	mux := newTestMux(t)
	admin := mintToken(t, "admin@example.com", auth.RoleAdmin)

	_, env := mutate(t, mux, "", "create-inquiry", map[string]any{
		"clientName":   "Jane Client",
		"clientEmail":  "jane@example.com",
		"projectTitle": "Company Website",
	})
	var inq db.Inquiry
	require.NoError(t, json.Unmarshal(env.Data, &inq))

	status, env := mutate(t, mux, admin, "update-inquiry-status", map[string]any{
		"id":     inq.ID,
		"status": "done", // not a valid inquiry status
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Contains(t, env.Error, "invalid status")
}

func TestGraphqlAlias(t *testing.T) {
	mux := newTestMux(t)
	status, env := do(t, mux, "GET", "/api/graphql?type=projects", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.True(t, env.Success)
}

func TestMarkNotificationRead(t *testing.T) {
	mux := newTestMux(t)
	admin := mintToken(t, "admin@example.com", auth.RoleAdmin)

	_, _ = mutate(t, mux, "", "create-inquiry", map[string]any{
		"clientName":   "Jane Client",
		"clientEmail":  "jane@example.com",
		"projectTitle": "Company Website",
	})

	_, env := do(t, mux, "GET", "/api/data?type=notifications", admin, nil)
	var notifications []db.Notification
	require.NoError(t, json.Unmarshal(env.Data, &notifications))
	require.Len(t, notifications, 1)

	status, env := mutate(t, mux, admin, "mark-notification-read", map[string]any{
		"id": notifications[0].ID,
	})
	require.Equal(t, http.StatusOK, status)
	var updated db.Notification
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	require.True(t, updated.IsRead)

	status, _ = mutate(t, mux, admin, "mark-notification-read", map[string]any{
		"id": "missing",
	})
	require.Equal(t, http.StatusNotFound, status)
}
