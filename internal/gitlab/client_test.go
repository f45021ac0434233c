package gitlab_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/issuebridge/issuebridge-server/internal/gitlab"
)

// newTestServer creates a new test server with keep-alives disabled.
// This prevents flaky tests when running in parallel, as closing a server
// with keep-alives enabled can affect other tests sharing the HTTP transport.
func newTestServer(handler http.Handler) *httptest.Server {
	server := httptest.NewServer(handler)
	server.Config.SetKeepAlivesEnabled(false)
	return server
}

func newClient(t *testing.T, serverURL string) *gitlab.Client {
	t.Helper()
	client, err := gitlab.NewClient(serverURL, "test-token",
		gitlab.WithRequestTimeout(5*time.Second),
		gitlab.WithMaxTries(3),
	)
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{
			name: "valid https url",
			url:  "https://gitlab.example.com",
		},
		{
			name: "trailing slash is trimmed",
			url:  "https://gitlab.example.com/",
		},
		{
			name:    "unsupported scheme",
			url:     "ftp://gitlab.example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, err := gitlab.NewClient(tt.url, "token")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "https://gitlab.example.com", client.BaseURL())
		})
	}
}

func TestGetIssue(t *testing.T) {
	t.Parallel()

	var receivedToken, receivedPath string

	mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedToken = r.Header.Get("PRIVATE-TOKEN")
		receivedPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"iid": 42, "title": "Broken build", "state": "opened", "labels": ["bug"]}`))
	}))
	defer mockServer.Close()

	client := newClient(t, mockServer.URL)

	issue, err := client.GetIssue(context.Background(), "group/project", 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), issue.IID)
	assert.Equal(t, "Broken build", issue.Title)
	assert.Equal(t, []string{"bug"}, issue.Labels)
	assert.Equal(t, "test-token", receivedToken)
	assert.Equal(t, "/api/v4/projects/group%2Fproject/issues/42", receivedPath)
}

func TestListIssuesPagination(t *testing.T) {
	t.Parallel()

	mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "all", r.URL.Query().Get("state"))
		assert.Equal(t, "updated_at", r.URL.Query().Get("order_by"))

		switch r.URL.Query().Get("page") {
		case "1":
			w.Header().Set("X-Next-Page", "2")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`[{"iid": 1}, {"iid": 2}]`))
		case "2":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`[{"iid": 3}]`))
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	}))
	defer mockServer.Close()

	client := newClient(t, mockServer.URL)

	issues, err := client.ListIssues(context.Background(), "group/project", time.Time{})
	require.NoError(t, err)
	require.Len(t, issues, 3)
	assert.Equal(t, int64(3), issues[2].IID)
}

func TestListIssuesUpdatedAfter(t *testing.T) {
	t.Parallel()

	var receivedUpdatedAfter string

	mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedUpdatedAfter = r.URL.Query().Get("updated_after")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer mockServer.Close()

	client := newClient(t, mockServer.URL)

	since := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	_, err := client.ListIssues(context.Background(), "group/project", since)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01T12:00:00Z", receivedUpdatedAfter)
}

func TestUpdateIssueClearsFields(t *testing.T) {
	t.Parallel()

	var receivedBody map[string]json.RawMessage

	mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&receivedBody))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"iid": 5}`))
	}))
	defer mockServer.Close()

	client := newClient(t, mockServer.URL)

	title := "New title"
	milestoneID := int64(0)
	assignees := []int64{}
	_, err := client.UpdateIssue(context.Background(), "group/project", 5, gitlab.UpdateIssueOptions{
		Title:       &title,
		StateEvent:  gitlab.StateEventClose,
		MilestoneID: &milestoneID,
		AssigneeIDs: &assignees,
	})
	require.NoError(t, err)

	assert.JSONEq(t, `"New title"`, string(receivedBody["title"]))
	assert.JSONEq(t, `"close"`, string(receivedBody["state_event"]))
	assert.JSONEq(t, `0`, string(receivedBody["milestone_id"]))
	assert.JSONEq(t, `[]`, string(receivedBody["assignee_ids"]))
	// Untouched fields must not appear in the payload at all.
	assert.NotContains(t, receivedBody, "description")
	assert.NotContains(t, receivedBody, "due_date")
}

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		statusCode  int
		isNotFound  bool
		isAuth      bool
		isTransient bool
	}{
		{
			name:       "404 is not found",
			statusCode: http.StatusNotFound,
			isNotFound: true,
		},
		{
			name:       "401 is auth",
			statusCode: http.StatusUnauthorized,
			isAuth:     true,
		},
		{
			name:       "403 is auth",
			statusCode: http.StatusForbidden,
			isAuth:     true,
		},
		{
			name:        "429 is transient",
			statusCode:  http.StatusTooManyRequests,
			isTransient: true,
		},
		{
			name:        "503 is transient",
			statusCode:  http.StatusServiceUnavailable,
			isTransient: true,
		},
		{
			name:       "400 is terminal",
			statusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(fmt.Sprintf(`{"message": "status %d"}`, tt.statusCode)))
			}))
			defer mockServer.Close()

			client, err := gitlab.NewClient(mockServer.URL, "token", gitlab.WithMaxTries(1))
			require.NoError(t, err)

			_, err = client.GetIssue(context.Background(), "group/project", 1)
			require.Error(t, err)
			assert.Equal(t, tt.isNotFound, gitlab.IsNotFound(err))
			assert.Equal(t, tt.isAuth, gitlab.IsAuth(err))
			assert.Equal(t, tt.isTransient, gitlab.IsTransient(err))
			assert.Contains(t, err.Error(), fmt.Sprintf("HTTP %d", tt.statusCode))
		})
	}
}

func TestRetryOnTransientError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"iid": 1, "title": "recovered"}`))
	}))
	defer mockServer.Close()

	client := newClient(t, mockServer.URL)

	issue, err := client.GetIssue(context.Background(), "group/project", 1)
	require.NoError(t, err)
	assert.Equal(t, "recovered", issue.Title)
	assert.Equal(t, int32(3), calls.Load())
}

func TestNoRetryOnTerminalError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "404 Not Found"}`))
	}))
	defer mockServer.Close()

	client := newClient(t, mockServer.URL)

	_, err := client.GetIssue(context.Background(), "group/project", 1)
	require.Error(t, err)
	assert.True(t, gitlab.IsNotFound(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestNoRetryOnPost(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer mockServer.Close()

	client := newClient(t, mockServer.URL)

	// A POST may have been committed server side even when the response
	// is lost, so transient failures must not trigger a replay.
	_, err := client.CreateNote(context.Background(), "group/project", 1, "once")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestUserByUsername(t *testing.T) {
	t.Parallel()

	mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if r.URL.Query().Get("username") == "alice" {
			_, _ = w.Write([]byte(`[{"id": 7, "username": "alice"}]`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer mockServer.Close()

	client := newClient(t, mockServer.URL)

	user, err := client.UserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)

	_, err = client.UserByUsername(context.Background(), "nobody")
	require.Error(t, err)
	assert.True(t, gitlab.IsNotFound(err))
}

func TestCreateNote(t *testing.T) {
	t.Parallel()

	var receivedBody map[string]string

	mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v4/projects/group%2Fproject/issues/3/notes", r.URL.EscapedPath())
		require.NoError(t, json.NewDecoder(r.Body).Decode(&receivedBody))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 99, "body": "hello"}`))
	}))
	defer mockServer.Close()

	client := newClient(t, mockServer.URL)

	note, err := client.CreateNote(context.Background(), "group/project", 3, "hello")
	require.NoError(t, err)
	assert.Equal(t, int64(99), note.ID)
	assert.Equal(t, "hello", receivedBody["body"])
}

func TestCreateLabelDefaultsColor(t *testing.T) {
	t.Parallel()

	var receivedBody map[string]string

	mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&receivedBody))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 1, "name": "bug"}`))
	}))
	defer mockServer.Close()

	client := newClient(t, mockServer.URL)

	_, err := client.CreateLabel(context.Background(), "group/project", "bug", "")
	require.NoError(t, err)
	assert.Equal(t, gitlab.DefaultLabelColor, receivedBody["color"])
}
