package chatclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nexus_chat_service/internal/chat/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newAPIServer(t *testing.T, mux *http.ServeMux) *HTTPPersister {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-a" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewHTTPPersister(srv.URL+"/", "tok-a", time.Second)
}

func TestHTTPPersister_InsertMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/messages", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var req domain.SendMessageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "local-1", req.ClientID)
		assert.Equal(t, "team-1", req.TeamID)
		assert.Equal(t, "proj-1", *req.ProjectID)
		assert.Equal(t, "hello", *req.Content)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(domain.Message{ID: "srv-1", ClientID: req.ClientID, TeamID: req.TeamID, Content: req.Content})
	})
	p := newAPIServer(t, mux)

	saved, err := p.InsertMessage(context.Background(), &domain.Message{
		ID: "local-1", ClientID: "local-1", TeamID: "team-1", ProjectID: strPtr("proj-1"), Content: strPtr("hello"),
	})
	require.NoError(t, err)
	assert.Equal(t, "srv-1", saved.ID)
	assert.Equal(t, "local-1", saved.ClientID)
}

func TestHTTPPersister_ErrorStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/messages", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"forbidden: not a team member"}`))
	})
	mux.HandleFunc("/profiles/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	p := newAPIServer(t, mux)

	_, err := p.InsertMessage(context.Background(), &domain.Message{TeamID: "team-1", Content: strPtr("x")})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusForbidden, se.Code)
	assert.Contains(t, se.Message, "not a team member")

	_, err = p.FetchProfile(context.Background(), "user-b")
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.Code)
	assert.Equal(t, "Bad Gateway", se.Message)
}

func TestHTTPPersister_Unauthorized(t *testing.T) {
	p := newAPIServer(t, http.NewServeMux())
	p.token = "wrong"

	_, err := p.ListMessages(context.Background(), domain.NewScope("team-1", ""), time.Time{}, 0)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.Code)
}

func TestHTTPPersister_ListMessages(t *testing.T) {
	before := time.Date(2025, 3, 1, 10, 0, 0, 500, time.UTC)
	mux := http.NewServeMux()
	mux.HandleFunc("/messages", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		q := r.URL.Query()
		assert.Equal(t, "team-1", q.Get("team_id"))
		assert.Equal(t, "proj-1", q.Get("project_id"))
		assert.Equal(t, "20", q.Get("limit"))
		got, err := time.Parse(time.RFC3339Nano, q.Get("before"))
		require.NoError(t, err)
		assert.True(t, got.Equal(before))

		_ = json.NewEncoder(w).Encode([]domain.Message{{ID: "srv-1"}, {ID: "srv-2"}})
	})
	p := newAPIServer(t, mux)

	msgs, err := p.ListMessages(context.Background(), domain.NewScope("team-1", "proj-1"), before, 20)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "srv-2", msgs[1].ID)
}

func TestHTTPPersister_FetchProfileAndSharedItems(t *testing.T) {
	var shared []domain.SharedItem
	mux := http.NewServeMux()
	mux.HandleFunc("/profiles/user-b", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(domain.Profile{UserID: "user-b", Name: "Bob"})
	})
	mux.HandleFunc("/shared-items", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&shared))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"count":1}`))
	})
	p := newAPIServer(t, mux)

	profile, err := p.FetchProfile(context.Background(), "user-b")
	require.NoError(t, err)
	assert.Equal(t, "Bob", profile.Name)

	require.NoError(t, p.InsertSharedItems(context.Background(), nil))
	require.NoError(t, p.InsertSharedItems(context.Background(), []domain.SharedItem{{MessageID: "srv-1", Name: "a.pdf"}}))
	require.Len(t, shared, 1)
	assert.Equal(t, "a.pdf", shared[0].Name)
}

func TestHTTPPersister_CanceledContext(t *testing.T) {
	p := NewHTTPPersister("http://127.0.0.1:1", "tok", time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.FetchProfile(ctx, "user-b")
	assert.ErrorIs(t, err, context.Canceled)
}
