package ghost

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ListTags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/ghost/api/admin/tags/", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"tags": [
				{"id": "t1", "name": "News", "slug": "news", "description": "Site news"},
				{"id": "t2", "name": "Tutorials", "slug": "tutorials"}
			],
			"meta": {"pagination": {"page": 1, "limit": 15, "pages": 1, "total": 2}}
		}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, DefaultPolicy())

	list, err := client.ListTags(context.Background(), ListOptions{})
	require.NoError(t, err)

	require.Len(t, list.Tags, 2)
	assert.Equal(t, "News", list.Tags[0].Name)
	assert.Equal(t, "Site news", list.Tags[0].Description)
	assert.True(t, list.Meta.TotalKnown)
	assert.Equal(t, 2, list.Meta.Total)
}

func TestClient_ListTags_MissingTotal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tags": [{"id": "t1", "name": "News"}]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, DefaultPolicy())

	list, err := client.ListTags(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.False(t, list.Meta.TotalKnown)
}

func TestClient_CreateTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/ghost/api/admin/tags/", r.URL.Path)

		var envelope tagsEnvelope
		require.NoError(t, json.NewDecoder(r.Body).Decode(&envelope))
		require.Len(t, envelope.Tags, 1)
		sent := envelope.Tags[0]
		assert.Equal(t, "release-notes", sent["name"])
		assert.Equal(t, "Release announcements", sent["description"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"tags": [{"id": "t-new", "name": "release-notes", "slug": "release-notes", "description": "Release announcements"}]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, DefaultPolicy())

	tag, err := client.CreateTag(context.Background(), "release-notes", map[string]interface{}{
		"description": "Release announcements",
	})
	require.NoError(t, err)

	assert.Equal(t, "t-new", tag.ID)
	assert.Equal(t, "release-notes", tag.Name)
	assert.Equal(t, "release-notes", tag.Slug)
}

func TestClient_CreateTag_NameArgumentWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var envelope tagsEnvelope
		require.NoError(t, json.NewDecoder(r.Body).Decode(&envelope))
		assert.Equal(t, "actual", envelope.Tags[0]["name"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"tags": [{"id": "t-new", "name": "actual"}]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, DefaultPolicy())

	_, err := client.CreateTag(context.Background(), "actual", map[string]interface{}{
		"name": "shadowed",
	})
	require.NoError(t, err)
}

func TestClient_CreateTag_Readonly(t *testing.T) {
	var requests atomic.Int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, Policy{ReadonlyMode: true})

	_, err := client.CreateTag(context.Background(), "blocked", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, int64(0), requests.Load())
}

func TestClient_DeleteTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/ghost/api/admin/tags/t1/", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, permissivePolicy())

	assert.NoError(t, client.DeleteTag(context.Background(), "t1"))
}

func TestClient_DeleteTag_Denied(t *testing.T) {
	var requests atomic.Int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, DefaultPolicy())

	err := client.DeleteTag(context.Background(), "t1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	reason, ok := DenialReason(err)
	require.True(t, ok)
	assert.Equal(t, DenialDeleteNotAllowed, reason)
	assert.Equal(t, int64(0), requests.Load())
}
