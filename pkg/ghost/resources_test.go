package ghost

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeResource_Post(t *testing.T) {
	raw := map[string]interface{}{
		"id":           "64f1a0c9e1b2d3c4f5a6b7c8",
		"uuid":         "f3d3e9c2-9f5b-4a0e-b1d2-3c4d5e6f7a8b",
		"title":        "Welcome",
		"slug":         "welcome",
		"status":       "published",
		"html":         "<p>Hello</p>",
		"url":          "https://blog.example.com/welcome/",
		"created_at":   "2024-01-10T08:00:00.000Z",
		"updated_at":   "2024-01-15T10:30:00.000Z",
		"published_at": "2024-01-12T09:00:00.000Z",
	}

	var post Post
	require.NoError(t, decodeResource(raw, &post))

	assert.Equal(t, "64f1a0c9e1b2d3c4f5a6b7c8", post.ID)
	assert.Equal(t, "Welcome", post.Title)
	assert.Equal(t, PostStatusPublished, post.Status)
	assert.Equal(t, "<p>Hello</p>", post.HTML)
	assert.Equal(t, "2024-01-15T10:30:00.000Z", post.UpdatedAt)
	assert.Empty(t, post.Extra)
}

func TestDecodeResource_ExtraFields(t *testing.T) {
	raw := map[string]interface{}{
		"id":         "p1",
		"title":      "Welcome",
		"status":     "draft",
		"updated_at": "2024-01-15T10:30:00.000Z",
		// Fields this client does not model.
		"feature_image": "https://blog.example.com/content/images/cover.jpg",
		"og_title":      "Welcome (social)",
		"email_only":    false,
		"authors":       []interface{}{map[string]interface{}{"id": "a1"}},
	}

	var post Post
	require.NoError(t, decodeResource(raw, &post))

	assert.Equal(t, "p1", post.ID)
	require.NotNil(t, post.Extra)
	assert.Equal(t, "https://blog.example.com/content/images/cover.jpg", post.Extra["feature_image"])
	assert.Equal(t, "Welcome (social)", post.Extra["og_title"])
	assert.Equal(t, false, post.Extra["email_only"])
	assert.Contains(t, post.Extra, "authors")

	// Modeled fields must not leak into the extension map.
	assert.NotContains(t, post.Extra, "id")
	assert.NotContains(t, post.Extra, "title")
	assert.NotContains(t, post.Extra, "updated_at")
}

func TestDecodeResource_NullFieldsTolerated(t *testing.T) {
	// Unpublished posts report null timestamps; decoding must not choke.
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "p1",
		"title": "Draft",
		"status": "draft",
		"published_at": null,
		"custom_excerpt": null
	}`), &raw))

	var post Post
	require.NoError(t, decodeResource(raw, &post))

	assert.Equal(t, "Draft", post.Title)
	assert.Empty(t, post.PublishedAt)
	assert.Empty(t, post.CustomExcerpt)
}

func TestPost_Times(t *testing.T) {
	post := &Post{
		CreatedAt:   "2024-01-10T08:00:00.000Z",
		UpdatedAt:   "2024-01-15 10:30:00",
		PublishedAt: "",
	}

	created, err := post.CreatedTime()
	require.NoError(t, err)
	assert.Equal(t, 2024, created.Year())
	assert.Equal(t, time.January, created.Month())

	// Alternate server formats parse too.
	updated, err := post.UpdatedTime()
	require.NoError(t, err)
	assert.Equal(t, 15, updated.Day())

	published, err := post.PublishedTime()
	require.NoError(t, err)
	assert.True(t, published.IsZero())
}

func TestPost_TimesUnparseable(t *testing.T) {
	post := &Post{UpdatedAt: "not a timestamp"}

	_, err := post.UpdatedTime()
	assert.Error(t, err)
}

func TestPostStatus(t *testing.T) {
	for _, status := range []PostStatus{
		PostStatusDraft, PostStatusPublished, PostStatusScheduled, PostStatusSent,
	} {
		assert.True(t, status.IsValid(), "status %s", status)
	}

	assert.False(t, PostStatus("").IsValid())
	assert.False(t, PostStatus("archived").IsValid())
	assert.Equal(t, "draft", PostStatusDraft.String())
}

func TestNewPagination(t *testing.T) {
	total := 42

	tests := []struct {
		name    string
		payload *paginationPayload
		want    Pagination
	}{
		{
			name:    "missing envelope",
			payload: nil,
			want:    Pagination{},
		},
		{
			name: "full metadata",
			payload: &paginationPayload{
				Page:  2,
				Limit: json.RawMessage(`15`),
				Pages: 3,
				Total: &total,
			},
			want: Pagination{Page: 2, Limit: 15, Pages: 3, Total: 42, TotalKnown: true},
		},
		{
			name: "missing total stays unknown",
			payload: &paginationPayload{
				Page:  1,
				Limit: json.RawMessage(`15`),
				Pages: 1,
			},
			want: Pagination{Page: 1, Limit: 15, Pages: 1},
		},
		{
			name: "string limit is tolerated",
			payload: &paginationPayload{
				Page:  1,
				Limit: json.RawMessage(`"all"`),
				Total: &total,
			},
			want: Pagination{Page: 1, Total: 42, TotalKnown: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, newPagination(tt.payload))
		})
	}
}
