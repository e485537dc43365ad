package ghost

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mitchellh/mapstructure"
)

// PostStatus is the publication state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusSent      PostStatus = "sent"
)

// IsValid returns true if the status is one the server can report.
func (s PostStatus) IsValid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusScheduled, PostStatusSent:
		return true
	}
	return false
}

// String returns the string representation of the status.
func (s PostStatus) String() string {
	return string(s)
}

// Post is a content entry. Timestamps stay in the server's wire format:
// UpdatedAt doubles as the collision token for updates and must
// round-trip byte for byte.
type Post struct {
	ID            string     `mapstructure:"id" json:"id"`
	UUID          string     `mapstructure:"uuid" json:"uuid"`
	Title         string     `mapstructure:"title" json:"title"`
	Slug          string     `mapstructure:"slug" json:"slug"`
	Status        PostStatus `mapstructure:"status" json:"status"`
	HTML          string     `mapstructure:"html" json:"html,omitempty"`
	CustomExcerpt string     `mapstructure:"custom_excerpt" json:"custom_excerpt,omitempty"`
	URL           string     `mapstructure:"url" json:"url,omitempty"`
	CreatedAt     string     `mapstructure:"created_at" json:"created_at,omitempty"`
	UpdatedAt     string     `mapstructure:"updated_at" json:"updated_at,omitempty"`
	PublishedAt   string     `mapstructure:"published_at" json:"published_at,omitempty"`

	// Extra holds fields the server sent that this client does not
	// model, so schema additions survive a decode untouched.
	Extra map[string]interface{} `mapstructure:",remain" json:"-"`
}

// CreatedTime parses CreatedAt. Zero when the server sent nothing.
func (p *Post) CreatedTime() (time.Time, error) {
	return parseWireTime(p.CreatedAt)
}

// UpdatedTime parses UpdatedAt. Zero when the server sent nothing.
func (p *Post) UpdatedTime() (time.Time, error) {
	return parseWireTime(p.UpdatedAt)
}

// PublishedTime parses PublishedAt. Zero when the post never went live.
func (p *Post) PublishedTime() (time.Time, error) {
	return parseWireTime(p.PublishedAt)
}

// Tag is a taxonomy entry attached to posts.
type Tag struct {
	ID          string `mapstructure:"id" json:"id"`
	Name        string `mapstructure:"name" json:"name"`
	Slug        string `mapstructure:"slug" json:"slug"`
	Description string `mapstructure:"description" json:"description,omitempty"`
	CreatedAt   string `mapstructure:"created_at" json:"created_at,omitempty"`
	UpdatedAt   string `mapstructure:"updated_at" json:"updated_at,omitempty"`

	Extra map[string]interface{} `mapstructure:",remain" json:"-"`
}

// Member is a site subscriber. Member records carry personal
// information; access is gated by Policy.AllowMemberAccess.
type Member struct {
	ID        string `mapstructure:"id" json:"id"`
	Email     string `mapstructure:"email" json:"email"`
	Name      string `mapstructure:"name" json:"name,omitempty"`
	Note      string `mapstructure:"note" json:"note,omitempty"`
	Status    string `mapstructure:"status" json:"status,omitempty"`
	CreatedAt string `mapstructure:"created_at" json:"created_at,omitempty"`
	UpdatedAt string `mapstructure:"updated_at" json:"updated_at,omitempty"`

	Extra map[string]interface{} `mapstructure:",remain" json:"-"`
}

// Site is the public metadata block describing an instance.
type Site struct {
	Title       string `mapstructure:"title" json:"title"`
	Description string `mapstructure:"description" json:"description,omitempty"`
	URL         string `mapstructure:"url" json:"url"`
	Version     string `mapstructure:"version" json:"version,omitempty"`

	Extra map[string]interface{} `mapstructure:",remain" json:"-"`
}

// Pagination is the collection metadata reported alongside list results.
type Pagination struct {
	Page  int
	Limit int
	Pages int

	// Total is the server-reported collection size. Only meaningful when
	// TotalKnown is true; servers may omit the count.
	Total      int
	TotalKnown bool
}

// PostList is one page of posts plus pagination metadata.
type PostList struct {
	Posts []*Post
	Meta  Pagination
}

// TagList is one page of tags plus pagination metadata.
type TagList struct {
	Tags []*Tag
	Meta Pagination
}

// MemberList is one page of members plus pagination metadata.
type MemberList struct {
	Members []*Member
	Meta    Pagination
}

// metaPayload is the wire shape of the metadata envelope.
type metaPayload struct {
	Pagination *paginationPayload `json:"pagination,omitempty"`
}

// paginationPayload tolerates the quirks of the wire format: Total may
// be absent, and Limit arrives as the string "all" for unbounded pages.
type paginationPayload struct {
	Page  int             `json:"page"`
	Limit json.RawMessage `json:"limit"`
	Pages int             `json:"pages"`
	Total *int            `json:"total"`
}

// newPagination converts the wire metadata, treating a missing envelope
// or missing total as an unknown count rather than an error.
func newPagination(p *paginationPayload) Pagination {
	if p == nil {
		return Pagination{}
	}

	out := Pagination{Page: p.Page, Pages: p.Pages}
	if len(p.Limit) > 0 {
		var n int
		if err := json.Unmarshal(p.Limit, &n); err == nil {
			out.Limit = n
		}
	}
	if p.Total != nil {
		out.Total = *p.Total
		out.TotalKnown = true
	}
	return out
}

// decodeResource maps one wire object onto a typed resource. Fields the
// type does not model land in its ",remain" extension map.
func decodeResource(in map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

func parseWireTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable timestamp %q: %w", s, err)
	}
	return t, nil
}
