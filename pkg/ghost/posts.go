package ghost

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListOptions control pagination and server-side filtering for list
// operations. The zero value asks for the server's defaults.
type ListOptions struct {
	// Limit is the page size. Zero means the server default.
	Limit int

	// Page selects a result page, starting at 1.
	Page int

	// Filter is a server-side filter expression, for example
	// "status:draft".
	Filter string

	// Order sorts results, for example "published_at desc".
	Order string

	// Fields trims each result to a comma-separated field list.
	Fields string

	// Include expands related data, for example "tags,authors".
	Include string
}

// Values renders the options as request query parameters.
func (o ListOptions) Values() url.Values {
	q := url.Values{}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Filter != "" {
		q.Set("filter", o.Filter)
	}
	if o.Order != "" {
		q.Set("order", o.Order)
	}
	if o.Fields != "" {
		q.Set("fields", o.Fields)
	}
	if o.Include != "" {
		q.Set("include", o.Include)
	}
	return q
}

// postsEnvelope is the wire envelope for posts in both directions:
// requests and responses wrap each post in a single-element array.
type postsEnvelope struct {
	Posts []map[string]interface{} `json:"posts"`
	Meta  *metaPayload             `json:"meta,omitempty"`
}

func (e *postsEnvelope) pagination() *paginationPayload {
	if e.Meta == nil {
		return nil
	}
	return e.Meta.Pagination
}

// ListPosts returns one page of posts. A response without a total count
// still succeeds; Meta.TotalKnown reports whether Meta.Total means
// anything.
func (c *Client) ListPosts(ctx context.Context, opts ListOptions) (*PostList, error) {
	const op = "ListPosts"

	var payload postsEnvelope
	if err := c.do(ctx, op, OperationRead, http.MethodGet, "/posts/", opts.Values(), nil, &payload); err != nil {
		return nil, err
	}

	list := &PostList{
		Posts: make([]*Post, 0, len(payload.Posts)),
		Meta:  newPagination(payload.pagination()),
	}
	for _, raw := range payload.Posts {
		var post Post
		if err := decodeResource(raw, &post); err != nil {
			return nil, &Error{Op: op, Err: ErrDecode, Msg: err.Error()}
		}
		list.Posts = append(list.Posts, &post)
	}
	return list, nil
}

// GetPost fetches a single post by id.
func (c *Client) GetPost(ctx context.Context, id string) (*Post, error) {
	const op = "GetPost"
	if id == "" {
		return nil, &Error{Op: op, Err: ErrNotFound, Msg: "empty post id"}
	}

	var payload postsEnvelope
	if err := c.do(ctx, op, OperationRead, http.MethodGet, postPath(id), nil, nil, &payload); err != nil {
		return nil, err
	}
	return firstPost(op, payload)
}

// CreatePost creates a post from the given fields. New posts default to
// draft status server-side unless fields say otherwise. When fields
// carry "html" the request asks the server to convert it into its
// stored content format.
func (c *Client) CreatePost(ctx context.Context, fields map[string]interface{}) (*Post, error) {
	const op = "CreatePost"

	query := url.Values{}
	if _, ok := fields["html"]; ok {
		query.Set("source", "html")
	}

	body := postsEnvelope{Posts: []map[string]interface{}{fields}}

	var payload postsEnvelope
	if err := c.do(ctx, op, OperationWrite, http.MethodPost, "/posts/", query, body, &payload); err != nil {
		return nil, err
	}
	return firstPost(op, payload)
}

// UpdatePost applies a partial update. The server detects concurrent
// modification through the updated_at collision token; when fields do
// not carry one, the current value is fetched first and sent alongside
// the changes. A stale token surfaces as ErrConflict.
func (c *Client) UpdatePost(ctx context.Context, id string, fields map[string]interface{}) (*Post, error) {
	const op = "UpdatePost"
	if id == "" {
		return nil, &Error{Op: op, Err: ErrNotFound, Msg: "empty post id"}
	}

	// Gate before the internal read so a denied update costs zero
	// requests.
	if allowed, reason := c.policy.Decide(OperationWrite); !allowed {
		return nil, &Error{Op: op, Err: ErrPermissionDenied, Msg: reason, Reason: reason}
	}

	body := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	if _, ok := body["updated_at"]; !ok {
		current, err := c.GetPost(ctx, id)
		if err != nil {
			return nil, &Error{Op: op, Err: err, Msg: "failed to read current state"}
		}
		body["updated_at"] = current.UpdatedAt
	}

	query := url.Values{}
	if _, ok := body["html"]; ok {
		query.Set("source", "html")
	}

	envelope := postsEnvelope{Posts: []map[string]interface{}{body}}

	var payload postsEnvelope
	if err := c.do(ctx, op, OperationWrite, http.MethodPut, postPath(id), query, envelope, &payload); err != nil {
		return nil, err
	}
	return firstPost(op, payload)
}

// PublishPost transitions a post into the published state. Implemented
// as a read-modify-write: the current state supplies the updated_at
// collision token and the request carries only the state change, so
// every other field survives untouched. Publishing an already published
// post is a no-op.
func (c *Client) PublishPost(ctx context.Context, id string) (*Post, error) {
	return c.setPostStatus(ctx, "PublishPost", OperationPublish, id, PostStatusPublished)
}

// UnpublishPost transitions a post back to draft. The inverse of
// PublishPost, with the same read-modify-write shape.
func (c *Client) UnpublishPost(ctx context.Context, id string) (*Post, error) {
	return c.setPostStatus(ctx, "UnpublishPost", OperationUnpublish, id, PostStatusDraft)
}

func (c *Client) setPostStatus(ctx context.Context, op string, kind OperationKind, id string, status PostStatus) (*Post, error) {
	if id == "" {
		return nil, &Error{Op: op, Err: ErrNotFound, Msg: "empty post id"}
	}

	// Gate before the internal read so a denied transition costs zero
	// requests.
	if allowed, reason := c.policy.Decide(kind); !allowed {
		c.logger.Debug("operation denied by policy",
			"op", op, "kind", kind.String(), "reason", reason)
		return nil, &Error{Op: op, Err: ErrPermissionDenied, Msg: reason, Reason: reason}
	}

	current, err := c.GetPost(ctx, id)
	if err != nil {
		return nil, &Error{Op: op, Err: err, Msg: "failed to read current state"}
	}
	if current.Status == status {
		return current, nil
	}

	body := postsEnvelope{Posts: []map[string]interface{}{{
		"status":     string(status),
		"updated_at": current.UpdatedAt,
	}}}

	var payload postsEnvelope
	if err := c.do(ctx, op, kind, http.MethodPut, postPath(id), nil, body, &payload); err != nil {
		return nil, err
	}
	return firstPost(op, payload)
}

// DeletePost permanently removes a post.
func (c *Client) DeletePost(ctx context.Context, id string) error {
	const op = "DeletePost"
	if id == "" {
		return &Error{Op: op, Err: ErrNotFound, Msg: "empty post id"}
	}
	return c.do(ctx, op, OperationDelete, http.MethodDelete, postPath(id), nil, nil, nil)
}

func postPath(id string) string {
	return "/posts/" + url.PathEscape(id) + "/"
}

func firstPost(op string, payload postsEnvelope) (*Post, error) {
	if len(payload.Posts) == 0 {
		return nil, &Error{Op: op, Err: ErrDecode, Msg: "response contained no posts"}
	}
	var post Post
	if err := decodeResource(payload.Posts[0], &post); err != nil {
		return nil, &Error{Op: op, Err: ErrDecode, Msg: err.Error()}
	}
	return &post, nil
}
