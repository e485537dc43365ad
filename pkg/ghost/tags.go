package ghost

import (
	"context"
	"net/http"
	"net/url"
)

// tagsEnvelope is the wire envelope for tags in both directions.
type tagsEnvelope struct {
	Tags []map[string]interface{} `json:"tags"`
	Meta *metaPayload             `json:"meta,omitempty"`
}

func (e *tagsEnvelope) pagination() *paginationPayload {
	if e.Meta == nil {
		return nil
	}
	return e.Meta.Pagination
}

// ListTags returns one page of tags. As with posts, a missing total
// count is reported through Meta.TotalKnown rather than treated as an
// error.
func (c *Client) ListTags(ctx context.Context, opts ListOptions) (*TagList, error) {
	const op = "ListTags"

	var payload tagsEnvelope
	if err := c.do(ctx, op, OperationRead, http.MethodGet, "/tags/", opts.Values(), nil, &payload); err != nil {
		return nil, err
	}

	list := &TagList{
		Tags: make([]*Tag, 0, len(payload.Tags)),
		Meta: newPagination(payload.pagination()),
	}
	for _, raw := range payload.Tags {
		var tag Tag
		if err := decodeResource(raw, &tag); err != nil {
			return nil, &Error{Op: op, Err: ErrDecode, Msg: err.Error()}
		}
		list.Tags = append(list.Tags, &tag)
	}
	return list, nil
}

// CreateTag creates a tag with the given name. Optional attributes such
// as "description" or "slug" go in fields; a "name" key there is
// overridden by the name argument.
func (c *Client) CreateTag(ctx context.Context, name string, fields map[string]interface{}) (*Tag, error) {
	const op = "CreateTag"

	body := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["name"] = name

	envelope := tagsEnvelope{Tags: []map[string]interface{}{body}}

	var payload tagsEnvelope
	if err := c.do(ctx, op, OperationWrite, http.MethodPost, "/tags/", nil, envelope, &payload); err != nil {
		return nil, err
	}

	if len(payload.Tags) == 0 {
		return nil, &Error{Op: op, Err: ErrDecode, Msg: "response contained no tags"}
	}
	var tag Tag
	if err := decodeResource(payload.Tags[0], &tag); err != nil {
		return nil, &Error{Op: op, Err: ErrDecode, Msg: err.Error()}
	}
	return &tag, nil
}

// DeleteTag permanently removes a tag. Posts carrying the tag lose it
// but are otherwise untouched.
func (c *Client) DeleteTag(ctx context.Context, id string) error {
	const op = "DeleteTag"
	if id == "" {
		return &Error{Op: op, Err: ErrNotFound, Msg: "empty tag id"}
	}
	return c.do(ctx, op, OperationDelete, http.MethodDelete, "/tags/"+url.PathEscape(id)+"/", nil, nil, nil)
}
