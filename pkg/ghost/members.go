package ghost

import (
	"context"
	"net/http"
)

// membersEnvelope is the wire envelope for member responses.
type membersEnvelope struct {
	Members []map[string]interface{} `json:"members"`
	Meta    *metaPayload             `json:"meta,omitempty"`
}

func (e *membersEnvelope) pagination() *paginationPayload {
	if e.Meta == nil {
		return nil
	}
	return e.Meta.Pagination
}

// ListMembers returns one page of members. Member records carry personal
// information, so the gate classifies this as a member read: it is
// denied unless the policy sets allow_member_access, independent of
// readonly mode.
func (c *Client) ListMembers(ctx context.Context, opts ListOptions) (*MemberList, error) {
	const op = "ListMembers"

	var payload membersEnvelope
	if err := c.do(ctx, op, OperationMemberRead, http.MethodGet, "/members/", opts.Values(), nil, &payload); err != nil {
		return nil, err
	}

	list := &MemberList{
		Members: make([]*Member, 0, len(payload.Members)),
		Meta:    newPagination(payload.pagination()),
	}
	for _, raw := range payload.Members {
		var member Member
		if err := decodeResource(raw, &member); err != nil {
			return nil, &Error{Op: op, Err: ErrDecode, Msg: err.Error()}
		}
		list.Members = append(list.Members, &member)
	}
	return list, nil
}
