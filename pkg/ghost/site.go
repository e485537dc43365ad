package ghost

import (
	"context"
	"net/http"
)

// GetSite returns public metadata about the site. It is the cheapest
// authenticated call the admin API offers, which makes it the natural
// connectivity and key probe.
func (c *Client) GetSite(ctx context.Context) (*Site, error) {
	const op = "GetSite"

	var payload struct {
		Site map[string]interface{} `json:"site"`
	}
	if err := c.do(ctx, op, OperationRead, http.MethodGet, "/site/", nil, nil, &payload); err != nil {
		return nil, err
	}

	if payload.Site == nil {
		return nil, &Error{Op: op, Err: ErrDecode, Msg: "response contained no site"}
	}
	var site Site
	if err := decodeResource(payload.Site, &site); err != nil {
		return nil, &Error{Op: op, Err: ErrDecode, Msg: err.Error()}
	}
	return &site, nil
}
