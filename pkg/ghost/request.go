package ghost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// bodyExcerptLimit bounds how much of an unparseable error body is
// carried into an error message.
const bodyExcerptLimit = 300

// apiErrorPayload is the error envelope the admin API returns.
type apiErrorPayload struct {
	Errors []struct {
		Message string `json:"message"`
		Context string `json:"context"`
		Type    string `json:"type"`
	} `json:"errors"`
}

// do executes one gated admin API request and decodes the response into
// out when both are non-nil. Ordering is the heart of the client: the
// permission gate runs before the token mint, and the mint before any
// network I/O, so a denied operation or malformed key costs zero
// requests.
//
// There are no retries at this layer. Transient failure handling belongs
// to callers who know whether the operation is idempotent.
func (c *Client) do(ctx context.Context, op string, kind OperationKind, method, path string, query url.Values, body, out interface{}) error {
	if allowed, reason := c.policy.Decide(kind); !allowed {
		c.logger.Debug("operation denied by policy",
			"op", op, "kind", kind.String(), "reason", reason)
		return &Error{Op: op, Err: ErrPermissionDenied, Msg: reason, Reason: reason}
	}

	token, err := MintToken(c.creds, c.now())
	if err != nil {
		return &Error{Op: op, Err: err}
	}

	endpoint := c.apiURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Op: op, Err: fmt.Errorf("failed to encode request body: %w", err)}
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return &Error{Op: op, Err: ErrTransport, Msg: err.Error()}
	}

	req.Header.Set("Authorization", "Ghost "+token)
	req.Header.Set("Accept-Version", acceptVersion)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("executing admin API request",
		"op", op, "method", method, "path", path)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Op: op, Err: ErrTransport, Msg: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Op: op, Err: ErrTransport, Msg: "failed to read response: " + err.Error()}
	}

	c.logger.Debug("admin API response",
		"op", op, "status", resp.StatusCode, "elapsed_ms", time.Since(start).Milliseconds())

	if err := classifyStatus(op, resp.StatusCode, respBody); err != nil {
		return err
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &Error{Op: op, Err: ErrDecode, Msg: err.Error(), StatusCode: resp.StatusCode}
		}
	}

	return nil
}

// classifyStatus maps a response status onto the error taxonomy. 401 and
// 403 both classify as authentication failures: the local gate already
// ran, so a remote 403 means the key lacks server-side permissions,
// never that the local policy denied the call.
func classifyStatus(op string, status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &Error{Op: op, Err: ErrAuthentication, Msg: remoteDetail(body), StatusCode: status}
	case status == http.StatusNotFound:
		return &Error{Op: op, Err: ErrNotFound, StatusCode: status}
	case status == http.StatusConflict:
		return &Error{Op: op, Err: ErrConflict, Msg: remoteDetail(body), StatusCode: status}
	default:
		return &Error{
			Op:         op,
			Err:        ErrRemoteAPI,
			Msg:        fmt.Sprintf("status %d: %s", status, remoteDetail(body)),
			StatusCode: status,
		}
	}
}

// remoteDetail extracts the server's own message when the body carries
// the standard error envelope, falling back to a bounded excerpt of the
// raw body.
func remoteDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var payload apiErrorPayload
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Errors) > 0 {
		msg := payload.Errors[0].Message
		if extra := payload.Errors[0].Context; extra != "" {
			msg += " (" + extra + ")"
		}
		if msg != "" {
			return msg
		}
	}

	excerpt := string(body)
	if len(excerpt) > bodyExcerptLimit {
		excerpt = excerpt[:bodyExcerptLimit] + "..."
	}
	return excerpt
}
