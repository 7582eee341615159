package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/fivetwenty-io/microcms-go/pkg/microcms"
)

// errorBody is the shape of an API error response.
type errorBody struct {
	Message string `json:"message"`
}

// ExtractMessage returns the "message" field of an error body. A body that
// is empty, not JSON, or lacks the field yields "".
func ExtractMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var parsed errorBody

	err := json.Unmarshal(body, &parsed)
	if err != nil {
		return ""
	}

	return parsed.Message
}

func newHTTPError(method, url string, status int, body []byte) *microcms.HTTPError {
	return &microcms.HTTPError{
		Method:     method,
		URL:        url,
		StatusCode: status,
		Message:    ExtractMessage(body),
	}
}

// bufferBody reads the response body and replaces it with an in-memory copy
// so it can be read again. A read failure leaves an empty body.
func bufferBody(resp *http.Response) []byte {
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	resp.Body = io.NopCloser(bytes.NewReader(body))

	return body
}

// transportError turns a failure without a response into the error the
// caller sees. Errors already classified by the transport pass through.
func (c *Client) transportError(state *attemptState, err error) error {
	if c.errorNormalizer != nil {
		if normalized := c.errorNormalizer(err); normalized != nil {
			return normalized
		}
	}

	httpErr := &microcms.HTTPError{}
	if errors.As(err, &httpErr) {
		return httpErr
	}

	attempts := state.attempts
	if attempts == 0 {
		attempts = 1
	}

	return &microcms.NetworkError{
		Method:   state.method,
		URL:      state.url,
		Attempts: attempts,
		Err:      err,
	}
}
