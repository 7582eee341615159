package http

import (
	"context"
	"net/http"

	"github.com/fivetwenty-io/microcms-go/internal/constants"
	"github.com/hashicorp/go-retryablehttp"
)

// Outcome is the decision taken after one attempt.
type Outcome int

const (
	// OutcomeSuccess ends the loop with the response as the result.
	OutcomeSuccess Outcome = iota
	// OutcomeAbort ends the loop with the response as a final error.
	OutcomeAbort
	// OutcomeRetry asks for another attempt while budget remains.
	OutcomeRetry
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeAbort:
		return "abort"
	case OutcomeRetry:
		return "retry"
	default:
		return "unknown"
	}
}

// ClassifyStatus maps a response status to an attempt outcome. 2xx succeeds,
// 4xx other than 429 aborts, everything else is retried.
//
// Only 2xx counts as OK, the same range as a fetch Response's ok flag. The
// http.Client follows redirects that carry a Location header, so a 3xx seen
// here is one it could not resolve and is treated like any other non-OK status.
func ClassifyStatus(status int) Outcome {
	switch {
	case status >= constants.HTTPStatusOK && status < constants.HTTPStatusMultipleChoices:
		return OutcomeSuccess
	case status == constants.HTTPStatusTooManyRequests:
		return OutcomeRetry
	case status >= constants.HTTPStatusBadRequest && status < constants.HTTPStatusInternalServerError:
		return OutcomeAbort
	default:
		return OutcomeRetry
	}
}

// attemptState is the per-call retry bookkeeping. It travels in the request
// context because the retryablehttp hooks are shared by concurrent calls.
type attemptState struct {
	method   string
	url      string
	attempts int
}

type attemptStateKey struct{}

func withAttemptState(ctx context.Context, state *attemptState) context.Context {
	return context.WithValue(ctx, attemptStateKey{}, state)
}

func attemptStateFrom(ctx context.Context) *attemptState {
	if state, ok := ctx.Value(attemptStateKey{}).(*attemptState); ok {
		return state
	}

	return &attemptState{}
}

// checkRetry is the retryablehttp.CheckRetry policy.
func (c *Client) checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	state := attemptStateFrom(ctx)

	var cause error

	if err != nil {
		c.metrics.observeAttempt(state.method, 0)

		cause = err
	} else {
		c.metrics.observeAttempt(state.method, resp.StatusCode)

		if ClassifyStatus(resp.StatusCode) != OutcomeRetry {
			return false, nil
		}

		body := bufferBody(resp)
		cause = newHTTPError(state.method, state.url, resp.StatusCode, body)
	}

	if state.attempts <= c.retryMax {
		c.notifyRetry(state, cause)
	}

	return true, nil
}

func (c *Client) notifyRetry(state *attemptState, cause error) {
	c.metrics.observeRetry(state.method)

	if c.logger != nil {
		c.logger.Warn("Waiting for retry", map[string]interface{}{
			"method":      state.method,
			"url":         state.url,
			"attempt":     state.attempts,
			"max_retries": c.retryMax,
			"error":       cause.Error(),
		})
	}

	if c.onRetry != nil {
		c.onRetry(cause, state.attempts)
	}
}

// requestLogHook counts attempts and logs outgoing requests in debug mode.
func (c *Client) requestLogHook(_ retryablehttp.Logger, req *http.Request, attempt int) {
	state := attemptStateFrom(req.Context())
	state.attempts = attempt + 1

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method":  req.Method,
			"url":     req.URL.String(),
			"attempt": state.attempts,
		})
	}
}

// responseLogHook logs responses in debug mode.
func (c *Client) responseLogHook(_ retryablehttp.Logger, resp *http.Response) {
	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      resp.Request.Method,
			"url":         resp.Request.URL.String(),
			"status_code": resp.StatusCode,
		})
	}
}

// errorHandler runs once the loop stops without a success. A final response
// is handed back to Do for classification; a transport error is returned
// as is and normalized by Do.
func (c *Client) errorHandler(resp *http.Response, err error, _ int) (*http.Response, error) {
	if err == nil && resp != nil {
		return resp, nil
	}

	if resp != nil {
		_ = resp.Body.Close()
	}

	return nil, err
}
