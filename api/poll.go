package api

import (
	"context"
	"errors"
	"fmt"

	clustering "github.com/Nicholas-Eugene/cluster-web-frontend"
	"github.com/Nicholas-Eugene/cluster-web-frontend/internal/backoff"
)

// WaitForCompletion polls a session's status until it completes or fails.
// Failed requests are not retried.
func (c *Client) WaitForCompletion(ctx context.Context, sessionID string, cfg backoff.Config) (*Status, error) {
	var last *Status

	err := backoff.Poll(ctx, cfg, "clustering session "+sessionID, c.logger.Debug, func(ctx context.Context, attempt int) (bool, error) {
		st, err := c.GetStatus(ctx, sessionID)
		if err != nil {
			return false, err
		}
		last = st

		switch {
		case st.Done():
			return true, nil
		case st.Failed():
			return false, &APIError{
				Message:        firstNonEmpty(st.Message, clustering.MsgDataLoadFailed),
				BackendMessage: st.Message,
				Err:            fmt.Errorf("session %s failed", sessionID),
			}
		}
		return false, nil
	})
	if err == nil {
		return last, nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return last, apiErr
	}
	var exhausted *backoff.ExhaustedError
	if errors.As(err, &exhausted) {
		return last, &APIError{Message: MsgPollingTimedOut, Err: err}
	}
	return last, transportError(err)
}
