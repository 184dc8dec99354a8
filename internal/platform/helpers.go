package platform

import (
	"context"
	"fmt"
	"time"
)

// First returns the first element matching selector under scope.
func First(ctx context.Context, doc Document, scope Ref, selector string) (Ref, bool, error) {
	refs, err := doc.QueryAll(ctx, scope, selector)
	if err != nil {
		return "", false, err
	}
	if len(refs) == 0 {
		return "", false, nil
	}
	return refs[0], true, nil
}

// DefaultWaitTimeout bounds WaitFor when no timeout is given.
const DefaultWaitTimeout = 10 * time.Second

// WaitFor polls the document until selector matches or timeout elapses.
// Query errors are retried until the deadline.
func WaitFor(ctx context.Context, doc Document, selector string, timeout, interval time.Duration) (Ref, error) {
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastErr error
	for {
		ref, ok, err := First(ctx, doc, "", selector)
		if err == nil && ok {
			return ref, nil
		}
		if err != nil {
			lastErr = err
		}
		select {
		case <-ctx.Done():
			if lastErr != nil {
				return "", fmt.Errorf("element %s did not appear within %s (last error: %w)", selector, timeout, lastErr)
			}
			return "", fmt.Errorf("element %s did not appear within %s", selector, timeout)
		case <-ticker.C:
		}
	}
}
