package config

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"
)

const (
	BASE_BACKOFF   = 1 * time.Second
	MAX_BACKOFF    = 2 * time.Minute
	BACKOFF_FACTOR = 2.0
	JITTER_FACTOR  = 0.5
)

type backoffData struct {
	BackoffDelay time.Duration
	NextRetryAt  time.Time
}

// BackoffStore tracks per-upstream retry state, keyed by upstream name.
// An upstream that keeps failing gets an exponentially growing cool-down
// window during which callers should skip it.
type BackoffStore struct {
	mu       sync.RWMutex
	backoffs map[string]backoffData
}

func NewBackoffStore() *BackoffStore {
	return &BackoffStore{
		backoffs: make(map[string]backoffData),
	}
}

func (s *BackoffStore) NextRetryAt(upstream string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if backoff, exists := s.backoffs[upstream]; exists {
		return backoff.NextRetryAt.UTC(), true
	}
	return time.Time{}, false
}

// InBackoff reports whether the upstream is still inside its cool-down window.
func (s *BackoffStore) InBackoff(upstream string, now time.Time) bool {
	retryAt, exists := s.NextRetryAt(upstream)
	return exists && now.Before(retryAt)
}

func (s *BackoffStore) UpdateBackoff(upstream string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if backoff, exists := s.backoffs[upstream]; exists {
		backoff.BackoffDelay = calculateNewBackoffDelay(backoff.BackoffDelay)
		backoff.NextRetryAt = calculateNextRetryAt(backoff.BackoffDelay)
		s.backoffs[upstream] = backoff
	} else {
		s.backoffs[upstream] = backoffData{
			BackoffDelay: BASE_BACKOFF,
			NextRetryAt:  calculateNextRetryAt(BASE_BACKOFF),
		}
	}
}

func (s *BackoffStore) ResetBackoff(upstream string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.backoffs, upstream)
}

func calculateNextRetryAt(backoff time.Duration) time.Time {
	jitter := time.Duration(rand.Float64() * float64(backoff) * JITTER_FACTOR)
	backoff += jitter
	if backoff > MAX_BACKOFF {
		backoff = MAX_BACKOFF
	}
	return time.Now().Add(backoff).UTC()
}

func calculateNewBackoffDelay(backoffDelay time.Duration) time.Duration {
	backoffDelay *= BACKOFF_FACTOR
	if backoffDelay >= MAX_BACKOFF {
		backoffDelay = MAX_BACKOFF
	}
	return backoffDelay
}

// DoWithBackoff issues the request, retrying with exponential backoff and
// jitter on transport errors and 5xx responses. It makes at most
// maxRetries+1 attempts; a maxRetries of zero or less retries until the
// context is canceled.
func DoWithBackoff(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	var lastErr error
	delay := BASE_BACKOFF

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.WithContext(ctx))
		if err == nil && resp.StatusCode < http.StatusInternalServerError {
			return resp, nil
		}
		if err != nil {
			lastErr = err
		} else {
			resp.Body.Close()
			lastErr = fmt.Errorf("server returned status: %d", resp.StatusCode)
		}

		if maxRetries > 0 && attempt >= maxRetries {
			break
		}

		jitter := time.Duration(rand.Float64() * float64(delay) * JITTER_FACTOR)
		wait := delay + jitter
		if wait > MAX_BACKOFF {
			wait = MAX_BACKOFF
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}

		delay = calculateNewBackoffDelay(delay)
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}
