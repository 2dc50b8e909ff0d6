package auth

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestTokenBucketBurst(t *testing.T) {
	// 2 permits/second with burst 2: the third immediate acquire must fail.
	b := NewTokenBucket(2, 2)

	granted := 0
	for i := 0; i < 3; i++ {
		if b.TryAcquire() {
			granted++
		}
	}
	if granted != 2 {
		t.Errorf("granted = %d, want 2", granted)
	}
	if b.RetryAfter() <= 0 {
		t.Error("RetryAfter must be positive")
	}
}

func TestTokenBucketRefill(t *testing.T) {
	b := NewTokenBucket(100, 1)

	if !b.TryAcquire() {
		t.Fatal("first acquire failed")
	}
	if b.TryAcquire() {
		t.Fatal("second immediate acquire succeeded with burst 1")
	}

	time.Sleep(20 * time.Millisecond) // > 1/100s
	if !b.TryAcquire() {
		t.Error("acquire after refill interval failed")
	}
}

func TestTokenBucketConcurrent(t *testing.T) {
	// With exactly N permits available, N+k concurrent acquirers must be
	// granted exactly N permits.
	const permits = 8
	b := NewTokenBucket(0.001, permits) // effectively no refill during the test

	var granted atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < permits*4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if b.TryAcquire() {
				granted.Add(1)
			}
		}()
	}
	wg.Wait()

	if granted.Load() != permits {
		t.Errorf("granted = %d, want %d", granted.Load(), permits)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	b := NewTokenBucket(2, 2)
	h := RateLimit(b)(ok())

	codes := map[int]int{}
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		codes[rec.Code]++
	}

	if codes[http.StatusOK] != 2 || codes[http.StatusTooManyRequests] != 1 {
		t.Fatalf("codes = %v, want two 200s and one 429", codes)
	}
}

func TestRateLimitRetryAfterHeader(t *testing.T) {
	b := NewTokenBucket(2, 1)
	h := RateLimit(b)(ok())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "1" {
		t.Errorf("Retry-After = %q, want %q", got, "1")
	}
}

func TestRateLimitShortCircuitsBeforeHandler(t *testing.T) {
	b := NewTokenBucket(0.001, 1)
	b.TryAcquire() // exhaust

	ran := false
	h := RateLimit(b)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ran = true
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/sessions", nil))

	if ran {
		t.Error("handler ran despite rate limit rejection")
	}
}
