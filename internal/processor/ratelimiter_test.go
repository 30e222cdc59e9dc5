//nolint:testpackage // Testing internal processor requires same package access
package processor

import (
	"context"
	"testing"

	"golang.org/x/time/rate"
)

func TestNewRateLimiter_Defaults(t *testing.T) {
	testCases := []struct {
		name          string
		rps           int
		burst         int
		expectedLimit rate.Limit
		expectedBurst int
	}{
		{name: "zero rps uses default", rps: 0, burst: 0, expectedLimit: 100, expectedBurst: 100},
		{name: "negative rps uses default", rps: -5, burst: 0, expectedLimit: 100, expectedBurst: 100},
		{name: "burst defaults to rps", rps: 20, burst: 0, expectedLimit: 20, expectedBurst: 20},
		{name: "explicit values kept", rps: 50, burst: 10, expectedLimit: 50, expectedBurst: 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rl := NewRateLimiter(tc.rps, tc.burst, mockLogger{})
			if rl.limiter.Limit() != tc.expectedLimit {
				t.Errorf("expected limit %v, got %v", tc.expectedLimit, rl.limiter.Limit())
			}
			if rl.limiter.Burst() != tc.expectedBurst {
				t.Errorf("expected burst %d, got %d", tc.expectedBurst, rl.limiter.Burst())
			}
		})
	}
}

func TestRateLimiter_AllowExhaustsBurst(t *testing.T) {
	rl := NewRateLimiter(1, 2, mockLogger{})

	if !rl.Allow() {
		t.Error("expected first request allowed")
	}
	if !rl.Allow() {
		t.Error("expected second request allowed within burst")
	}
	if rl.Allow() {
		t.Error("expected third request rejected after burst exhausted")
	}
}

func TestRateLimiter_WaitCanceledContext(t *testing.T) {
	rl := NewRateLimiter(1, 1, mockLogger{})
	rl.Allow() // drain the burst so Wait must block

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := rl.Wait(ctx); err == nil {
		t.Error("expected error from Wait with canceled context")
	}
}

func TestRateLimiter_SetLimitAndBurst(t *testing.T) {
	rl := NewRateLimiter(10, 10, mockLogger{})

	rl.SetLimit(200)
	rl.SetBurst(50)

	if rl.limiter.Limit() != 200 {
		t.Errorf("expected limit 200, got %v", rl.limiter.Limit())
	}
	if rl.limiter.Burst() != 50 {
		t.Errorf("expected burst 50, got %d", rl.limiter.Burst())
	}
}
