package rotation

import (
	"errors"
	"testing"
	"time"
)

// fakeSleeper records requested delays instead of waiting.
type fakeSleeper struct{ waits []time.Duration }

func (s *fakeSleeper) sleep(d time.Duration) { s.waits = append(s.waits, d) }

func testPolicy(s *fakeSleeper) RetryPolicy {
	p := DefaultRetryPolicy()
	p.Sleep = s.sleep
	return p
}

func TestRetryEventualSuccess(t *testing.T) {
	s := &fakeSleeper{}
	calls := 0
	err := testPolicy(s).Do(func() error {
		calls++
		if calls < 3 {
			return Transient(errors.New("flaky"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(s.waits) != len(want) {
		t.Fatalf("waits = %v, want %v", s.waits, want)
	}
	for i := range want {
		if s.waits[i] != want[i] {
			t.Errorf("wait %d = %v, want %v", i, s.waits[i], want[i])
		}
	}
}

func TestRetryBudgetExhausted(t *testing.T) {
	s := &fakeSleeper{}
	calls := 0
	err := testPolicy(s).Do(func() error {
		calls++
		return Transient(errors.New("still down"))
	})
	if err == nil {
		t.Fatalf("want terminal error after budget")
	}
	if calls != 6 {
		t.Errorf("calls = %d, want 6", calls)
	}
	if len(s.waits) != 5 {
		t.Errorf("waits = %d, want 5", len(s.waits))
	}
}

func TestRetryBackoffCap(t *testing.T) {
	s := &fakeSleeper{}
	p := RetryPolicy{Attempts: 8, BaseDelay: 4 * time.Second, Multiplier: 2, MaxDelay: 10 * time.Second, Sleep: s.sleep}
	p.Do(func() error { return Transient(errors.New("down")) })
	// 4, 8, then capped at 10.
	want := []time.Duration{4 * time.Second, 8 * time.Second, 10 * time.Second, 10 * time.Second, 10 * time.Second, 10 * time.Second, 10 * time.Second}
	for i := range want {
		if s.waits[i] != want[i] {
			t.Errorf("wait %d = %v, want %v", i, s.waits[i], want[i])
		}
	}
}

func TestRetryHonoursRetryAfter(t *testing.T) {
	s := &fakeSleeper{}
	calls := 0
	err := testPolicy(s).Do(func() error {
		calls++
		if calls == 1 {
			return &RateLimitError{RetryAfter: 7 * time.Second}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if len(s.waits) != 1 || s.waits[0] != 7*time.Second {
		t.Errorf("waits = %v, want [7s]", s.waits)
	}
}

func TestRetryTerminalErrorStopsImmediately(t *testing.T) {
	s := &fakeSleeper{}
	calls := 0
	terminal := errors.New("401 unauthorized")
	err := testPolicy(s).Do(func() error {
		calls++
		return terminal
	})
	if !errors.Is(err, terminal) {
		t.Fatalf("err = %v, want terminal", err)
	}
	if calls != 1 || len(s.waits) != 0 {
		t.Errorf("terminal errors must not be retried: calls=%d waits=%v", calls, s.waits)
	}
}

func TestGatewayErrorMatchesUnavailable(t *testing.T) {
	err := &GatewayError{Op: "eod prices", Symbol: "SCHD.US", Err: errors.New("boom")}
	if !errors.Is(err, ErrGatewayUnavailable) {
		t.Errorf("GatewayError should match ErrGatewayUnavailable")
	}
}
