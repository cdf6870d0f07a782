package date

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Date
		err  bool
	}{
		{in: "2025-06-15", want: New(2025, 6, 15)},
		{in: "2025-6-1", want: New(2025, 6, 1)},
		{in: "not-a-date", err: true},
		{in: "2025/06/15", err: true},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if c.err {
			if err == nil {
				t.Errorf("Parse(%q): want error, got %v", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): unexpected error %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("Parse(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestAddNormalizes(t *testing.T) {
	d := New(2025, 1, 31).Add(1)
	if d != New(2025, 2, 1) {
		t.Errorf("Add(1) across month = %v, want 2025-02-01", d)
	}
	d = New(2024, 2, 28).Add(1)
	if d != New(2024, 2, 29) {
		t.Errorf("Add(1) on leap year = %v, want 2024-02-29", d)
	}
}

func TestDaysUntil(t *testing.T) {
	a := New(2025, 6, 1)
	b := New(2025, 6, 15)
	if got := a.DaysUntil(b); got != 14 {
		t.Errorf("DaysUntil = %d, want 14", got)
	}
	if got := b.DaysUntil(a); got != -14 {
		t.Errorf("reverse DaysUntil = %d, want -14", got)
	}
}

func TestWeekday(t *testing.T) {
	// 2025-06-14 is a Saturday.
	if wd := New(2025, 6, 14).Weekday(); wd != time.Saturday {
		t.Errorf("Weekday = %v, want Saturday", wd)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	d := New(2025, 6, 15)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `"2025-06-15"` {
		t.Errorf("Marshal = %s", b)
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != d {
		t.Errorf("round trip = %v, want %v", back, d)
	}
}

func TestRangeContains(t *testing.T) {
	r := Range{From: New(2025, 6, 1), To: New(2025, 6, 30)}
	for _, c := range []struct {
		d    Date
		want bool
	}{
		{New(2025, 6, 1), true},
		{New(2025, 6, 30), true},
		{New(2025, 5, 31), false},
		{New(2025, 7, 1), false},
	} {
		if got := r.Contains(c.d); got != c.want {
			t.Errorf("Contains(%v) = %v, want %v", c.d, got, c.want)
		}
	}
}
