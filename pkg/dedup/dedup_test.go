package dedup

import (
	"testing"
	"time"
)

func TestAccept(t *testing.T) {
	base := time.UnixMilli(1_700_000_000_000)

	type step struct {
		text string
		at   time.Duration
		want bool
	}

	tests := []struct {
		name  string
		steps []step
	}{
		{
			name: "identical within cooldown",
			steps: []step{
				{"A", 0, true},
				{"A", 100 * time.Millisecond, false},
				{"A", 2999 * time.Millisecond, false},
			},
		},
		{
			name: "identical after cooldown",
			steps: []step{
				{"A", 0, true},
				{"A", 3000 * time.Millisecond, true},
				{"A", 3500 * time.Millisecond, false},
			},
		},
		{
			name: "different codes back to back",
			steps: []step{
				{"A", 0, true},
				{"B", 10 * time.Millisecond, true},
				{"A", 20 * time.Millisecond, true},
				{"B", 30 * time.Millisecond, true},
			},
		},
		{
			name: "earlier acceptance clears a later code",
			steps: []step{
				{"A", 0, true},
				{"B", 1000 * time.Millisecond, true},
				{"B", 2999 * time.Millisecond, false},
				{"B", 3500 * time.Millisecond, true},
				{"B", 3600 * time.Millisecond, false},
				{"B", 4000 * time.Millisecond, true},
			},
		},
		{
			name: "suppressed repeat does not extend window",
			steps: []step{
				{"A", 0, true},
				{"A", 2500 * time.Millisecond, false},
				{"A", 3100 * time.Millisecond, true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(DefaultCooldown)
			for i, s := range tt.steps {
				if got := d.Accept(s.text, base.Add(s.at)); got != s.want {
					t.Fatalf("step %d: Accept(%q, +%v) = %v, want %v", i, s.text, s.at, got, s.want)
				}
			}
		})
	}
}

func TestAccept_EmptyTextIsStillDeduplicated(t *testing.T) {
	d := New(0)
	now := time.Now()

	if !d.Accept("", now) {
		t.Fatal("first empty decode rejected")
	}
	if d.Accept("", now.Add(time.Millisecond)) {
		t.Error("repeat empty decode accepted within cooldown")
	}
}

func TestAccept_PendingClearsAreBounded(t *testing.T) {
	d := New(DefaultCooldown)
	base := time.UnixMilli(1_700_000_000_000)

	for i := 0; i < 100; i++ {
		d.Accept(string(rune('a'+i%26)), base.Add(time.Duration(i)*time.Second))
	}
	if n := len(d.clears); n > 4 {
		t.Errorf("pending clears = %d, want expired ones dropped", n)
	}
}

func TestReset(t *testing.T) {
	d := New(DefaultCooldown)
	now := time.Now()

	d.Accept("A", now)
	d.Reset()

	if !d.Accept("A", now.Add(time.Millisecond)) {
		t.Error("Accept after Reset = false, want true")
	}
}

func TestNew_DefaultCooldown(t *testing.T) {
	if got := New(-1).Cooldown(); got != DefaultCooldown {
		t.Errorf("Cooldown() = %v, want %v", got, DefaultCooldown)
	}
	if got := New(time.Second).Cooldown(); got != time.Second {
		t.Errorf("Cooldown() = %v, want 1s", got)
	}
}
