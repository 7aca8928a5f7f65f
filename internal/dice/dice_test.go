package dice

import (
	"errors"
	"testing"
	"time"
)

func TestFaceRange(t *testing.T) {
	rng := NewRand(42)
	seen := map[int]bool{}
	for i := 0; i < 600; i++ {
		f := Face(rng)
		if f < MinFace || f > MaxFace {
			t.Fatalf("Face() = %d, want [%d,%d]", f, MinFace, MaxFace)
		}
		seen[f] = true
	}
	if len(seen) != Sides {
		t.Errorf("saw %d distinct faces in 600 rolls, want %d", len(seen), Sides)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		input, want int
	}{
		{-3, 1},
		{0, 1},
		{1, 1},
		{4, 4},
		{6, 6},
		{9, 6},
	}
	for _, tt := range tests {
		if got := Clamp(tt.input); got != tt.want {
			t.Errorf("Clamp(%d) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func newTestDie(t *testing.T, settle, timeout time.Duration) (*Virtual, chan int) {
	t.Helper()
	v := NewVirtual(NewRand(7), settle, timeout)
	faces := make(chan int, 8)
	if err := v.Bind(func(face int) { faces <- face }); err != nil {
		t.Fatalf("Bind() error: %v", err)
	}
	return v, faces
}

func TestVirtualReportsOnce(t *testing.T) {
	v, faces := newTestDie(t, 5*time.Millisecond, 50*time.Millisecond)

	v.TriggerRoll()

	select {
	case f := <-faces:
		if f < MinFace || f > MaxFace {
			t.Errorf("reported face %d out of range", f)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for roll")
	}

	// The fallback timer must not report a second face for the same roll.
	select {
	case f := <-faces:
		t.Fatalf("second report %d for one roll", f)
	case <-time.After(100 * time.Millisecond):
	}
	if v.Rolling() {
		t.Error("Rolling() should be false after the roll landed")
	}
}

func TestVirtualFallback(t *testing.T) {
	v, faces := newTestDie(t, time.Hour, 10*time.Millisecond)

	v.TriggerRoll()

	select {
	case f := <-faces:
		if f < MinFace || f > MaxFace {
			t.Errorf("fallback face %d out of range", f)
		}
	case <-time.After(time.Second):
		t.Fatal("fallback never reported a face")
	}
	v.Reset()
}

func TestVirtualPermission(t *testing.T) {
	v, faces := newTestDie(t, 5*time.Millisecond, 20*time.Millisecond)

	v.SetRollPermission(false)
	v.TriggerRoll()

	select {
	case f := <-faces:
		t.Fatalf("roll without permission reported %d", f)
	case <-time.After(60 * time.Millisecond):
	}
	if v.Rolling() {
		t.Error("die should not be rolling without permission")
	}
}

func TestVirtualResetCancelsRoll(t *testing.T) {
	v, faces := newTestDie(t, 20*time.Millisecond, 40*time.Millisecond)

	v.TriggerRoll()
	v.Reset()

	select {
	case f := <-faces:
		t.Fatalf("reset roll still reported %d", f)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestVirtualBindOnce(t *testing.T) {
	v := NewVirtual(NewRand(1), 0, 0)
	if err := v.Bind(func(int) {}); err != nil {
		t.Fatalf("first Bind() error: %v", err)
	}
	if err := v.Bind(func(int) {}); !errors.Is(err, ErrAlreadyBound) {
		t.Errorf("second Bind() error = %v, want ErrAlreadyBound", err)
	}
}

var _ Source = (*Virtual)(nil)
