package buffer

import "testing"

func TestNewRingZeroFilled(t *testing.T) {
	r := NewRing(8)
	if r.Len() != 8 || r.Cap() != 8 {
		t.Fatalf("Len/Cap = %d/%d, want 8/8", r.Len(), r.Cap())
	}
	for i, v := range r.Data() {
		if v != 0 {
			t.Fatalf("Data()[%d] = %v, want 0", i, v)
		}
	}
}

func TestNewRingNegativeCapacity(t *testing.T) {
	r := NewRing(-1)
	if r.Cap() != 0 {
		t.Fatalf("Cap() = %d, want 0 for negative input", r.Cap())
	}
	r.Push(1) // must not panic
}

func TestPushWrapsAtLen(t *testing.T) {
	r := NewRing(3)
	for i := range 3 {
		r.Push(complex(float64(i), 0))
	}
	if r.Cursor() != 0 {
		t.Fatalf("Cursor() = %d, want 0 after a full lap", r.Cursor())
	}
	r.Push(9)
	if r.Data()[0] != 9 {
		t.Fatalf("Data()[0] = %v, want 9", r.Data()[0])
	}
}

func TestAtNewestFirst(t *testing.T) {
	r := NewRing(4)
	for i := 1; i <= 6; i++ {
		r.Push(complex(float64(i), 0))
	}
	want := []complex128{6, 5, 4, 3}
	for age, w := range want {
		if got := r.At(age); got != w {
			t.Fatalf("At(%d) = %v, want %v", age, got, w)
		}
	}
}

func TestEachMatchesAt(t *testing.T) {
	r := NewRing(5)
	for i := 1; i <= 7; i++ {
		r.Push(complex(0, float64(i)))
	}
	visited := 0
	r.Each(func(age int, x complex128) {
		if x != r.At(age) {
			t.Fatalf("Each age %d = %v, At = %v", age, x, r.At(age))
		}
		visited++
	})
	if visited != r.Len() {
		t.Fatalf("visited %d samples, want %d", visited, r.Len())
	}
}

func TestSegmentsCoverWindow(t *testing.T) {
	r := NewRing(6)
	for i := range 4 {
		r.Push(complex(float64(i+1), 0))
	}
	newer, older := r.Segments()
	if len(newer)+len(older) != r.Len() {
		t.Fatalf("segments cover %d samples, want %d", len(newer)+len(older), r.Len())
	}
	if newer[len(newer)-1] != 4 {
		t.Fatalf("newest = %v, want 4", newer[len(newer)-1])
	}
}

func TestResizeShrinkKeepsCapacityAndWrapsCursor(t *testing.T) {
	r := NewRing(8)
	for range 6 {
		r.Push(1)
	}
	r.Resize(4)
	if r.Cap() != 8 {
		t.Fatalf("Cap() = %d, want 8 after shrink", r.Cap())
	}
	if r.Cursor() != 0 {
		t.Fatalf("Cursor() = %d, want 0 when it fell outside the window", r.Cursor())
	}
}

func TestResizeGrowZeroesExposedSlots(t *testing.T) {
	r := NewRing(4)
	for range 4 {
		r.Push(7)
	}
	r.Resize(2)
	r.Resize(4)
	if r.Data()[2] != 0 || r.Data()[3] != 0 {
		t.Fatalf("stale data visible after Resize: %v", r.Data())
	}
	if r.Data()[0] != 7 {
		t.Fatal("Resize dropped data inside the window")
	}
}

func TestResizeBeyondCapacityPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when resizing past capacity")
		}
	}()
	NewRing(2).Resize(3)
}

func TestReset(t *testing.T) {
	r := NewRing(3)
	r.Push(1)
	r.Push(2)
	r.Reset()
	if r.Cursor() != 0 {
		t.Fatalf("Cursor() = %d, want 0", r.Cursor())
	}
	for i, v := range r.Data() {
		if v != 0 {
			t.Fatalf("Data()[%d] = %v after Reset", i, v)
		}
	}
}
