package mathx

import "testing"

func TestClamp(t *testing.T) {
	if got := Clamp(120, 0, 100); got != 100 {
		t.Fatalf("Clamp high = %d", got)
	}
	if got := Clamp(-3, 0, 100); got != 0 {
		t.Fatalf("Clamp low = %d", got)
	}
	if got := Clamp(50, 100, 0); got != 50 {
		t.Fatalf("Clamp swapped = %d", got)
	}
}

func TestBetweenIsHalfOpen(t *testing.T) {
	if Between(380, 380, 820) {
		t.Fatal("lower bound must be exclusive")
	}
	if !Between(820, 380, 820) {
		t.Fatal("upper bound must be inclusive")
	}
}

func TestScaleU16(t *testing.T) {
	cases := []struct {
		raw  uint16
		full uint32
		want uint32
	}{
		{0, 3300, 0},
		{0xffff, 3300, 3300},
		{0x8000, 3300, 1650},
	}
	for _, c := range cases {
		if got := ScaleU16(c.raw, c.full); got != c.want {
			t.Fatalf("ScaleU16(%#x, %d) = %d, want %d", c.raw, c.full, got, c.want)
		}
	}
	if RoundDiv[uint32](7, 2) != 4 || RoundDiv[uint32](1, 0) != 0 {
		t.Fatal("RoundDiv mismatch")
	}
}
