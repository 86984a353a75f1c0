package roadnet

import "testing"

func TestFlipIsItsOwnInverse(t *testing.T) {
	for d := North; d <= West; d++ {
		flipped := Flip(d)
		if !flipped.Valid() {
			t.Fatalf("Flip(%v) produced invalid dir %v", d, flipped)
		}
		if flipped == d {
			t.Fatalf("Flip(%v) must change the slot", d)
		}
		if back := Flip(flipped); back != d {
			t.Fatalf("Flip(Flip(%v)) = %v, want %v", d, back, d)
		}
	}
}

func TestFlipRejectsInvalid(t *testing.T) {
	if got := Flip(DirNone); got != DirNone {
		t.Fatalf("Flip(DirNone) = %v, want DirNone", got)
	}
	if got := Flip(Dir(7)); got != DirNone {
		t.Fatalf("Flip(7) = %v, want DirNone", got)
	}
}

func TestRotations(t *testing.T) {
	cases := []struct {
		heading Dir
		right   Dir
		left    Dir
	}{
		{North, East, West},
		{East, South, North},
		{South, West, East},
		{West, North, South},
	}
	for _, tc := range cases {
		if got := rightOf(tc.heading); got != tc.right {
			t.Errorf("rightOf(%v) = %v, want %v", tc.heading, got, tc.right)
		}
		if got := leftOf(tc.heading); got != tc.left {
			t.Errorf("leftOf(%v) = %v, want %v", tc.heading, got, tc.left)
		}
	}
}

func TestDirString(t *testing.T) {
	if North.String() != "north" || West.String() != "west" {
		t.Fatalf("unexpected slot names: %s %s", North, West)
	}
	if DirNone.String() != "none" {
		t.Fatalf("DirNone.String() = %q", DirNone.String())
	}
}
