package layout

import "testing"

func TestPlace_KnownValues(t *testing.T) {
	tests := []struct {
		n    int
		want Cell
	}{
		{n: 0, want: Cell{X: 0, Y: 0}},
		{n: 1, want: Cell{X: 1, Y: 0}},
		{n: 2, want: Cell{X: 1, Y: 1}},
		{n: 3, want: Cell{X: 0, Y: 1}},
		{n: 4, want: Cell{X: -1, Y: 1}},
		{n: 5, want: Cell{X: -1, Y: 0}},
		{n: 6, want: Cell{X: -1, Y: -1}},
		{n: 7, want: Cell{X: 0, Y: -1}},
		{n: 8, want: Cell{X: 1, Y: -1}},
		{n: 9, want: Cell{X: 2, Y: -1}},
	}

	for _, tt := range tests {
		got := Place(tt.n)
		want := tt.want.Add(Origin)
		if got != want {
			t.Fatalf("Place(%d) = %+v, want %+v", tt.n, got, want)
		}
	}
}

func TestPlace_ZeroIsOrigin(t *testing.T) {
	if got := Place(0); got != Origin {
		t.Fatalf("Place(0) = %+v, want %+v", got, Origin)
	}
}

func TestSpiral_NoCollisions(t *testing.T) {
	const count = 10001

	cells := Spiral(count)
	if len(cells) != count {
		t.Fatalf("len(Spiral) = %d, want %d", len(cells), count)
	}

	seen := make(map[Cell]int, count)
	for i, c := range cells {
		if prev, ok := seen[c]; ok {
			t.Fatalf("cell %+v used by %d and %d", c, prev, i)
		}
		seen[c] = i
	}
}

func TestSpiral_MatchesPlace(t *testing.T) {
	cells := Spiral(200)
	for i, c := range cells {
		if p := Place(i); p != c {
			t.Fatalf("Spiral()[%d] = %+v, Place(%d) = %+v", i, c, i, p)
		}
	}
}

func TestPlace_Idempotent(t *testing.T) {
	for _, n := range []int{0, 17, 250, 999} {
		if Place(n) != Place(n) {
			t.Fatalf("Place(%d) is not deterministic", n)
		}
	}
}

func TestSpiral_Empty(t *testing.T) {
	if cells := Spiral(0); cells != nil {
		t.Fatalf("Spiral(0) = %v, want nil", cells)
	}
}
