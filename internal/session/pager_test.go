package session

import "testing"

func TestPagerTotalPages(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 1},
		{1, 1},
		{9, 1},
		{10, 1},
		{11, 2},
		{20, 2},
		{21, 3},
	}
	p := NewPager()
	for _, tt := range tests {
		if got := p.TotalPages(tt.n); got != tt.want {
			t.Errorf("TotalPages(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestPagerNavigation(t *testing.T) {
	p := NewPager()
	p.Next(25) // -> 2
	p.Next(25) // -> 3
	p.Next(25) // stays, last page
	if p.Page() != 3 {
		t.Fatalf("expected page 3, got %d", p.Page())
	}
	p.Prev()
	p.Prev()
	p.Prev() // stays, first page
	if p.Page() != 1 {
		t.Fatalf("expected page 1, got %d", p.Page())
	}
}

func TestPagerClampAfterShrink(t *testing.T) {
	p := NewPager()
	p.Goto(3, 25)
	if p.Page() != 3 {
		t.Fatalf("expected page 3, got %d", p.Page())
	}
	p.Clamp(10)
	if p.Page() != 1 {
		t.Fatalf("expected clamp to page 1, got %d", p.Page())
	}
	p.Clamp(0)
	if p.Page() != 1 {
		t.Fatalf("empty collection must clamp to page 1, got %d", p.Page())
	}
}

func TestPagerGotoClamps(t *testing.T) {
	p := NewPager()
	p.Goto(99, 15)
	if p.Page() != 2 {
		t.Fatalf("expected clamp to page 2, got %d", p.Page())
	}
	p.Goto(0, 15)
	if p.Page() != 1 {
		t.Fatalf("expected clamp to page 1, got %d", p.Page())
	}
}

func TestSliceWindows(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i
	}
	p := NewPager()

	if got := Slice(p, items); len(got) != 10 || got[0] != 0 {
		t.Fatalf("unexpected first page %v", got)
	}
	p.Next(len(items))
	if got := Slice(p, items); len(got) != 10 || got[0] != 10 {
		t.Fatalf("unexpected second page %v", got)
	}
	p.Next(len(items))
	if got := Slice(p, items); len(got) != 3 || got[0] != 20 {
		t.Fatalf("unexpected last page %v", got)
	}

	// Shrinking the collection pulls the window back into range.
	if got := Slice(p, items[:5]); len(got) != 5 || got[0] != 0 {
		t.Fatalf("unexpected clamped window %v", got)
	}
	if got := Slice(p, []int(nil)); got != nil {
		t.Fatalf("expected nil window for empty collection, got %v", got)
	}
}
