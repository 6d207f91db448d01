package task

import (
	"math"
	"testing"
)

func TestParsePositive(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 5},
		{"3", 3},
		{"0", 5},
		{"-2", 5},
		{"abc", 5},
		{"2.5", 5},
		{"1000", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := ParsePositive(tt.raw, 5); got != tt.want {
				t.Errorf("ParsePositive(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	if got := Offset(1, 5); got != 0 {
		t.Errorf("Offset(1, 5) = %d, want 0", got)
	}
	if got := Offset(3, 5); got != 10 {
		t.Errorf("Offset(3, 5) = %d, want 10", got)
	}
	if got := Offset(math.MaxInt, 10); got != math.MaxInt {
		t.Errorf("Offset overflow = %d, want MaxInt", got)
	}
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		limit     int
		wantPages int
	}{
		{"empty", 0, 5, 0},
		{"exact", 10, 5, 2},
		{"remainder", 12, 5, 3},
		{"single", 1, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.total, 2, tt.limit)
			if p.Pages != tt.wantPages {
				t.Errorf("Pages = %d, want %d", p.Pages, tt.wantPages)
			}
			if p.Total != tt.total || p.Page != 2 {
				t.Errorf("unexpected pagination %+v", p)
			}
		})
	}
}
