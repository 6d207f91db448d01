package task

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDiff(t *testing.T) {
	prev := map[string]string{"title": "A", "description": "B"}

	tests := []struct {
		name string
		next map[string]string
		want map[string]string
	}{
		{
			name: "unchanged",
			next: map[string]string{"title": "A", "description": "B"},
			want: map[string]string{},
		},
		{
			name: "description only",
			next: map[string]string{"title": "A", "description": "C"},
			want: map[string]string{"description": "C"},
		},
		{
			name: "both",
			next: map[string]string{"title": "X", "description": "Y"},
			want: map[string]string{"title": "X", "description": "Y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(prev, tt.next)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
