package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-backoffice/pkg/render"
)

func TestPageWindow(t *testing.T) {
	cases := []struct {
		name    string
		current int
		total   int
		want    []int
	}{
		{name: "no pages", current: 1, total: 0, want: nil},
		{name: "single page", current: 1, total: 1, want: []int{1}},
		{name: "fits entirely", current: 2, total: 4, want: []int{1, 2, 3, 4}},
		{name: "centred on current", current: 6, total: 20, want: []int{4, 5, 6, 7, 8}},
		{name: "clamped at start", current: 1, total: 20, want: []int{1, 2, 3, 4, 5}},
		{name: "window sticks to last page", current: 10, total: 12, want: []int{8, 9, 10, 11, 12}},
		{name: "current beyond range", current: 12, total: 10, want: []int{6, 7, 8, 9, 10}},
		{name: "near end keeps width", current: 10, total: 10, want: []int{6, 7, 8, 9, 10}},
		{name: "current below range", current: 0, total: 3, want: []int{1, 2, 3}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := render.PageWindow(tc.current, tc.total)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("PageWindow(%d, %d) mismatch (-want +got):\n%s", tc.current, tc.total, diff)
			}
		})
	}
}
