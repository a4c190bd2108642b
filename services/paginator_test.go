package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	cases := []struct {
		name      string
		total     int64
		number    int
		wantPage  int
		wantPages int
		offset    int
	}{
		{"first page", 13, 1, 1, 2, 0},
		{"second page", 13, 2, 2, 2, 10},
		{"past the end clamps to last", 13, 3, 2, 2, 10},
		{"zero normalises to first", 13, 0, 1, 2, 0},
		{"negative normalises to first", 13, -4, 1, 2, 0},
		{"empty scope has one page", 0, 5, 1, 1, 0},
		{"exact multiple", 20, 2, 2, 2, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Paginate(tc.total, DefaultPageSize, tc.number)
			assert.Equal(t, tc.wantPage, p.Number)
			assert.Equal(t, tc.wantPages, p.TotalPages)
			assert.Equal(t, tc.offset, p.Offset())
			assert.Equal(t, p.Number < p.TotalPages, p.HasNext)
			assert.Equal(t, p.Number > 1, p.HasPrevious)
		})
	}
}

func TestPaginateDefaultsSize(t *testing.T) {
	p := Paginate(25, 0, 3)
	assert.Equal(t, DefaultPageSize, p.Size)
	assert.Equal(t, 3, p.Number)
}
