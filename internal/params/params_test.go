package params

import (
	"net/url"
	"testing"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantPage   int
		wantOffset int
	}{
		{"defaults", "", 30, 1, 0},
		{"explicit", "limit=10&page=3", 10, 3, 20},
		{"limit capped", "limit=500", 100, 1, 0},
		{"limit zero falls back", "limit=0", 30, 1, 0},
		{"negative page ignored", "page=-2", 30, 1, 0},
		{"garbage ignored", "limit=abc&page=xyz", 30, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			p := ParsePagination(q)
			if p.Limit != tt.wantLimit || p.Page != tt.wantPage || p.Offset != tt.wantOffset {
				t.Fatalf("got limit=%d page=%d offset=%d, want %d/%d/%d",
					p.Limit, p.Page, p.Offset, tt.wantLimit, tt.wantPage, tt.wantOffset)
			}
		})
	}
}

func TestComputeMeta(t *testing.T) {
	p := Pagination{Limit: 10, Page: 2, Offset: 10}
	p.ComputeMeta(35)

	if p.TotalPages != 4 {
		t.Fatalf("TotalPages = %d, want 4", p.TotalPages)
	}
	if !p.HasPrev {
		t.Fatal("page 2 should have prev")
	}
	if !p.HasNext {
		t.Fatal("page 2 of 4 should have next")
	}

	p.Page = 4
	p.ComputeMeta(35)
	if p.HasNext {
		t.Fatal("last page should not have next")
	}
}
