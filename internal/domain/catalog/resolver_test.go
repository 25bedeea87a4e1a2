package catalog

import (
	"context"
	"testing"
)

func TestResolveCategoryID(t *testing.T) {
	f := newFakeStore()
	ctx := context.Background()

	c, _ := f.CreateCategory(ctx, &Category{Name: "Apparel"})
	s, _ := f.CreateSubcategory(ctx, &Subcategory{Name: "Shirts", CategoryID: c.ID})
	g, _ := f.CreateGroup(ctx, &Group{Name: "Oversized", SubcategoryID: s.ID})

	cid, sid, gid := c.ID, s.ID, g.ID

	tests := []struct {
		name    string
		product *Product
		wantID  int64
		linked  bool
	}{
		{"direct category link", &Product{CategoryID: &cid}, c.ID, true},
		{"via subcategory", &Product{SubcategoryID: &sid}, c.ID, true},
		{"via group", &Product{GroupID: &gid}, c.ID, true},
		{"unlinked", &Product{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, linked, err := ResolveCategoryID(ctx, f, tt.product)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if linked != tt.linked || got != tt.wantID {
				t.Fatalf("got (%d, %v), want (%d, %v)", got, linked, tt.wantID, tt.linked)
			}
		})
	}
}

func TestResolveCategoryIDDanglingSubcategory(t *testing.T) {
	f := newFakeStore()
	ctx := context.Background()

	missing := int64(404)
	_, _, err := ResolveCategoryID(ctx, f, &Product{SubcategoryID: &missing})
	if err == nil {
		t.Fatal("want error for dangling subcategory link")
	}
}
