package catalog

import (
	"context"
	"errors"
	"testing"

	"bazaar/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// fakeStore is an in-memory Store. WithTx snapshots the maps and restores
// them when fn fails, mimicking a rolled-back transaction. failOn lets a
// test make one named operation return a store error.
type fakeStore struct {
	categories    map[int64]*Category
	subcategories map[int64]*Subcategory
	groups        map[int64]*Group
	products      map[int64]*Product
	nextID        int64
	failOn        map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		categories:    make(map[int64]*Category),
		subcategories: make(map[int64]*Subcategory),
		groups:        make(map[int64]*Group),
		products:      make(map[int64]*Product),
		failOn:        make(map[string]error),
	}
}

func (f *fakeStore) fail(op string) error {
	if err, ok := f.failOn[op]; ok {
		return err
	}
	return nil
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) snapshot() *fakeStore {
	s := newFakeStore()
	s.nextID = f.nextID
	for k, v := range f.categories {
		c := *v
		s.categories[k] = &c
	}
	for k, v := range f.subcategories {
		sc := *v
		s.subcategories[k] = &sc
	}
	for k, v := range f.groups {
		g := *v
		s.groups[k] = &g
	}
	for k, v := range f.products {
		p := *v
		s.products[k] = &p
	}
	return s
}

func (f *fakeStore) restore(s *fakeStore) {
	f.categories = s.categories
	f.subcategories = s.subcategories
	f.groups = s.groups
	f.products = s.products
	f.nextID = s.nextID
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(Store) error) error {
	snap := f.snapshot()
	if err := fn(f); err != nil {
		f.restore(snap)
		return err
	}
	return nil
}

func (f *fakeStore) CreateCategory(ctx context.Context, c *Category) (*Category, error) {
	cp := *c
	cp.ID = f.id()
	f.categories[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeStore) GetCategoryByID(ctx context.Context, id int64) (*Category, error) {
	if err := f.fail("GetCategoryByID"); err != nil {
		return nil, err
	}
	c, ok := f.categories[id]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	return c, nil
}

func (f *fakeStore) ListCategories(ctx context.Context, limit, offset int) ([]*Category, int, error) {
	var out []*Category
	for _, c := range f.categories {
		out = append(out, c)
	}
	return out, len(out), nil
}

func (f *fakeStore) UpdateCategory(ctx context.Context, c *Category) (*Category, error) {
	if _, ok := f.categories[c.ID]; !ok {
		return nil, ErrCategoryNotFound
	}
	cp := *c
	f.categories[c.ID] = &cp
	return &cp, nil
}

func (f *fakeStore) DeleteCategory(ctx context.Context, id int64) error {
	if err := f.fail("DeleteCategory"); err != nil {
		return err
	}
	if _, ok := f.categories[id]; !ok {
		return ErrCategoryNotFound
	}
	delete(f.categories, id)
	return nil
}

func (f *fakeStore) CreateSubcategory(ctx context.Context, s *Subcategory) (*Subcategory, error) {
	cp := *s
	cp.ID = f.id()
	f.subcategories[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeStore) GetSubcategoryByID(ctx context.Context, id int64) (*Subcategory, error) {
	s, ok := f.subcategories[id]
	if !ok {
		return nil, ErrSubcategoryNotFound
	}
	return s, nil
}

func (f *fakeStore) ListSubcategoriesByCategory(ctx context.Context, categoryID int64) ([]*Subcategory, error) {
	var out []*Subcategory
	for _, s := range f.subcategories {
		if s.CategoryID == categoryID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateSubcategory(ctx context.Context, s *Subcategory) (*Subcategory, error) {
	if _, ok := f.subcategories[s.ID]; !ok {
		return nil, ErrSubcategoryNotFound
	}
	cp := *s
	f.subcategories[s.ID] = &cp
	return &cp, nil
}

func (f *fakeStore) DeleteSubcategory(ctx context.Context, id int64) error {
	if _, ok := f.subcategories[id]; !ok {
		return ErrSubcategoryNotFound
	}
	delete(f.subcategories, id)
	return nil
}

func (f *fakeStore) CreateGroup(ctx context.Context, g *Group) (*Group, error) {
	cp := *g
	cp.ID = f.id()
	f.groups[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeStore) GetGroupByID(ctx context.Context, id int64) (*Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, ErrGroupNotFound
	}
	return g, nil
}

func (f *fakeStore) ListGroupsBySubcategory(ctx context.Context, subcategoryID int64) ([]*Group, error) {
	var out []*Group
	for _, g := range f.groups {
		if g.SubcategoryID == subcategoryID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateGroup(ctx context.Context, g *Group) (*Group, error) {
	if _, ok := f.groups[g.ID]; !ok {
		return nil, ErrGroupNotFound
	}
	cp := *g
	f.groups[g.ID] = &cp
	return &cp, nil
}

func (f *fakeStore) DeleteGroup(ctx context.Context, id int64) error {
	if _, ok := f.groups[id]; !ok {
		return ErrGroupNotFound
	}
	delete(f.groups, id)
	return nil
}

func (f *fakeStore) CreateProduct(ctx context.Context, p *Product) (*Product, error) {
	cp := *p
	cp.ID = f.id()
	f.products[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeStore) GetProductByID(ctx context.Context, id int64) (*Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (f *fakeStore) ListProducts(ctx context.Context, onlyActive bool, limit, offset int) ([]*Product, int, error) {
	var out []*Product
	for _, p := range f.products {
		if !onlyActive || p.Active {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

func (f *fakeStore) UpdateProduct(ctx context.Context, p *Product) (*Product, error) {
	if _, ok := f.products[p.ID]; !ok {
		return nil, ErrProductNotFound
	}
	cp := *p
	f.products[p.ID] = &cp
	return &cp, nil
}

func (f *fakeStore) DeleteProduct(ctx context.Context, id int64) error {
	if _, ok := f.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeStore) HasProductsInCategory(ctx context.Context, categoryID int64) (bool, error) {
	if err := f.fail("HasProductsInCategory"); err != nil {
		return false, err
	}
	for _, p := range f.products {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CountProductsInCategory(ctx context.Context, categoryID int64) (int, error) {
	if err := f.fail("CountProductsInCategory"); err != nil {
		return 0, err
	}
	n := 0
	for _, p := range f.products {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CountProductsInSubcategory(ctx context.Context, subcategoryID int64) (int, error) {
	n := 0
	for _, p := range f.products {
		if p.SubcategoryID != nil && *p.SubcategoryID == subcategoryID {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CountProductsInGroup(ctx context.Context, groupID int64) (int, error) {
	n := 0
	for _, p := range f.products {
		if p.GroupID != nil && *p.GroupID == groupID {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) ReassignProductsByCategory(ctx context.Context, fromID, toID int64) (int64, error) {
	if err := f.fail("ReassignProductsByCategory"); err != nil {
		return 0, err
	}
	var n int64
	for _, p := range f.products {
		if p.CategoryID != nil && *p.CategoryID == fromID {
			to := toID
			p.CategoryID = &to
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) DeleteProductsByCategory(ctx context.Context, categoryID int64) (int64, error) {
	if err := f.fail("DeleteProductsByCategory"); err != nil {
		return 0, err
	}
	var n int64
	for id, p := range f.products {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			delete(f.products, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) ReassignProductsBySubcategory(ctx context.Context, fromID, toID int64) (int64, error) {
	var n int64
	for _, p := range f.products {
		if p.SubcategoryID != nil && *p.SubcategoryID == fromID {
			to := toID
			p.SubcategoryID = &to
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) DeleteProductsBySubcategory(ctx context.Context, subcategoryID int64) (int64, error) {
	var n int64
	for id, p := range f.products {
		if p.SubcategoryID != nil && *p.SubcategoryID == subcategoryID {
			delete(f.products, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) ReassignProductsByGroup(ctx context.Context, fromID, toID int64) (int64, error) {
	var n int64
	for _, p := range f.products {
		if p.GroupID != nil && *p.GroupID == fromID {
			to := toID
			p.GroupID = &to
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) DeleteProductsByGroup(ctx context.Context, groupID int64) (int64, error) {
	var n int64
	for id, p := range f.products {
		if p.GroupID != nil && *p.GroupID == groupID {
			delete(f.products, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) DeleteGroupsByCategory(ctx context.Context, categoryID int64) (int64, error) {
	if err := f.fail("DeleteGroupsByCategory"); err != nil {
		return 0, err
	}
	var n int64
	for id, g := range f.groups {
		sub, ok := f.subcategories[g.SubcategoryID]
		if ok && sub.CategoryID == categoryID {
			delete(f.groups, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) DeleteGroupsBySubcategory(ctx context.Context, subcategoryID int64) (int64, error) {
	var n int64
	for id, g := range f.groups {
		if g.SubcategoryID == subcategoryID {
			delete(f.groups, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) DeleteSubcategoriesByCategory(ctx context.Context, categoryID int64) (int64, error) {
	if err := f.fail("DeleteSubcategoriesByCategory"); err != nil {
		return 0, err
	}
	var n int64
	for id, s := range f.subcategories {
		if s.CategoryID == categoryID {
			delete(f.subcategories, id)
			n++
		}
	}
	return n, nil
}

// seedHierarchy builds: category C1 with subcategory S1 (one group G1) and
// two products linked directly to C1, plus an empty category C2 and one
// unrelated product in C2.
func seedHierarchy(t *testing.T, f *fakeStore) (c1, c2 *Category, s1 *Subcategory, g1 *Group, prods []*Product) {
	t.Helper()
	ctx := context.Background()

	c1, _ = f.CreateCategory(ctx, &Category{Name: "Apparel", Active: true})
	c2, _ = f.CreateCategory(ctx, &Category{Name: "Homeware", Active: true})
	s1, _ = f.CreateSubcategory(ctx, &Subcategory{Name: "Shirts", CategoryID: c1.ID, Active: true})
	g1, _ = f.CreateGroup(ctx, &Group{Name: "Oversized", SubcategoryID: s1.ID, Active: true})

	for _, name := range []string{"tee", "hoodie"} {
		cid := c1.ID
		p, _ := f.CreateProduct(ctx, &Product{Name: name, CategoryID: &cid, Active: true})
		prods = append(prods, p)
	}
	other := c2.ID
	p, _ := f.CreateProduct(ctx, &Product{Name: "mug", CategoryID: &other, Active: true})
	prods = append(prods, p)
	return c1, c2, s1, g1, prods
}

func TestDeleteCategoryEmptyCascades(t *testing.T) {
	f := newFakeStore()
	ctx := context.Background()

	c, _ := f.CreateCategory(ctx, &Category{Name: "Empty"})
	s, _ := f.CreateSubcategory(ctx, &Subcategory{Name: "Sub", CategoryID: c.ID})
	g, _ := f.CreateGroup(ctx, &Group{Name: "Grp", SubcategoryID: s.ID})

	out, err := NewCoordinator(f).DeleteCategory(ctx, c.ID, DeleteOptions{})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !out.Deleted || out.HasProducts {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if out.SubcategoriesRemoved != 1 || out.GroupsRemoved != 1 {
		t.Fatalf("cascade counts wrong: %+v", out)
	}
	if _, ok := f.categories[c.ID]; ok {
		t.Error("category still present")
	}
	if _, ok := f.subcategories[s.ID]; ok {
		t.Error("subcategory orphaned")
	}
	if _, ok := f.groups[g.ID]; ok {
		t.Error("group orphaned")
	}
}

func TestDeleteCategorySoftFailureWithoutPolicy(t *testing.T) {
	f := newFakeStore()
	ctx := context.Background()
	c1, _, s1, _, _ := seedHierarchy(t, f)

	out, err := NewCoordinator(f).DeleteCategory(ctx, c1.ID, DeleteOptions{})
	if err != nil {
		t.Fatalf("soft failure must not be an error: %v", err)
	}
	if out.Deleted {
		t.Fatal("category was deleted despite linked products")
	}
	if !out.HasProducts || out.ProductCount != 2 {
		t.Fatalf("want HasProducts with count 2, got %+v", out)
	}
	if _, ok := f.categories[c1.ID]; !ok {
		t.Error("category removed on soft failure")
	}
	if _, ok := f.subcategories[s1.ID]; !ok {
		t.Error("subcategory removed on soft failure")
	}
	if len(f.products) != 3 {
		t.Errorf("products mutated: have %d, want 3", len(f.products))
	}
}

func TestDeleteCategoryReassign(t *testing.T) {
	f := newFakeStore()
	ctx := context.Background()
	c1, c2, s1, g1, _ := seedHierarchy(t, f)

	out, err := NewCoordinator(f).DeleteCategory(ctx, c1.ID, DeleteOptions{ReassignTo: &c2.ID})
	if err != nil {
		t.Fatalf("delete with reassign: %v", err)
	}
	if !out.Deleted || out.ProductsReassigned != 2 {
		t.Fatalf("unexpected outcome: %+v", out)
	}

	for _, p := range f.products {
		if p.CategoryID == nil {
			t.Fatal("product lost its category")
		}
		if *p.CategoryID == c1.ID {
			t.Fatal("product still references deleted category")
		}
		if *p.CategoryID != c2.ID {
			t.Fatalf("unexpected category %d", *p.CategoryID)
		}
	}
	if len(f.products) != 3 {
		t.Errorf("reassignment changed product count: %d", len(f.products))
	}
	if _, ok := f.categories[c1.ID]; ok {
		t.Error("category still present")
	}
	if _, ok := f.subcategories[s1.ID]; ok {
		t.Error("subcategory still present")
	}
	if _, ok := f.groups[g1.ID]; ok {
		t.Error("group still present")
	}
}

func TestDeleteCategoryForce(t *testing.T) {
	f := newFakeStore()
	ctx := context.Background()
	c1, c2, s1, _, _ := seedHierarchy(t, f)

	out, err := NewCoordinator(f).DeleteCategory(ctx, c1.ID, DeleteOptions{ForceDelete: true})
	if err != nil {
		t.Fatalf("force delete: %v", err)
	}
	if !out.Deleted || out.ProductsRemoved != 2 {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if len(f.products) != 1 {
		t.Fatalf("want only the unrelated product to survive, have %d", len(f.products))
	}
	for _, p := range f.products {
		if *p.CategoryID != c2.ID {
			t.Error("unrelated product was touched")
		}
	}
	if _, ok := f.subcategories[s1.ID]; ok {
		t.Error("subcategory still present")
	}
}

func TestDeleteCategoryObservesCascadeDuration(t *testing.T) {
	f := newFakeStore()
	ctx := context.Background()
	c, _ := f.CreateCategory(ctx, &Category{Name: "Timed"})

	metrics.DBOperationDuration.Reset()

	if _, err := NewCoordinator(f).DeleteCategory(ctx, c.ID, DeleteOptions{}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := testutil.CollectAndCount(metrics.DBOperationDuration); got != 1 {
		t.Fatalf("duration series = %d, want 1", got)
	}
}

func TestDeleteCategoryTwiceFails(t *testing.T) {
	f := newFakeStore()
	ctx := context.Background()
	c, _ := f.CreateCategory(ctx, &Category{Name: "Once"})

	co := NewCoordinator(f)
	if _, err := co.DeleteCategory(ctx, c.ID, DeleteOptions{}); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	_, err := co.DeleteCategory(ctx, c.ID, DeleteOptions{})
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("second delete: want ErrCategoryNotFound, got %v", err)
	}
}

func TestDeleteCategoryCheckerErrorAborts(t *testing.T) {
	f := newFakeStore()
	ctx := context.Background()
	c1, _, s1, _, _ := seedHierarchy(t, f)

	boom := errors.New("store unavailable")
	f.failOn["HasProductsInCategory"] = boom

	_, err := NewCoordinator(f).DeleteCategory(ctx, c1.ID, DeleteOptions{ForceDelete: true})
	if !errors.Is(err, boom) {
		t.Fatalf("want checker error, got %v", err)
	}
	if _, ok := f.categories[c1.ID]; !ok {
		t.Error("category mutated despite failed check")
	}
	if _, ok := f.subcategories[s1.ID]; !ok {
		t.Error("subcategory mutated despite failed check")
	}
	if len(f.products) != 3 {
		t.Error("products mutated despite failed check")
	}
}

// With a policy chosen, the pre-check only needs to know whether products
// exist; the count query is reserved for the refusal response. A failing
// count must therefore not block a force delete.
func TestDeleteCategoryForceSkipsProductCount(t *testing.T) {
	f := newFakeStore()
	ctx := context.Background()
	c1, _, _, _, _ := seedHierarchy(t, f)

	f.failOn["CountProductsInCategory"] = errors.New("count unavailable")

	out, err := NewCoordinator(f).DeleteCategory(ctx, c1.ID, DeleteOptions{ForceDelete: true})
	if err != nil {
		t.Fatalf("force delete: %v", err)
	}
	if !out.Deleted || out.ProductsRemoved != 2 {
		t.Fatalf("unexpected outcome: %+v", out)
	}

	// Without a policy the refusal still surfaces the count error.
	c3, _ := f.CreateCategory(ctx, &Category{Name: "Stationery"})
	cid := c3.ID
	f.CreateProduct(ctx, &Product{Name: "pen", CategoryID: &cid, Active: true})
	if _, err := NewCoordinator(f).DeleteCategory(ctx, c3.ID, DeleteOptions{}); err == nil {
		t.Fatal("want count error on refusal path")
	}
}

func TestDeleteCategoryMidCascadeErrorRollsBack(t *testing.T) {
	f := newFakeStore()
	ctx := context.Background()
	c1, _, s1, g1, _ := seedHierarchy(t, f)

	boom := errors.New("connection reset")
	f.failOn["DeleteSubcategoriesByCategory"] = boom

	_, err := NewCoordinator(f).DeleteCategory(ctx, c1.ID, DeleteOptions{ForceDelete: true})
	if !errors.Is(err, boom) {
		t.Fatalf("want injected error, got %v", err)
	}

	// Whole cascade rolled back: products, groups, subcategories and the
	// category are all back in place.
	if len(f.products) != 3 {
		t.Errorf("products not restored: %d", len(f.products))
	}
	if _, ok := f.groups[g1.ID]; !ok {
		t.Error("group not restored")
	}
	if _, ok := f.subcategories[s1.ID]; !ok {
		t.Error("subcategory not restored")
	}
	if _, ok := f.categories[c1.ID]; !ok {
		t.Error("category not restored")
	}
}

func TestDeleteCategoryReassignValidation(t *testing.T) {
	f := newFakeStore()
	ctx := context.Background()
	c1, _, _, _, _ := seedHierarchy(t, f)
	co := NewCoordinator(f)

	if _, err := co.DeleteCategory(ctx, c1.ID, DeleteOptions{ReassignTo: &c1.ID}); !errors.Is(err, ErrReassignIntoSelf) {
		t.Fatalf("want ErrReassignIntoSelf, got %v", err)
	}

	missing := int64(9999)
	if _, err := co.DeleteCategory(ctx, c1.ID, DeleteOptions{ReassignTo: &missing}); !errors.Is(err, ErrReassignTargetNotFound) {
		t.Fatalf("want ErrReassignTargetNotFound, got %v", err)
	}

	if _, ok := f.categories[c1.ID]; !ok {
		t.Error("category mutated by rejected reassignment")
	}
}

func TestDeleteSubcategoryCascadesGroups(t *testing.T) {
	f := newFakeStore()
	ctx := context.Background()
	_, _, s1, g1, _ := seedHierarchy(t, f)

	sid := s1.ID
	p, _ := f.CreateProduct(ctx, &Product{Name: "linked", SubcategoryID: &sid, Active: true})

	co := NewCoordinator(f)

	out, err := co.DeleteSubcategory(ctx, s1.ID, DeleteOptions{})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !out.HasProducts || out.ProductCount != 1 {
		t.Fatalf("want soft failure with count 1, got %+v", out)
	}

	out, err = co.DeleteSubcategory(ctx, s1.ID, DeleteOptions{ForceDelete: true})
	if err != nil {
		t.Fatalf("force delete: %v", err)
	}
	if !out.Deleted || out.GroupsRemoved != 1 || out.ProductsRemoved != 1 {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if _, ok := f.groups[g1.ID]; ok {
		t.Error("group orphaned")
	}
	if _, ok := f.products[p.ID]; ok {
		t.Error("linked product survived force delete")
	}
}

func TestDeleteGroupReassign(t *testing.T) {
	f := newFakeStore()
	ctx := context.Background()
	_, _, s1, g1, _ := seedHierarchy(t, f)

	g2, _ := f.CreateGroup(ctx, &Group{Name: "Slim", SubcategoryID: s1.ID})
	gid := g1.ID
	p, _ := f.CreateProduct(ctx, &Product{Name: "linked", GroupID: &gid, Active: true})

	out, err := NewCoordinator(f).DeleteGroup(ctx, g1.ID, DeleteOptions{ReassignTo: &g2.ID})
	if err != nil {
		t.Fatalf("delete with reassign: %v", err)
	}
	if !out.Deleted || out.ProductsReassigned != 1 {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if got := f.products[p.ID]; got.GroupID == nil || *got.GroupID != g2.ID {
		t.Error("product not moved to target group")
	}
}
