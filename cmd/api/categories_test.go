package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bazaar/internal/domain/catalog"
	"bazaar/internal/domain/storage"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// stubCatalog overrides only what the delete handler exercises; calling
// anything else panics through the embedded nil interface, which is exactly
// what a test wants.
type stubCatalog struct {
	catalog.Store

	productCount int
	categories   map[int64]*catalog.Category

	deletedCategory bool
	reassigned      int64
}

func (s *stubCatalog) HasProductsInCategory(ctx context.Context, categoryID int64) (bool, error) {
	return s.productCount > 0, nil
}

func (s *stubCatalog) CountProductsInCategory(ctx context.Context, categoryID int64) (int, error) {
	return s.productCount, nil
}

func (s *stubCatalog) GetCategoryByID(ctx context.Context, id int64) (*catalog.Category, error) {
	c, ok := s.categories[id]
	if !ok {
		return nil, catalog.ErrCategoryNotFound
	}
	return c, nil
}

func (s *stubCatalog) WithTx(ctx context.Context, fn func(catalog.Store) error) error {
	return fn(s)
}

func (s *stubCatalog) ReassignProductsByCategory(ctx context.Context, fromID, toID int64) (int64, error) {
	s.reassigned = int64(s.productCount)
	return s.reassigned, nil
}

func (s *stubCatalog) DeleteGroupsByCategory(ctx context.Context, categoryID int64) (int64, error) {
	return 0, nil
}

func (s *stubCatalog) DeleteSubcategoriesByCategory(ctx context.Context, categoryID int64) (int64, error) {
	return 1, nil
}

func (s *stubCatalog) DeleteCategory(ctx context.Context, id int64) error {
	if _, ok := s.categories[id]; !ok {
		return catalog.ErrCategoryNotFound
	}
	delete(s.categories, id)
	s.deletedCategory = true
	return nil
}

func newTestApp(stub *stubCatalog) *application {
	return &application{
		logger: zap.NewNop().Sugar(),
		store:  &storage.Container{Catalog: stub},
	}
}

func deleteCategoryRequest(t *testing.T, app *application, id string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(http.MethodDelete, "/v1/admin/categories/"+id, bytes.NewBufferString(body))
	} else {
		req = httptest.NewRequest(http.MethodDelete, "/v1/admin/categories/"+id, nil)
	}

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("categoryID", id)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rr := httptest.NewRecorder()
	app.deleteCategoryHandler(rr, req)
	return rr
}

func TestDeleteCategoryBlockedReturns409(t *testing.T) {
	stub := &stubCatalog{
		productCount: 4,
		categories:   map[int64]*catalog.Category{1: {ID: 1, Name: "Mugs"}},
	}
	app := newTestApp(stub)

	rr := deleteCategoryRequest(t, app, "1", "")

	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rr.Code)
	}

	var resp deleteOutcomeEnvelope
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Success {
		t.Fatal("blocked delete must not report success")
	}
	if !resp.HasProducts || resp.ProductCount != 4 {
		t.Fatalf("resp = %+v, want has_products with count 4", resp)
	}
	if stub.deletedCategory {
		t.Fatal("blocked delete must not mutate the store")
	}
}

func TestDeleteCategoryEmptySucceeds(t *testing.T) {
	stub := &stubCatalog{
		categories: map[int64]*catalog.Category{1: {ID: 1, Name: "Mugs"}},
	}
	app := newTestApp(stub)

	rr := deleteCategoryRequest(t, app, "1", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp deleteOutcomeEnvelope
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Fatal("empty category delete should succeed")
	}
	if !stub.deletedCategory {
		t.Fatal("category row was not deleted")
	}
}

func TestDeleteCategoryWithReassignment(t *testing.T) {
	stub := &stubCatalog{
		productCount: 2,
		categories: map[int64]*catalog.Category{
			1: {ID: 1, Name: "Mugs"},
			2: {ID: 2, Name: "Cups"},
		},
	}
	app := newTestApp(stub)

	rr := deleteCategoryRequest(t, app, "1", `{"reassign_to_id": 2}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp deleteOutcomeEnvelope
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.ProductsReassigned != 2 {
		t.Fatalf("resp = %+v, want success with 2 reassigned", resp)
	}
}

func TestDeleteCategoryReassignToMissingTarget(t *testing.T) {
	stub := &stubCatalog{
		productCount: 2,
		categories:   map[int64]*catalog.Category{1: {ID: 1, Name: "Mugs"}},
	}
	app := newTestApp(stub)

	rr := deleteCategoryRequest(t, app, "1", `{"reassign_to_id": 99}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestDeleteCategoryNotFound(t *testing.T) {
	stub := &stubCatalog{
		categories: map[int64]*catalog.Category{},
	}
	app := newTestApp(stub)

	rr := deleteCategoryRequest(t, app, "7", "")

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}
