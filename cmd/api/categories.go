package main

import (
	"errors"
	"net/http"
	"strconv"

	"bazaar/internal/domain/catalog"
	"bazaar/internal/metrics"
	"bazaar/internal/params"

	"github.com/go-chi/chi/v5"
)

type CreateCategoryPayload struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Icon        *string `json:"icon"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
	Featured    bool    `json:"featured"`
	Active      bool    `json:"active"`
}

type UpdateCategoryPayload struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Icon        *string `json:"icon"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
	Featured    *bool   `json:"featured"`
	Active      *bool   `json:"active"`
}

// DeleteCategoryPayload selects what happens to linked products. Omit both
// fields to probe: the response then reports the product count without
// deleting anything.
type DeleteCategoryPayload struct {
	ForceDelete  bool   `json:"force_delete"`
	ReassignToID *int64 `json:"reassign_to_id"`
}

// deleteOutcomeEnvelope is the wire shape shared by all three hierarchy
// delete endpoints.
type deleteOutcomeEnvelope struct {
	Success              bool  `json:"success"`
	HasProducts          bool  `json:"has_products,omitempty"`
	ProductCount         int   `json:"product_count,omitempty"`
	ProductsReassigned   int64 `json:"products_reassigned,omitempty"`
	ProductsRemoved      int64 `json:"products_removed,omitempty"`
	SubcategoriesRemoved int64 `json:"subcategories_removed,omitempty"`
	GroupsRemoved        int64 `json:"groups_removed,omitempty"`
}

func deleteOutcomeResponse(out *catalog.DeleteOutcome) deleteOutcomeEnvelope {
	return deleteOutcomeEnvelope{
		Success:              out.Deleted,
		HasProducts:          out.HasProducts,
		ProductCount:         out.ProductCount,
		ProductsReassigned:   out.ProductsReassigned,
		ProductsRemoved:      out.ProductsRemoved,
		SubcategoriesRemoved: out.SubcategoriesRemoved,
		GroupsRemoved:        out.GroupsRemoved,
	}
}

func readIDParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func readStringParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// createCategoryHandler godoc
//
//	@Summary	Create a category
//	@Tags		admin,catalog
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		CreateCategoryPayload	true	"Category"
//	@Success	201		{object}	catalog.Category
//	@Security	BasicAuth
//	@Router		/admin/categories [post]
func (app *application) createCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateCategoryPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	category := &catalog.Category{
		Name:        payload.Name,
		Icon:        payload.Icon,
		Description: payload.Description,
		ImageURL:    payload.ImageURL,
		Featured:    payload.Featured,
		Active:      payload.Active,
	}

	created, err := app.store.Catalog.CreateCategory(r.Context(), category)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, created); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listCategoriesHandler godoc
//
//	@Summary	List categories
//	@Tags		catalog
//	@Produce	json
//	@Param		limit	query		int	false	"Page size"
//	@Param		page	query		int	false	"Page"
//	@Success	200		{object}	map[string]any
//	@Router		/catalog/categories [get]
func (app *application) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	p := params.ParsePagination(r.URL.Query())

	categories, total, err := app.store.Catalog.ListCategories(r.Context(), p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	resp := map[string]any{
		"categories": categories,
		"pagination": p,
	}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "categoryID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	category, err := app.store.Catalog.GetCategoryByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, category); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) updateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "categoryID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateCategoryPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	category, err := app.store.Catalog.GetCategoryByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if payload.Name != nil {
		category.Name = *payload.Name
	}
	if payload.Icon != nil {
		category.Icon = payload.Icon
	}
	if payload.Description != nil {
		category.Description = payload.Description
	}
	if payload.ImageURL != nil {
		category.ImageURL = payload.ImageURL
	}
	if payload.Featured != nil {
		category.Featured = *payload.Featured
	}
	if payload.Active != nil {
		category.Active = *payload.Active
	}

	updated, err := app.store.Catalog.UpdateCategory(r.Context(), category)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, updated); err != nil {
		app.internalServerError(w, r, err)
	}
}

// categoryProductCountHandler reports how many products reference the
// category directly. The admin UI calls this before offering delete options.
func (app *application) categoryProductCountHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "categoryID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if _, err := app.store.Catalog.GetCategoryByID(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	count, err := app.store.Catalog.CountProductsInCategory(r.Context(), id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	resp := map[string]any{"category_id": id, "product_count": count}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteCategoryHandler godoc
//
//	@Summary		Delete a category
//	@Description	Cascades to subcategories and groups. Linked products block
//	@Description	the delete (409) unless force_delete or reassign_to_id is set.
//	@Tags			admin,catalog
//	@Accept			json
//	@Produce		json
//	@Param			categoryID	path		int						true	"Category ID"
//	@Param			payload		body		DeleteCategoryPayload	false	"Deletion policy"
//	@Success		200			{object}	deleteOutcomeEnvelope
//	@Failure		409			{object}	deleteOutcomeEnvelope
//	@Security		BasicAuth
//	@Router			/admin/categories/{categoryID} [delete]
func (app *application) deleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "categoryID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload DeleteCategoryPayload
	if r.ContentLength > 0 {
		if err := readJSON(w, r, &payload); err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
	}

	opts := catalog.DeleteOptions{
		ForceDelete: payload.ForceDelete,
		ReassignTo:  payload.ReassignToID,
	}

	out, err := app.deleter().DeleteCategory(r.Context(), id, opts)
	if err != nil {
		metrics.RecordCatalogDelete("category", "error")
		switch {
		case errors.Is(err, catalog.ErrCategoryNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, catalog.ErrReassignIntoSelf),
			errors.Is(err, catalog.ErrReassignTargetNotFound):
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if !out.Deleted {
		// Linked products and no policy chosen: nothing was mutated.
		metrics.RecordCatalogDelete("category", "blocked")
		if err := writeJSON(w, http.StatusConflict, deleteOutcomeResponse(out)); err != nil {
			app.internalServerError(w, r, err)
		}
		return
	}

	metrics.RecordCatalogDelete("category", deleteOutcomeLabel(opts))
	if err := writeJSON(w, http.StatusOK, deleteOutcomeResponse(out)); err != nil {
		app.internalServerError(w, r, err)
	}
}

func deleteOutcomeLabel(opts catalog.DeleteOptions) string {
	switch {
	case opts.ReassignTo != nil:
		return "reassigned"
	case opts.ForceDelete:
		return "forced"
	default:
		return "deleted"
	}
}
