package main

import (
	"errors"
	"net/http"

	"bazaar/internal/domain/catalog"
	"bazaar/internal/metrics"
)

type CreateSubcategoryPayload struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Icon        *string `json:"icon"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
	Featured    bool    `json:"featured"`
	Active      bool    `json:"active"`
	SortOrder   int     `json:"sort_order"`
}

type UpdateSubcategoryPayload struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Icon        *string `json:"icon"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
	Featured    *bool   `json:"featured"`
	Active      *bool   `json:"active"`
	SortOrder   *int    `json:"sort_order"`
}

func (app *application) createSubcategoryHandler(w http.ResponseWriter, r *http.Request) {
	categoryID, err := readIDParam(r, "categoryID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload CreateSubcategoryPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// Parent must exist; the FK would catch it anyway but this gives a 404
	// instead of a constraint violation.
	if _, err := app.store.Catalog.GetCategoryByID(r.Context(), categoryID); err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	sub := &catalog.Subcategory{
		Name:        payload.Name,
		Icon:        payload.Icon,
		Description: payload.Description,
		ImageURL:    payload.ImageURL,
		CategoryID:  categoryID,
		Featured:    payload.Featured,
		Active:      payload.Active,
		SortOrder:   payload.SortOrder,
	}

	created, err := app.store.Catalog.CreateSubcategory(r.Context(), sub)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, created); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) listSubcategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categoryID, err := readIDParam(r, "categoryID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	subs, err := app.store.Catalog.ListSubcategoriesByCategory(r.Context(), categoryID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, subs); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) updateSubcategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "subcategoryID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateSubcategoryPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	sub, err := app.store.Catalog.GetSubcategoryByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrSubcategoryNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if payload.Name != nil {
		sub.Name = *payload.Name
	}
	if payload.Icon != nil {
		sub.Icon = payload.Icon
	}
	if payload.Description != nil {
		sub.Description = payload.Description
	}
	if payload.ImageURL != nil {
		sub.ImageURL = payload.ImageURL
	}
	if payload.Featured != nil {
		sub.Featured = *payload.Featured
	}
	if payload.Active != nil {
		sub.Active = *payload.Active
	}
	if payload.SortOrder != nil {
		sub.SortOrder = *payload.SortOrder
	}

	updated, err := app.store.Catalog.UpdateSubcategory(r.Context(), sub)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, updated); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) subcategoryProductCountHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "subcategoryID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if _, err := app.store.Catalog.GetSubcategoryByID(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrSubcategoryNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	count, err := app.store.Catalog.CountProductsInSubcategory(r.Context(), id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	resp := map[string]any{"subcategory_id": id, "product_count": count}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteSubcategoryHandler godoc
//
//	@Summary		Delete a subcategory
//	@Description	Cascades to groups. Linked products block the delete (409)
//	@Description	unless force_delete or reassign_to_id is set.
//	@Tags			admin,catalog
//	@Accept			json
//	@Produce		json
//	@Param			subcategoryID	path		int						true	"Subcategory ID"
//	@Param			payload			body		DeleteCategoryPayload	false	"Deletion policy"
//	@Success		200				{object}	deleteOutcomeEnvelope
//	@Failure		409				{object}	deleteOutcomeEnvelope
//	@Security		BasicAuth
//	@Router			/admin/subcategories/{subcategoryID} [delete]
func (app *application) deleteSubcategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "subcategoryID")
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

	out, err := app.deleter().DeleteSubcategory(r.Context(), id, opts)
	if err != nil {
		metrics.RecordCatalogDelete("subcategory", "error")
		switch {
		case errors.Is(err, catalog.ErrSubcategoryNotFound):
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
		metrics.RecordCatalogDelete("subcategory", "blocked")
		if err := writeJSON(w, http.StatusConflict, deleteOutcomeResponse(out)); err != nil {
			app.internalServerError(w, r, err)
		}
		return
	}

	metrics.RecordCatalogDelete("subcategory", deleteOutcomeLabel(opts))
	if err := writeJSON(w, http.StatusOK, deleteOutcomeResponse(out)); err != nil {
		app.internalServerError(w, r, err)
	}
}
