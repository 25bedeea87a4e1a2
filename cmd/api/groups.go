package main

import (
	"errors"
	"net/http"

	"bazaar/internal/domain/catalog"
	"bazaar/internal/metrics"
)

type CreateGroupPayload struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Icon        *string `json:"icon"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
	Featured    bool    `json:"featured"`
	Active      bool    `json:"active"`
	SortOrder   int     `json:"sort_order"`
}

func (app *application) createGroupHandler(w http.ResponseWriter, r *http.Request) {
	subcategoryID, err := readIDParam(r, "subcategoryID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload CreateGroupPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if _, err := app.store.Catalog.GetSubcategoryByID(r.Context(), subcategoryID); err != nil {
		if errors.Is(err, catalog.ErrSubcategoryNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	group := &catalog.Group{
		Name:          payload.Name,
		Icon:          payload.Icon,
		Description:   payload.Description,
		ImageURL:      payload.ImageURL,
		SubcategoryID: subcategoryID,
		Featured:      payload.Featured,
		Active:        payload.Active,
		SortOrder:     payload.SortOrder,
	}

	created, err := app.store.Catalog.CreateGroup(r.Context(), group)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, created); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) listGroupsHandler(w http.ResponseWriter, r *http.Request) {
	subcategoryID, err := readIDParam(r, "subcategoryID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	groups, err := app.store.Catalog.ListGroupsBySubcategory(r.Context(), subcategoryID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, groups); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) updateGroupHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "groupID")
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

	group, err := app.store.Catalog.GetGroupByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrGroupNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if payload.Name != nil {
		group.Name = *payload.Name
	}
	if payload.Icon != nil {
		group.Icon = payload.Icon
	}
	if payload.Description != nil {
		group.Description = payload.Description
	}
	if payload.ImageURL != nil {
		group.ImageURL = payload.ImageURL
	}
	if payload.Featured != nil {
		group.Featured = *payload.Featured
	}
	if payload.Active != nil {
		group.Active = *payload.Active
	}
	if payload.SortOrder != nil {
		group.SortOrder = *payload.SortOrder
	}

	updated, err := app.store.Catalog.UpdateGroup(r.Context(), group)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, updated); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) groupProductCountHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "groupID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if _, err := app.store.Catalog.GetGroupByID(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrGroupNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	count, err := app.store.Catalog.CountProductsInGroup(r.Context(), id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	resp := map[string]any{"group_id": id, "product_count": count}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) deleteGroupHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "groupID")
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

	out, err := app.deleter().DeleteGroup(r.Context(), id, opts)
	if err != nil {
		metrics.RecordCatalogDelete("group", "error")
		switch {
		case errors.Is(err, catalog.ErrGroupNotFound):
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
		metrics.RecordCatalogDelete("group", "blocked")
		if err := writeJSON(w, http.StatusConflict, deleteOutcomeResponse(out)); err != nil {
			app.internalServerError(w, r, err)
		}
		return
	}

	metrics.RecordCatalogDelete("group", deleteOutcomeLabel(opts))
	if err := writeJSON(w, http.StatusOK, deleteOutcomeResponse(out)); err != nil {
		app.internalServerError(w, r, err)
	}
}
