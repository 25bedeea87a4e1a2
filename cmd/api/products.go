package main

import (
	"errors"
	"net/http"
	"strconv"

	"bazaar/internal/domain/catalog"
	"bazaar/internal/params"
)

type CreateProductPayload struct {
	Name          string   `json:"name" validate:"required,min=2,max=200"`
	PriceCents    int64    `json:"price_cents" validate:"required,gt=0"`
	OldPriceCents *int64   `json:"old_price_cents" validate:"omitempty,gt=0"`
	Discount      *int     `json:"discount" validate:"omitempty,gte=0,lte=100"`
	Stock         int      `json:"stock" validate:"gte=0"`
	Image         *string  `json:"image" validate:"omitempty,url"`
	Images        []string `json:"images" validate:"omitempty,dive,url"`
	CategoryID    *int64   `json:"category_id"`
	SubcategoryID *int64   `json:"subcategory_id"`
	GroupID       *int64   `json:"group_id"`
	Active        bool     `json:"active"`
	Featured      bool     `json:"featured"`
	Popular       bool     `json:"popular"`
}

type UpdateProductPayload struct {
	Name          *string  `json:"name" validate:"omitempty,min=2,max=200"`
	PriceCents    *int64   `json:"price_cents" validate:"omitempty,gt=0"`
	OldPriceCents *int64   `json:"old_price_cents" validate:"omitempty,gt=0"`
	Discount      *int     `json:"discount" validate:"omitempty,gte=0,lte=100"`
	Stock         *int     `json:"stock" validate:"omitempty,gte=0"`
	Image         *string  `json:"image" validate:"omitempty,url"`
	Images        []string `json:"images" validate:"omitempty,dive,url"`
	CategoryID    *int64   `json:"category_id"`
	SubcategoryID *int64   `json:"subcategory_id"`
	GroupID       *int64   `json:"group_id"`
	Active        *bool    `json:"active"`
	Featured      *bool    `json:"featured"`
	Popular       *bool    `json:"popular"`
}

// productView decorates a product with its resolved ancestor category for
// the admin list. Resolution walks subcategory/group links when the product
// does not carry category_id directly; it is display-only and never feeds
// the deletion workflow.
type productView struct {
	*catalog.Product
	ResolvedCategoryID *int64 `json:"resolved_category_id,omitempty"`
}

func (app *application) createProductHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateProductPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	product := &catalog.Product{
		Name:          payload.Name,
		PriceCents:    payload.PriceCents,
		OldPriceCents: payload.OldPriceCents,
		Discount:      payload.Discount,
		Stock:         payload.Stock,
		InStock:       payload.Stock > 0,
		Image:         payload.Image,
		Images:        payload.Images,
		CategoryID:    payload.CategoryID,
		SubcategoryID: payload.SubcategoryID,
		GroupID:       payload.GroupID,
		Active:        payload.Active,
		Featured:      payload.Featured,
		Popular:       payload.Popular,
	}

	created, err := app.store.Catalog.CreateProduct(r.Context(), product)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, created); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	p := params.ParsePagination(r.URL.Query())

	onlyActive := true
	if v := r.URL.Query().Get("include_inactive"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			onlyActive = !b
		}
	}

	products, total, err := app.store.Catalog.ListProducts(r.Context(), onlyActive, p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	// Attach the resolved ancestor category for display.
	views := make([]productView, 0, len(products))
	for _, product := range products {
		view := productView{Product: product}
		if id, ok, err := catalog.ResolveCategoryID(r.Context(), app.store.Catalog, product); err == nil && ok {
			view.ResolvedCategoryID = &id
		}
		views = append(views, view)
	}

	resp := map[string]any{
		"products":   views,
		"pagination": p,
	}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "productID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	product, err := app.store.Catalog.GetProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	view := productView{Product: product}
	if resolved, ok, err := catalog.ResolveCategoryID(r.Context(), app.store.Catalog, product); err == nil && ok {
		view.ResolvedCategoryID = &resolved
	}

	if err := app.jsonResponse(w, http.StatusOK, view); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) updateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "productID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateProductPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	product, err := app.store.Catalog.GetProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if payload.Name != nil {
		product.Name = *payload.Name
	}
	if payload.PriceCents != nil {
		product.PriceCents = *payload.PriceCents
	}
	if payload.OldPriceCents != nil {
		product.OldPriceCents = payload.OldPriceCents
	}
	if payload.Discount != nil {
		product.Discount = payload.Discount
	}
	if payload.Stock != nil {
		product.Stock = *payload.Stock
		product.InStock = *payload.Stock > 0
	}
	if payload.Image != nil {
		product.Image = payload.Image
	}
	if payload.Images != nil {
		product.Images = payload.Images
	}
	if payload.CategoryID != nil {
		product.CategoryID = payload.CategoryID
	}
	if payload.SubcategoryID != nil {
		product.SubcategoryID = payload.SubcategoryID
	}
	if payload.GroupID != nil {
		product.GroupID = payload.GroupID
	}
	if payload.Active != nil {
		product.Active = *payload.Active
	}
	if payload.Featured != nil {
		product.Featured = *payload.Featured
	}
	if payload.Popular != nil {
		product.Popular = *payload.Popular
	}

	updated, err := app.store.Catalog.UpdateProduct(r.Context(), product)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, updated); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) deleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "productID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Catalog.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	resp := map[string]any{"success": true}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}
