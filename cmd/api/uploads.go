package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"bazaar/internal/store"
)

// uploadMediaHandler godoc
//
//	@Summary	Upload an image
//	@Tags		admin,media
//	@Accept		mpfd
//	@Produce	json
//	@Param		bucket	formData	string	true	"Target bucket"
//	@Param		file	formData	file	true	"Image file"
//	@Success	201		{object}	store.MediaAsset
//	@Security	BasicAuth
//	@Router		/admin/uploads [post]
func (app *application) uploadMediaHandler(w http.ResponseWriter, r *http.Request) {
	const maxBytes = 5 * 1024 * 1024 // 5MB
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("failed to parse form: %w", err))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	bucket := strings.TrimSpace(r.FormValue("bucket"))
	if !allowedBuckets[bucket] {
		app.badRequestResponse(w, r, fmt.Errorf("unknown bucket %q", bucket))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("file is required: %w", err))
		return
	}
	defer file.Close()

	mime, err := sniffMIME(file)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if !strings.HasPrefix(mime, "image/") {
		app.badRequestResponse(w, r, fmt.Errorf("unsupported content type %s", mime))
		return
	}

	asset, err := app.uploadToBucket(r.Context(), file, bucket, header.Size)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, asset); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteMediaHandler removes the asset from cloudinary and from the ledger.
// DELETE /admin/uploads?public_id={id}
func (app *application) deleteMediaHandler(w http.ResponseWriter, r *http.Request) {
	publicID := strings.TrimSpace(r.URL.Query().Get("public_id"))
	if publicID == "" {
		app.badRequestResponse(w, r, fmt.Errorf("public_id is required"))
		return
	}

	if _, err := app.legacy.MediaAssets.GetByPublicID(r.Context(), publicID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.deleteFromCloudinary(r.Context(), publicID); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.legacy.MediaAssets.Remove(r.Context(), publicID); err != nil && !errors.Is(err, store.ErrNotFound) {
		app.internalServerError(w, r, err)
		return
	}

	resp := map[string]any{"success": true}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

// uploadArtworkHandler lets a customer attach artwork before submitting a
// print request. Public, rate limited; the returned URL goes into the
// request's artwork_url field.
func (app *application) uploadArtworkHandler(w http.ResponseWriter, r *http.Request) {
	const maxBytes = 10 * 1024 * 1024 // 10MB, print artwork runs large
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("failed to parse form: %w", err))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("file is required: %w", err))
		return
	}
	defer file.Close()

	mime, err := sniffMIME(file)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if !strings.HasPrefix(mime, "image/") && mime != "application/pdf" {
		app.badRequestResponse(w, r, fmt.Errorf("unsupported content type %s", mime))
		return
	}

	asset, err := app.uploadToBucket(r.Context(), file, "artwork", header.Size)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	resp := map[string]any{"url": asset.URL, "public_id": asset.PublicID}
	if err := app.jsonResponse(w, http.StatusCreated, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}
