package main

import "net/http"

// storageUsageHandler godoc
//
//	@Summary		Storage usage
//	@Description	Per-bucket and total media usage from the asset ledger
//	@Tags			admin,media
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Security		BasicAuth
//	@Router			/admin/storage-usage [get]
func (app *application) storageUsageHandler(w http.ResponseWriter, r *http.Request) {
	byBucket, err := app.legacy.MediaAssets.UsageByBucket(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	total, err := app.legacy.MediaAssets.TotalUsage(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	resp := map[string]any{
		"buckets": byBucket,
		"total":   total,
	}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}
