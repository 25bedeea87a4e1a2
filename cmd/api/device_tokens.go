package main

import "net/http"

type RegisterDeviceTokenPayload struct {
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform" validate:"required,oneof=ios android"`
}

type DeactivateDeviceTokenPayload struct {
	Token string `json:"token" validate:"required"`
}

// registerDeviceTokenHandler stores an admin device's Expo push token so it
// receives enquiry and print-request alerts.
func (app *application) registerDeviceTokenHandler(w http.ResponseWriter, r *http.Request) {
	var payload RegisterDeviceTokenPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	token, err := app.store.PushTokens.Register(r.Context(), payload.Token, payload.Platform)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, token); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) deactivateDeviceTokenHandler(w http.ResponseWriter, r *http.Request) {
	var payload DeactivateDeviceTokenPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.PushTokens.Deactivate(r.Context(), payload.Token); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	resp := map[string]any{"success": true}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}
