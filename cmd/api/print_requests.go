package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"bazaar/internal/domain/printrequests"
	"bazaar/internal/mailer"
	"bazaar/internal/metrics"
	"bazaar/internal/notifications"
	"bazaar/internal/params"
)

type CreatePrintRequestPayload struct {
	CustomerName string  `json:"customer_name" validate:"required,min=2,max=100"`
	Email        string  `json:"email" validate:"required,email"`
	Description  string  `json:"description" validate:"required,min=2,max=5000"`
	ArtworkURL   *string `json:"artwork_url" validate:"omitempty,url"`
	Quantity     int     `json:"quantity" validate:"required,gt=0"`
}

type QuotePayload struct {
	AmountCents int64 `json:"amount_cents" validate:"required,gt=0"`
}

type SetStatusPayload struct {
	Status string `json:"status" validate:"required,oneof=accepted declined"`
}

// createPrintRequestHandler godoc
//
//	@Summary		Submit a print request
//	@Description	Public endpoint. Acknowledges by email with a PRQ- reference
//	@Description	and alerts admin devices that a quote is needed.
//	@Tags			print-requests
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreatePrintRequestPayload	true	"Print request"
//	@Success		201		{object}	printrequests.PrintRequest
//	@Router			/print-requests [post]
func (app *application) createPrintRequestHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreatePrintRequestPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	request := &printrequests.PrintRequest{
		CustomerName: payload.CustomerName,
		Email:        payload.Email,
		Description:  payload.Description,
		ArtworkURL:   payload.ArtworkURL,
		Quantity:     payload.Quantity,
	}

	created, err := app.store.PrintRequests.Create(r.Context(), request)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	metrics.RecordPrintRequest("create")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		vars := struct {
			CustomerName string
			Reference    string
		}{
			CustomerName: created.CustomerName,
			Reference:    created.Reference,
		}
		if _, err := app.mailer.Send(mailer.PrintRequestAckTemplate, created.CustomerName, created.Email, vars); err != nil {
			app.logger.Errorw("print request ack mail failed", "reference", created.Reference, "error", err)
		}

		if err := notifications.NotifyNewPrintRequest(ctx, app.push, app.store, created.ID, created.Reference); err != nil {
			app.logger.Warnw("print request push failed", "reference", created.Reference, "error", err)
		}
	}()

	if err := app.jsonResponse(w, http.StatusCreated, created); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getPrintRequestByReferenceHandler(w http.ResponseWriter, r *http.Request) {
	reference := readStringParam(r, "reference")

	request, err := app.store.PrintRequests.GetByReference(r.Context(), reference)
	if err != nil {
		if errors.Is(err, printrequests.ErrRequestNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, request); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) listPrintRequestsHandler(w http.ResponseWriter, r *http.Request) {
	p := params.ParsePagination(r.URL.Query())
	status := printrequests.Status(r.URL.Query().Get("status"))

	list, total, err := app.store.PrintRequests.List(r.Context(), status, p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	resp := map[string]any{
		"print_requests": list,
		"pagination":     p,
	}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getPrintRequestHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "requestID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	request, err := app.store.PrintRequests.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, printrequests.ErrRequestNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, request); err != nil {
		app.internalServerError(w, r, err)
	}
}

// quotePrintRequestHandler attaches a price to a pending request and mails
// the customer that the quote is ready.
func (app *application) quotePrintRequestHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "requestID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload QuotePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	quoted, err := app.store.PrintRequests.Quote(r.Context(), id, payload.AmountCents)
	if err != nil {
		switch {
		case errors.Is(err, printrequests.ErrRequestNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, printrequests.ErrInvalidTransition):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}
	metrics.RecordPrintRequest("quote")

	go func() {
		vars := struct {
			CustomerName string
			Reference    string
			QuoteAmount  string
		}{
			CustomerName: quoted.CustomerName,
			Reference:    quoted.Reference,
			QuoteAmount:  formatCents(payload.AmountCents),
		}
		if _, err := app.mailer.Send(mailer.QuoteReadyTemplate, quoted.CustomerName, quoted.Email, vars); err != nil {
			app.logger.Errorw("quote mail failed", "reference", quoted.Reference, "error", err)
		}
	}()

	if err := app.jsonResponse(w, http.StatusOK, quoted); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) setPrintRequestStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "requestID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload SetStatusPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	updated, err := app.store.PrintRequests.SetStatus(r.Context(), id, printrequests.Status(payload.Status))
	if err != nil {
		switch {
		case errors.Is(err, printrequests.ErrRequestNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, printrequests.ErrInvalidTransition):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}
	metrics.RecordPrintRequest(payload.Status)

	if err := app.jsonResponse(w, http.StatusOK, updated); err != nil {
		app.internalServerError(w, r, err)
	}
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
