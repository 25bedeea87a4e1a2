package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bazaar/internal/domain/enquiries"
	"bazaar/internal/mailer"
	"bazaar/internal/metrics"
	"bazaar/internal/notifications"
	"bazaar/internal/params"
)

type CreateEnquiryPayload struct {
	CustomerName string  `json:"customer_name" validate:"required,min=2,max=100"`
	Email        string  `json:"email" validate:"required,email"`
	Phone        *string `json:"phone" validate:"omitempty,max=30"`
	Subject      string  `json:"subject" validate:"required,min=2,max=200"`
	Message      string  `json:"message" validate:"required,min=2,max=5000"`
}

type AddMessagePayload struct {
	Body string `json:"body" validate:"required,min=1,max=5000"`
}

// createEnquiryHandler godoc
//
//	@Summary		Open an enquiry
//	@Description	Public endpoint. Creates the thread, emails a confirmation
//	@Description	with the reference code and pushes an alert to admin devices.
//	@Tags			enquiries
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateEnquiryPayload	true	"Enquiry"
//	@Success		201		{object}	enquiries.Enquiry
//	@Router			/enquiries [post]
func (app *application) createEnquiryHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateEnquiryPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	enquiry := &enquiries.Enquiry{
		CustomerName: payload.CustomerName,
		Email:        payload.Email,
		Phone:        payload.Phone,
		Subject:      payload.Subject,
	}

	created, err := app.store.Enquiries.Create(r.Context(), enquiry, payload.Message)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	metrics.EnquiryCounter.Inc()

	// Confirmation mail and admin push happen off the request path; a
	// failure there must not fail the enquiry.
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
		if _, err := app.mailer.Send(mailer.EnquiryReceivedTemplate, created.CustomerName, created.Email, vars); err != nil {
			app.logger.Errorw("enquiry confirmation mail failed", "reference", created.Reference, "error", err)
		}

		if err := notifications.NotifyNewEnquiry(ctx, app.push, app.store, created.ID, created.Reference, created.CustomerName); err != nil {
			app.logger.Warnw("enquiry push failed", "reference", created.Reference, "error", err)
		}
	}()

	if err := app.jsonResponse(w, http.StatusCreated, created); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getEnquiryByReferenceHandler lets a customer poll their thread using the
// ENQ- reference from the confirmation mail.
func (app *application) getEnquiryByReferenceHandler(w http.ResponseWriter, r *http.Request) {
	reference := readStringParam(r, "reference")

	enquiry, err := app.store.Enquiries.GetByReference(r.Context(), reference)
	if err != nil {
		if errors.Is(err, enquiries.ErrEnquiryNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	thread, err := app.store.Enquiries.GetThread(r.Context(), enquiry.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, thread); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) addCustomerMessageHandler(w http.ResponseWriter, r *http.Request) {
	reference := readStringParam(r, "reference")

	var payload AddMessagePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	enquiry, err := app.store.Enquiries.GetByReference(r.Context(), reference)
	if err != nil {
		if errors.Is(err, enquiries.ErrEnquiryNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	msg, err := app.store.Enquiries.AddMessage(r.Context(), enquiry.ID, enquiries.SenderCustomer, payload.Body)
	if err != nil {
		if errors.Is(err, enquiries.ErrEnquiryClosed) {
			app.conflictResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := notifications.NotifyEnquiryReply(ctx, app.push, app.store, enquiry.ID, enquiry.Reference); err != nil {
			app.logger.Warnw("enquiry reply push failed", "reference", enquiry.Reference, "error", err)
		}
	}()

	if err := app.jsonResponse(w, http.StatusCreated, msg); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) listEnquiriesHandler(w http.ResponseWriter, r *http.Request) {
	p := params.ParsePagination(r.URL.Query())
	status := enquiries.Status(r.URL.Query().Get("status"))

	list, total, err := app.store.Enquiries.List(r.Context(), status, p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	resp := map[string]any{
		"enquiries":  list,
		"pagination": p,
	}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getEnquiryThreadHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "enquiryID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	thread, err := app.store.Enquiries.GetThread(r.Context(), id)
	if err != nil {
		if errors.Is(err, enquiries.ErrEnquiryNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, thread); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) addAdminMessageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "enquiryID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload AddMessagePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	msg, err := app.store.Enquiries.AddMessage(r.Context(), id, enquiries.SenderAdmin, payload.Body)
	if err != nil {
		switch {
		case errors.Is(err, enquiries.ErrEnquiryNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, enquiries.ErrEnquiryClosed):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, msg); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) closeEnquiryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "enquiryID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Enquiries.SetStatus(r.Context(), id, enquiries.StatusClosed); err != nil {
		if errors.Is(err, enquiries.ErrEnquiryNotFound) {
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
