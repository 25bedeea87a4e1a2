package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bazaar/docs" //this is required to serve swagger docs
	"bazaar/internal/domain/catalog"
	"bazaar/internal/domain/storage"
	"bazaar/internal/mailer"
	"bazaar/internal/metrics"
	"bazaar/internal/notifications"
	"bazaar/internal/ratelimiter"
	"bazaar/internal/store"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config      config
	store       *storage.Container
	legacy      store.Storage
	logger      *zap.SugaredLogger
	cld         *cloudinary.Cloudinary
	mailer      mailer.Client
	push        notifications.PushSender
	rateLimiter ratelimiter.Limiter
}

type config struct {
	addr        string
	db          dbConfig
	env         string
	apiURL      string
	mail        mailConfig
	frontendURL string
	refSalt     string
	auth        authConfig
	rateLimiter ratelimiter.Config
}

type authConfig struct {
	basic basicConfig
}

type basicConfig struct {
	user string
	pass string
}

type mailConfig struct {
	fromEmail string
	mailtrap  mailTrapConfig
}

type mailTrapConfig struct {
	apiKey string
}

type dbConfig struct {
	addr         string
	maxConns     int
	maxIdleConns int
	maxIdleTime  string
}

// deleter builds the coordinator that runs hierarchy deletions. Constructed
// per call so tests can swap the catalog store behind the container.
func (app *application) deleter() *catalog.Coordinator {
	return catalog.NewCoordinator(app.store.Catalog)
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.MetricsMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	//Set a timeout value on the request context (ctx), that will signal through ctx.Done() that the request has timed out and further processing should be stopped
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)
		r.With(app.BasicAuthMiddleware()).Get("/metrics", metrics.Handler().ServeHTTP)

		// Public storefront reads.
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/categories", app.listCategoriesHandler)
			r.Get("/categories/{categoryID}", app.getCategoryHandler)
			r.Get("/categories/{categoryID}/subcategories", app.listSubcategoriesHandler)
			r.Get("/subcategories/{subcategoryID}/groups", app.listGroupsHandler)
			r.Get("/products", app.listProductsHandler)
			r.Get("/products/{productID}", app.getProductHandler)
		})

		// Public intake, rate limited.
		r.Route("/enquiries", func(r chi.Router) {
			r.Use(app.RateLimiterMiddleware)
			r.Post("/", app.createEnquiryHandler)
			r.Get("/{reference}", app.getEnquiryByReferenceHandler)
			r.Post("/{reference}/messages", app.addCustomerMessageHandler)
		})
		r.Route("/print-requests", func(r chi.Router) {
			r.Use(app.RateLimiterMiddleware)
			r.Post("/", app.createPrintRequestHandler)
			r.Post("/artwork", app.uploadArtworkHandler)
			r.Get("/{reference}", app.getPrintRequestByReferenceHandler)
		})

		// Admin surface.
		r.Route("/admin", func(r chi.Router) {
			r.Use(app.BasicAuthMiddleware())

			r.Route("/categories", func(r chi.Router) {
				r.Post("/", app.createCategoryHandler)
				r.Route("/{categoryID}", func(r chi.Router) {
					r.Patch("/", app.updateCategoryHandler)
					r.Delete("/", app.deleteCategoryHandler)
					r.Get("/product-count", app.categoryProductCountHandler)
					r.Post("/subcategories", app.createSubcategoryHandler)
				})
			})
			r.Route("/subcategories/{subcategoryID}", func(r chi.Router) {
				r.Patch("/", app.updateSubcategoryHandler)
				r.Delete("/", app.deleteSubcategoryHandler)
				r.Get("/product-count", app.subcategoryProductCountHandler)
				r.Post("/groups", app.createGroupHandler)
			})
			r.Route("/groups/{groupID}", func(r chi.Router) {
				r.Patch("/", app.updateGroupHandler)
				r.Delete("/", app.deleteGroupHandler)
				r.Get("/product-count", app.groupProductCountHandler)
			})

			r.Route("/products", func(r chi.Router) {
				r.Post("/", app.createProductHandler)
				r.Patch("/{productID}", app.updateProductHandler)
				r.Delete("/{productID}", app.deleteProductHandler)
			})

			r.Route("/enquiries", func(r chi.Router) {
				r.Get("/", app.listEnquiriesHandler)
				r.Get("/{enquiryID}", app.getEnquiryThreadHandler)
				r.Post("/{enquiryID}/messages", app.addAdminMessageHandler)
				r.Put("/{enquiryID}/close", app.closeEnquiryHandler)
			})

			r.Route("/print-requests", func(r chi.Router) {
				r.Get("/", app.listPrintRequestsHandler)
				r.Get("/{requestID}", app.getPrintRequestHandler)
				r.Post("/{requestID}/quote", app.quotePrintRequestHandler)
				r.Put("/{requestID}/status", app.setPrintRequestStatusHandler)
			})

			r.Route("/uploads", func(r chi.Router) {
				r.Post("/", app.uploadMediaHandler)
				r.Delete("/", app.deleteMediaHandler) // DELETE /admin/uploads?public_id={id}
			})
			r.Get("/storage/usage", app.storageUsageHandler)

			r.Route("/device-tokens", func(r chi.Router) {
				r.Post("/", app.registerDeviceTokenHandler)
				r.Delete("/", app.deactivateDeviceTokenHandler)
			})
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	// Implementing graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
