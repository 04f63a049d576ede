package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/taxwiseapp/taxwise/internal/http/auth"
	"github.com/taxwiseapp/taxwise/internal/http/category"
	"github.com/taxwiseapp/taxwise/internal/http/export"
	"github.com/taxwiseapp/taxwise/internal/http/rule"
	"github.com/taxwiseapp/taxwise/internal/http/summary"
	"github.com/taxwiseapp/taxwise/internal/http/transaction"
	"github.com/taxwiseapp/taxwise/internal/http/upload"
)

func New(
	jwtSecret string,
	uploadsV1 *upload.Handler,
	transactionsV1 *transaction.Handler,
	categoriesV1 *category.Handler,
	rulesV1 *rule.Handler,
	summariesV1 *summary.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(jwtSecret))

		r.Route("/uploads", uploadsV1.Routes)

		r.Route("/transactions", func(r chi.Router) {
			transactionsV1.Routes(r)
		})

		r.Route("/categories", categoriesV1.Routes)

		r.Route("/rules", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			rulesV1.Routes(r)
		})

		r.Route("/summaries", summariesV1.Routes)

		r.Route("/export", exportV1.Routes)
	})

	return router
}
