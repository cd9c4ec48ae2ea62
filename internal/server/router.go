package server

import (
	"net/http"

	admincontroller "wmx/internal/admin/controller"
	"wmx/internal/auth"
	catalogcontroller "wmx/internal/catalog/controller"
	"wmx/internal/domain"
	apperrors "wmx/internal/errors"
	"wmx/internal/httpx"
	ordercontroller "wmx/internal/order/controller"
	"wmx/internal/payment"
	resellercontroller "wmx/internal/reseller/controller"
	usercontroller "wmx/internal/user/controller"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Handlers struct {
	Catalog  *catalogcontroller.CatalogController
	Order    *ordercontroller.OrderController
	Payment  *payment.ConfigController
	Admin    *admincontroller.AdminController
	Reseller *resellercontroller.ResellerController
	User     *usercontroller.UserController
}

// NewRouter mounts the public API and the admin API. Every route sees the
// session identity if one exists; /api/admin requires at least ADMIN.
func NewRouter(h Handlers, mw *auth.Middleware, responder *httpx.Responder) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(httpx.Trace)
	r.Use(chimw.Recoverer)
	r.Use(mw.Authenticate)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		responder.OK(w, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", h.Catalog.ListCategories)
		r.Get("/services/{id}/products", h.Catalog.ListProducts)

		r.Get("/payments/config", h.Payment.ClientConfig)

		r.Post("/orders", h.Order.Create)
		r.Get("/orders/track", h.Order.Track)
		r.Get("/orders/{orderNumber}", h.Order.Get)

		r.Post("/reseller/nickname", h.Reseller.Nickname)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.User.Login)
			r.Post("/logout", h.User.Logout)
			r.Get("/me", h.User.Me)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(mw.RequireRole(domain.RoleAdmin))
			r.Get("/stats", h.Admin.Stats)
			r.Post("/toggle", h.Catalog.Toggle)
			r.Post("/categories", h.Catalog.CreateCategory)
			r.Get("/users", h.User.List)
			r.Post("/reseller/sync", h.Reseller.Sync)
			r.Get("/reseller/profile", h.Reseller.Profile)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responder.Error(w, r, apperrors.NewNotFoundError("route not found"))
	})

	return r
}
