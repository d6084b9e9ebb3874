package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vaporlab/vaporlab-backend/api/controllers"
	"github.com/vaporlab/vaporlab-backend/api/middleware"
	authsvc "github.com/vaporlab/vaporlab-backend/internal/auth"
	bannersvc "github.com/vaporlab/vaporlab-backend/internal/banner"
	cartsvc "github.com/vaporlab/vaporlab-backend/internal/cart"
	categorysvc "github.com/vaporlab/vaporlab-backend/internal/categories"
	dropsvc "github.com/vaporlab/vaporlab-backend/internal/dropshippers"
	plussvc "github.com/vaporlab/vaporlab-backend/internal/pluses"
	productsvc "github.com/vaporlab/vaporlab-backend/internal/products"
	surveysvc "github.com/vaporlab/vaporlab-backend/internal/surveys"
	"github.com/vaporlab/vaporlab-backend/pkg/config"
	"github.com/vaporlab/vaporlab-backend/pkg/db"
	"github.com/vaporlab/vaporlab-backend/pkg/enums"
	"github.com/vaporlab/vaporlab-backend/pkg/imagestore"
	"github.com/vaporlab/vaporlab-backend/pkg/logger"
	"github.com/vaporlab/vaporlab-backend/pkg/metrics"
	"github.com/vaporlab/vaporlab-backend/pkg/redis"
)

// Services bundles the wired domain services the router mounts.
type Services struct {
	Auth         authsvc.Service
	Products     productsvc.Service
	Categories   categorysvc.Service
	Pluses       plussvc.Service
	Banner       bannersvc.Service
	Surveys      surveysvc.Service
	Dropshippers dropsvc.Service
	Cart         cartsvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database *db.Client,
	redisClient *redis.Client,
	uploads imagestore.Uploader,
	httpMetrics *metrics.HTTPMetrics,
	promRegistry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, database, redisClient, logg))
	})

	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	// Storefront surface, no authentication.
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", controllers.AuthLogin(svcs.Auth, logg))
			r.Post("/register", controllers.AuthRegister(svcs.Auth, logg))
		})

		r.Get("/products", controllers.ListProducts(svcs.Products, logg, false))
		r.Get("/products/{productId}", controllers.GetProduct(svcs.Products, logg))

		r.Get("/categories", controllers.ListCategories(svcs.Categories, logg, false))
		r.Get("/categories/{categoryId}", controllers.GetCategory(svcs.Categories, logg))

		r.Get("/pluses", controllers.ListPluses(svcs.Pluses, logg))

		r.Get("/banner", controllers.GetBannerWeek(svcs.Banner, logg))

		r.Get("/surveys", controllers.ListSurveys(svcs.Surveys, logg, false))
		r.Get("/surveys/{surveyId}", controllers.GetSurvey(svcs.Surveys, logg))
		r.Post("/surveys/{surveyId}/vote", controllers.VoteSurvey(svcs.Surveys, logg))

		r.Get("/referrals/{code}", controllers.ResolveReferralCode(svcs.Dropshippers, logg))

		r.Post("/cart/quote", controllers.CartQuote(svcs.Cart, logg))
	})

	// Dashboard surface behind JWT auth.
	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(svcs.Products, logg, true))
			r.Post("/", controllers.AdminCreateProduct(svcs.Products, logg))
			r.Get("/{productId}", controllers.GetProduct(svcs.Products, logg))
			r.Patch("/{productId}", controllers.AdminUpdateProduct(svcs.Products, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(svcs.Products, logg))
			r.Post("/{productId}/image", controllers.AdminUploadProductImage(svcs.Products, uploads, cfg.Media, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.ListCategories(svcs.Categories, logg, true))
			r.Post("/", controllers.AdminCreateCategory(svcs.Categories, logg))
			r.Get("/{categoryId}", controllers.GetCategory(svcs.Categories, logg))
			r.Patch("/{categoryId}", controllers.AdminUpdateCategory(svcs.Categories, logg))
			r.Delete("/{categoryId}", controllers.AdminDeleteCategory(svcs.Categories, logg))
			r.Post("/{categoryId}/image", controllers.AdminUploadCategoryImage(svcs.Categories, uploads, cfg.Media, logg))
		})

		r.Route("/pluses", func(r chi.Router) {
			r.Get("/", controllers.ListPluses(svcs.Pluses, logg))
			r.Post("/", controllers.AdminCreatePlus(svcs.Pluses, logg))
			r.Put("/{plusId}", controllers.AdminUpdatePlus(svcs.Pluses, logg))
			r.Delete("/{plusId}", controllers.AdminDeletePlus(svcs.Pluses, logg))
		})

		r.Route("/banner", func(r chi.Router) {
			r.Get("/", controllers.GetBannerWeek(svcs.Banner, logg))
			r.Put("/", controllers.AdminMergeBannerWeek(svcs.Banner, logg))
			r.Patch("/{day}", controllers.AdminPatchBannerDay(svcs.Banner, logg))
			r.Post("/{day}/image", controllers.AdminUploadBannerDayImage(svcs.Banner, uploads, cfg.Media, logg))
		})

		r.Route("/surveys", func(r chi.Router) {
			r.Get("/", controllers.ListSurveys(svcs.Surveys, logg, true))
			r.Post("/", controllers.AdminCreateSurvey(svcs.Surveys, logg))
			r.Get("/{surveyId}", controllers.GetSurvey(svcs.Surveys, logg))
			r.Patch("/{surveyId}", controllers.AdminUpdateSurvey(svcs.Surveys, logg))
			r.Delete("/{surveyId}", controllers.AdminDeleteSurvey(svcs.Surveys, logg))
		})

		// Referral discounts are admin-only.
		r.Route("/dropshippers", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
			r.Get("/", controllers.AdminListDropshippers(svcs.Dropshippers, logg))
			r.Post("/", controllers.AdminCreateDropshipper(svcs.Dropshippers, logg))
			r.Patch("/{dropshipperId}", controllers.AdminUpdateDropshipper(svcs.Dropshippers, logg))
			r.Delete("/{dropshipperId}", controllers.AdminDeleteDropshipper(svcs.Dropshippers, logg))
		})
	})

	return r
}
