package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/catalog-service/internal/service"
	"github.com/utafrali/catalog-service/pkg/health"
	"github.com/utafrali/catalog-service/pkg/middleware"
)

// RouterConfig carries the non-service inputs the router needs.
type RouterConfig struct {
	Environment       string
	PprofAllowedCIDRs []string
}

// NewRouter creates a chi router with all catalog routes registered.
func NewRouter(
	productService *service.ProductService,
	lineService *service.ProductLineService,
	categoryService *service.CategoryService,
	brandService *service.BrandService,
	typeService *service.ProductTypeService,
	attributeService *service.AttributeService,
	healthHandler *health.Handler,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.Environment = cfg.Environment
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("catalog-service"))
	r.Use(middleware.Tracing("catalog-service"))

	// Operational endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())
	middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)

	productHandler := NewProductHandler(productService, logger)
	lineHandler := NewProductLineHandler(lineService, logger)
	imageHandler := NewImageHandler(lineService, logger)
	categoryHandler := NewCategoryHandler(categoryService, logger)
	brandHandler := NewBrandHandler(brandService, logger)
	typeHandler := NewProductTypeHandler(typeService, logger)
	attributeHandler := NewAttributeHandler(attributeService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		// Catalog reads are cache-friendly; only GET responses get the header.
		r.Use(middleware.CacheControl(60))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.ListProducts)
			r.Post("/", productHandler.CreateProduct)
			r.Get("/{idOrSlug}", productHandler.GetProduct)
			r.Put("/{id}", productHandler.UpdateProduct)
			r.Delete("/{id}", productHandler.DeleteProduct)

			r.Get("/{id}/lines", lineHandler.ListLines)
			r.Post("/{id}/lines", lineHandler.CreateLine)
		})

		r.Route("/product-lines", func(r chi.Router) {
			r.Get("/{id}", lineHandler.GetLine)
			r.Put("/{id}", lineHandler.UpdateLine)
			r.Delete("/{id}", lineHandler.DeleteLine)

			r.Get("/{id}/attribute-values", lineHandler.ListAttributeValues)
			r.Post("/{id}/attribute-values", lineHandler.AttachAttributeValue)
			r.Put("/{id}/attribute-values/{valueID}", lineHandler.RebindAttributeValue)
			r.Delete("/{id}/attribute-values/{valueID}", lineHandler.DetachAttributeValue)

			r.Get("/{id}/images", imageHandler.ListImages)
			r.Post("/{id}/images", imageHandler.CreateImage)
		})

		r.Route("/product-images", func(r chi.Router) {
			r.Put("/{id}", imageHandler.UpdateImage)
			r.Delete("/{id}", imageHandler.DeleteImage)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.ListCategories)
			r.Post("/", categoryHandler.CreateCategory)
			r.Get("/{idOrSlug}", categoryHandler.GetCategory)
			r.Put("/{id}", categoryHandler.UpdateCategory)
			r.Delete("/{id}", categoryHandler.DeleteCategory)
		})

		r.Route("/brands", func(r chi.Router) {
			r.Get("/", brandHandler.ListBrands)
			r.Post("/", brandHandler.CreateBrand)
			r.Get("/{idOrSlug}", brandHandler.GetBrand)
			r.Put("/{id}", brandHandler.UpdateBrand)
			r.Delete("/{id}", brandHandler.DeleteBrand)
		})

		r.Route("/product-types", func(r chi.Router) {
			r.Get("/", typeHandler.ListProductTypes)
			r.Post("/", typeHandler.CreateProductType)
			r.Get("/{id}", typeHandler.GetProductType)
			r.Put("/{id}", typeHandler.UpdateProductType)
			r.Delete("/{id}", typeHandler.DeleteProductType)

			r.Get("/{id}/attributes", typeHandler.ListAttributes)
			r.Post("/{id}/attributes/{attributeID}", typeHandler.AddAttribute)
			r.Delete("/{id}/attributes/{attributeID}", typeHandler.RemoveAttribute)
			r.Get("/{id}/attribute-values", typeHandler.ListEligibleValues)
		})

		r.Route("/attributes", func(r chi.Router) {
			r.Get("/", attributeHandler.ListAttributes)
			r.Post("/", attributeHandler.CreateAttribute)
			r.Get("/{id}", attributeHandler.GetAttribute)
			r.Put("/{id}", attributeHandler.UpdateAttribute)
			r.Delete("/{id}", attributeHandler.DeleteAttribute)

			r.Get("/{id}/values", attributeHandler.ListValues)
			r.Post("/{id}/values", attributeHandler.CreateValue)
		})

		r.Route("/attribute-values", func(r chi.Router) {
			r.Get("/{id}", attributeHandler.GetValue)
			r.Put("/{id}", attributeHandler.UpdateValue)
			r.Delete("/{id}", attributeHandler.DeleteValue)
		})
	})

	return r
}
