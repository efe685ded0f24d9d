package api

import (
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/armazem/internal/auth"
	"github.com/erazemk/armazem/internal/files"
	"github.com/erazemk/armazem/internal/metrics"
	"github.com/erazemk/armazem/internal/model"
)

// Options configures the router.
type Options struct {
	JWTSecret      string
	TokenTTL       time.Duration
	Files          *files.Dir
	MaxUploadBytes int64
	Limiter        *LoginLimiter
	CORSOrigins    []string
	Metrics        bool
	// Now is the clock used for equipment timestamps and the dashboard.
	Now func() time.Time
}

// NewRouter creates the HTTP handler with all endpoints registered and the
// middleware chain applied.
func NewRouter(db *sqlx.DB, opts Options) http.Handler {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = auth.DefaultTTL
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 32 << 20
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: opts.JWTSecret, TokenTTL: opts.TokenTTL, Limiter: opts.Limiter}
	productsHandler := &ProductsHandler{DB: db}
	inventoryHandler := &InventoryHandler{DB: db, Now: opts.Now}
	documentsHandler := &DocumentsHandler{DB: db, Files: opts.Files, MaxBytes: opts.MaxUploadBytes}
	lookupsHandler := &LookupsHandler{DB: db}
	dashboardHandler := &DashboardHandler{DB: db, Now: opts.Now}
	healthHandler := &HealthHandler{DB: db}

	authMW := AuthMiddleware(opts.JWTSecret)
	requireBoss := RequireRole(model.RoleBoss)

	// Public.
	mux.HandleFunc("POST /login", authHandler.Login)
	mux.HandleFunc("GET /healthz", healthHandler.Live)
	mux.HandleFunc("GET /readyz", healthHandler.Ready)
	mux.HandleFunc("GET /uploads/{filename}", documentsHandler.Public)
	if opts.Metrics {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	// Products: read (all roles), write (boss).
	mux.Handle("GET /products", authMW(http.HandlerFunc(productsHandler.List)))
	mux.Handle("POST /products", authMW(requireBoss(http.HandlerFunc(productsHandler.Create))))
	mux.Handle("PUT /products/{id}", authMW(requireBoss(http.HandlerFunc(productsHandler.Update))))
	mux.Handle("DELETE /products/{id}", authMW(requireBoss(http.HandlerFunc(productsHandler.Delete))))

	// Inventory: read and move (all roles), create/delete (boss).
	mux.Handle("GET /inventory", authMW(http.HandlerFunc(inventoryHandler.List)))
	mux.Handle("POST /inventory", authMW(requireBoss(http.HandlerFunc(inventoryHandler.Create))))
	mux.Handle("PUT /inventory/{id}", authMW(http.HandlerFunc(inventoryHandler.Update)))
	mux.Handle("DELETE /inventory/{id}", authMW(requireBoss(http.HandlerFunc(inventoryHandler.Delete))))

	// Documents: read (all roles), write (boss).
	mux.Handle("GET /documents", authMW(http.HandlerFunc(documentsHandler.List)))
	mux.Handle("POST /documents", authMW(requireBoss(http.HandlerFunc(documentsHandler.Upload))))
	mux.Handle("GET /documents/{filename}", authMW(http.HandlerFunc(documentsHandler.Download)))
	mux.Handle("GET /documents/{filename}/preview", authMW(http.HandlerFunc(documentsHandler.Preview)))
	mux.Handle("DELETE /documents/{filename}", authMW(requireBoss(http.HandlerFunc(documentsHandler.Delete))))

	// Lookups and dashboard (all roles).
	mux.Handle("GET /product-types", authMW(http.HandlerFunc(lookupsHandler.ProductTypes)))
	mux.Handle("GET /storage-locations", authMW(http.HandlerFunc(lookupsHandler.StorageLocations)))
	mux.Handle("GET /dashboard", authMW(http.HandlerFunc(dashboardHandler.Get)))

	var handler http.Handler = mux
	if opts.Metrics {
		handler = metrics.InstrumentHandler(handler)
	}
	handler = Recoverer(handler)
	handler = LoggingMiddleware(handler)
	if len(opts.CORSOrigins) > 0 {
		handler = CORS(opts.CORSOrigins)(handler)
	}
	return RequestID(handler)
}
