package api

import (
	"context"

	"plateplanner/internal/auth"
	"plateplanner/internal/grocery"
	"plateplanner/internal/metrics"
	"plateplanner/internal/planner"
	"plateplanner/internal/recipe"

	"go.uber.org/zap"
)

// Catalog is the recipe catalog the handlers read and extend.
type Catalog interface {
	List(ctx context.Context) ([]recipe.Recipe, error)
	Get(ctx context.Context, id string) (*recipe.Recipe, error)
	Save(ctx context.Context, rec recipe.Recipe) error
	Count(ctx context.Context) (int, error)
}

// RecipeImporter clips a recipe from a web page into the catalog.
type RecipeImporter interface {
	ImportURL(ctx context.Context, url string) (*recipe.Recipe, error)
}

// Server bundles the handlers' dependencies.
type Server struct {
	log      *zap.Logger
	auth     *auth.Service
	catalog  Catalog
	plans    planner.PlanStore
	checks   grocery.Store
	importer RecipeImporter // nil disables POST /recipes/import

	metricsStore *metrics.Store // nil disables GET /metrics
	databasePath string
}

// NewServer creates a Server. importer may be nil when no LLM key is
// configured.
func NewServer(log *zap.Logger, authSvc *auth.Service, catalog Catalog, plans planner.PlanStore, checks grocery.Store, importer RecipeImporter) *Server {
	return &Server{
		log:      log,
		auth:     authSvc,
		catalog:  catalog,
		plans:    plans,
		checks:   checks,
		importer: importer,
	}
}

// EnableMetrics turns on the usage endpoint. databasePath is reported in
// the health snapshot.
func (s *Server) EnableMetrics(store *metrics.Store, databasePath string) {
	s.metricsStore = store
	s.databasePath = databasePath
}
