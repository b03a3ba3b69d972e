// Package chi exposes the HTTP API: submission, review, search and
// facet endpoints plus health and metrics.
package chi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/projdex/internal/domain"
	"github.com/kailas-cloud/projdex/internal/domain/search/filter"
	searchuc "github.com/kailas-cloud/projdex/internal/usecase/search"
)

// IntakeService builds draft records from repository URLs.
type IntakeService interface {
	SubmitRepo(ctx context.Context, repoURL, owner string) (domain.Project, error)
}

// ReviewService drives the moderation workflow.
type ReviewService interface {
	Submit(ctx context.Context, p domain.Project) (domain.Project, error)
	Approve(ctx context.Context, p domain.Project) (domain.Project, error)
	Reject(ctx context.Context, id string) error
	ListPending(ctx context.Context) ([]domain.Project, error)
	Reconcile(ctx context.Context, id string) (bool, error)
}

// SearchService executes catalog searches.
type SearchService interface {
	Search(ctx context.Context, query string, selection filter.Selection, sortBy string) ([]searchuc.ProjectResult, error)
}

// FacetsService lists filter options and manages the tag vocabulary.
type FacetsService interface {
	FilterOptions(ctx context.Context) (domain.FilterOptions, error)
	ApprovedTags(ctx context.Context) (domain.TagVocabulary, error)
	UpdateApprovedTags(ctx context.Context, v domain.TagVocabulary) error
}

// Pinger checks backing store availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server implements the HTTP API.
type Server struct {
	intake        IntakeService
	review        ReviewService
	search        SearchService
	facets        FacetsService
	identity      *Identity
	store         Pinger
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	intake IntakeService,
	review ReviewService,
	search SearchService,
	facets FacetsService,
	identity *Identity,
	store Pinger,
	logger *zap.Logger,
) *Server {
	return &Server{
		intake:        intake,
		review:        review,
		search:        search,
		facets:        facets,
		identity:      identity,
		store:         store,
		logger:        logger,
		errorHandlers: domainErrorHandlers(),
	}
}

// Register mounts all API routes on the router. Middleware is applied
// by the caller before this.
func (s *Server) Register(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/submit_repo", s.handleSubmitRepo)
		r.Post("/send_for_review", s.handleSendForReview)
		r.Get("/get_filter_options", s.handleGetFilterOptions)
		r.Post("/search_projects", s.handleSearchProjects)
		r.Get("/check_admin", s.handleCheckAdmin)

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.adminOnly)
			r.Get("/get_pending_reviews", s.handleGetPendingReviews)
			r.Post("/approve_project", s.handleApproveProject)
			r.Post("/reject_project", s.handleRejectProject)
			r.Post("/reconcile/{id}", s.handleReconcile)
			r.Get("/get_approved_tags", s.handleGetApprovedTags)
			r.Post("/update_approved_tags", s.handleUpdateApprovedTags)
		})
	})

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// adminOnly rejects callers not on the admin allowlist. With no
// allowlist configured the check is disabled, so local setups without a
// platform auth layer keep working.
func (s *Server) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.identity.HasAdmins() {
			user := s.identity.Resolve(r)
			if !s.identity.IsAdmin(user) {
				writeError(w, http.StatusForbidden, codeForbidden, "admin access required")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// handleSubmitRepo handles POST /api/submit_repo.
func (s *Server) handleSubmitRepo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GithubURL string `json:"githubUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	owner := s.identity.Resolve(r)

	draft, err := s.intake.SubmitRepo(r.Context(), req.GithubURL, owner)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, draft)
}

// handleSendForReview handles POST /api/send_for_review.
func (s *Server) handleSendForReview(w http.ResponseWriter, r *http.Request) {
	var p domain.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if _, err := s.review.Submit(r.Context(), p); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Review request sent successfully.",
	})
}

// handleGetPendingReviews handles GET /api/admin/get_pending_reviews.
func (s *Server) handleGetPendingReviews(w http.ResponseWriter, r *http.Request) {
	records, err := s.review.ListPending(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if records == nil {
		records = []domain.Project{}
	}
	writeJSON(w, http.StatusOK, records)
}

// handleApproveProject handles POST /api/admin/approve_project.
func (s *Server) handleApproveProject(w http.ResponseWriter, r *http.Request) {
	var p domain.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	approved, err := s.review.Approve(r.Context(), p)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Project approved and added to index.",
		"project": approved,
	})
}

// handleRejectProject handles POST /api/admin/reject_project.
func (s *Server) handleRejectProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "project id is required")
		return
	}

	if err := s.review.Reject(r.Context(), req.ID); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Project rejected and removed from pending reviews.",
	})
}

// handleReconcile handles POST /api/admin/reconcile/{id}.
func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "project id is required")
		return
	}

	reindexed, err := s.review.Reconcile(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":        id,
		"reindexed": reindexed,
	})
}

// handleGetFilterOptions handles GET /api/get_filter_options.
func (s *Server) handleGetFilterOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.facets.FilterOptions(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// handleSearchProjects handles POST /api/search_projects. Search
// failures degrade to an empty result set with 200 rather than an
// error status: the catalog page stays usable when retrieval hiccups.
func (s *Server) handleSearchProjects(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query   string           `json:"query"`
		Filters filter.Selection `json:"filters"`
		Sort    string           `json:"sort"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	results, err := s.search.Search(r.Context(), req.Query, req.Filters, req.Sort)
	if err != nil {
		s.logger.Error("search failed", zap.String("query", req.Query), zap.Error(err))
		writeJSON(w, http.StatusOK, map[string]any{
			"results": []searchuc.ProjectResult{},
			"error":   "An error occurred while searching projects",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
		"message": fmt.Sprintf("Found %d matching projects", len(results)),
	})
}

// handleCheckAdmin handles GET /api/check_admin.
func (s *Server) handleCheckAdmin(w http.ResponseWriter, r *http.Request) {
	user := s.identity.Resolve(r)
	writeJSON(w, http.StatusOK, map[string]bool{
		"isAdmin": s.identity.IsAdmin(user),
	})
}

// handleGetApprovedTags handles GET /api/admin/get_approved_tags.
func (s *Server) handleGetApprovedTags(w http.ResponseWriter, r *http.Request) {
	vocab, err := s.facets.ApprovedTags(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vocab)
}

// handleUpdateApprovedTags handles POST /api/admin/update_approved_tags.
// The admin UI submits facet keys in their public camelCase spelling.
func (s *Server) handleUpdateApprovedTags(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProgrammingLanguages []string            `json:"programmingLanguages"`
		Frameworks           []string            `json:"frameworks"`
		AzureServices        []string            `json:"azureServices"`
		DesignPatterns       []string            `json:"designPatterns"`
		Industries           []string            `json:"industries"`
		ProjectTypes         []string            `json:"projectTypes"`
		AzureServiceMapping  map[string][]string `json:"azureServiceMapping"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	vocab := domain.TagVocabulary{
		ProgrammingLanguages: req.ProgrammingLanguages,
		Frameworks:           req.Frameworks,
		AzureServices:        req.AzureServices,
		DesignPatterns:       req.DesignPatterns,
		Industries:           req.Industries,
		ProjectTypes:         req.ProjectTypes,
		AzureServiceMapping:  req.AzureServiceMapping,
	}

	if err := s.facets.UpdateApprovedTags(r.Context(), vocab); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Approved tags updated successfully.",
	})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}
	status := "healthy"
	httpStatus := http.StatusOK

	if err := s.store.Ping(r.Context()); err != nil {
		checks["database"] = "unavailable"
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": status,
		"checks": checks,
	})
}
