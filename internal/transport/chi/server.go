// Package chi is the HTTP transport. Handlers decode and validate input,
// delegate to the use cases, and map domain sentinel errors to statuses
// through a handler chain.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	chiv5 "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/truescope/devisd/internal/domain"
	logpkg "github.com/truescope/devisd/internal/logger"
	healthuc "github.com/truescope/devisd/internal/usecase/health"
	"github.com/truescope/devisd/internal/usecase/pricing"
	quoteuc "github.com/truescope/devisd/internal/usecase/quote"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers for the quote-estimation API.
type Server struct {
	quotes        QuoteService
	prices        PricingService
	corpus        CorpusReader
	matcher       MatcherService
	health        HealthService
	logger        *zap.Logger
	now           func() time.Time
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	quotes QuoteService,
	prices PricingService,
	corpus CorpusReader,
	matcher MatcherService,
	health HealthService,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		quotes:  quotes,
		prices:  prices,
		corpus:  corpus,
		matcher: matcher,
		health:  health,
		logger:  logger,
		now:     time.Now,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrRequestNotFound, http.StatusNotFound, codeRequestNotFound),
		sentinelHandler(domain.ErrInterventionNotFound, http.StatusNotFound, codeInterventionNotFound),
		sentinelHandler(domain.ErrPriceNotFound, http.StatusNotFound, codePriceNotFound),
		sentinelHandler(domain.ErrAlreadyValidated, http.StatusConflict, codeAlreadyValidated),
		sentinelHandler(domain.ErrGenerationFailed, http.StatusBadGateway, codeGenerationFailed),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, codeStoreUnavailable),
	}
	return s
}

// Routes mounts every route on r.
func (s *Server) Routes(r chiv5.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api", func(r chiv5.Router) {
		r.Route("/requests", func(r chiv5.Router) {
			r.Post("/", s.CreateRequest)
			r.Get("/", s.ListRequests)
			r.Get("/stats", s.RequestStats)
			r.Route("/{id}", func(r chiv5.Router) {
				r.Get("/", s.GetRequest)
				r.Post("/validate", s.ValidateRequest)
				r.Post("/reanalyze", s.ReanalyzeRequest)
			})
		})
		r.Post("/classify", s.Classify)
		r.Route("/interventions", func(r chiv5.Router) {
			r.Get("/", s.ListInterventions)
			r.Get("/search", s.SearchInterventions)
			r.Get("/stats", s.InterventionStats)
			r.Get("/{id}", s.GetIntervention)
		})
		r.Route("/prices", func(r chiv5.Router) {
			r.Get("/", s.GetCatalog)
			r.Post("/", s.CreatePrice)
			r.Post("/seed", s.SeedCatalog)
			r.Get("/trade/{trade}", s.GetTradeCatalog)
			r.Get("/{code}", s.GetPrice)
			r.Put("/{code}", s.UpsertPrice)
			r.Delete("/{code}", s.DeletePrice)
		})
	})
}

type createRequestBody struct {
	Trade       string             `json:"trade"`
	Description string             `json:"description"`
	MediaURLs   []string           `json:"mediaUrls"`
	MediaFiles  []domain.MediaFile `json:"mediaFiles"`
}

// CreateRequest handles POST /api/requests.
func (s *Server) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var body createRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := s.quotes.CreateAndAnalyze(r.Context(), quoteuc.CreateInput{
		Trade:       domain.Trade(body.Trade),
		Description: body.Description,
		MediaURLs:   body.MediaURLs,
		MediaFiles:  body.MediaFiles,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, analysisToView(res))
}

// ListRequests handles GET /api/requests.
func (s *Server) ListRequests(w http.ResponseWriter, r *http.Request) {
	var filter domain.RequestFilter

	if raw := r.URL.Query().Get("trade"); raw != "" {
		trade, err := domain.ParseTrade(raw)
		if err != nil {
			s.handleDomainError(w, r, err)
			return
		}
		filter.Trade = trade
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		switch domain.RequestStatus(raw) {
		case domain.StatusPending, domain.StatusAnalyzed, domain.StatusValidated:
			filter.Status = domain.RequestStatus(raw)
		default:
			writeError(w, http.StatusBadRequest, codeValidationFailed, "unknown status "+strconv.Quote(raw))
			return
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "limit must be a non-negative integer")
			return
		}
		filter.Limit = limit
	}

	requests, err := s.quotes.List(r.Context(), filter)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"requests": requests,
		"count":    len(requests),
	})
}

// GetRequest handles GET /api/requests/{id}.
func (s *Server) GetRequest(w http.ResponseWriter, r *http.Request) {
	req, err := s.quotes.Get(r.Context(), chiv5.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

type validateRequestBody struct {
	FinalSolution domain.Solution `json:"finalSolution"`
	ProblemType   string          `json:"problemType"`
	Keywords      []string        `json:"keywords"`
}

// ValidateRequest handles POST /api/requests/{id}/validate. The validated
// solution becomes a new corpus intervention.
func (s *Server) ValidateRequest(w http.ResponseWriter, r *http.Request) {
	var body validateRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	iv, err := s.quotes.Validate(r.Context(), chiv5.URLParam(r, "id"), quoteuc.ValidationInput{
		FinalSolution: body.FinalSolution,
		ProblemType:   body.ProblemType,
		Keywords:      body.Keywords,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, interventionToView(iv))
}

// ReanalyzeRequest handles POST /api/requests/{id}/reanalyze.
func (s *Server) ReanalyzeRequest(w http.ResponseWriter, r *http.Request) {
	res, err := s.quotes.Reanalyze(r.Context(), chiv5.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analysisToView(res))
}

// RequestStats handles GET /api/requests/stats.
func (s *Server) RequestStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.quotes.CollectStats(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type classifyBody struct {
	Trade       string `json:"trade"`
	Description string `json:"description"`
}

// Classify handles POST /api/classify. It buckets a description into one of
// the per-trade problem-type labels without creating a request.
func (s *Server) Classify(w http.ResponseWriter, r *http.Request) {
	var body classifyBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	trade, err := domain.ParseTrade(body.Trade)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if body.Description == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "description is required")
		return
	}

	problemType, err := s.quotes.ClassifyProblemType(r.Context(), trade, body.Description)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"problemType": problemType})
}

// ListInterventions handles GET /api/interventions. The trade query
// parameter is required; the corpus is partitioned by trade.
func (s *Server) ListInterventions(w http.ResponseWriter, r *http.Request) {
	trade, err := domain.ParseTrade(r.URL.Query().Get("trade"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	interventions, err := s.corpus.ListValidated(r.Context(), trade)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	// Store iteration order is unspecified; present newest first.
	sort.Slice(interventions, func(i, j int) bool {
		if !interventions[i].ValidatedAt().Equal(interventions[j].ValidatedAt()) {
			return interventions[i].ValidatedAt().After(interventions[j].ValidatedAt())
		}
		return interventions[i].ID() < interventions[j].ID()
	})

	views := make([]interventionView, 0, len(interventions))
	for i := range interventions {
		views = append(views, interventionToView(interventions[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"interventions": views,
		"count":         len(views),
	})
}

// SearchInterventions handles GET /api/interventions/search. It exposes
// the retrieval engine directly: the same FindSimilar and Confidence calls
// the analysis pipeline makes, without creating a request.
func (s *Server) SearchInterventions(w http.ResponseWriter, r *http.Request) {
	trade, err := domain.ParseTrade(r.URL.Query().Get("trade"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	description := strings.TrimSpace(r.URL.Query().Get("description"))
	if description == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "description is required")
		return
	}

	var keywords []string
	if raw := r.URL.Query().Get("keywords"); raw != "" {
		for _, kw := range strings.Split(raw, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				keywords = append(keywords, kw)
			}
		}
	}

	results := s.matcher.FindSimilar(r.Context(), trade, description, keywords)

	writeJSON(w, http.StatusOK, map[string]any{
		"results":    matchesToViews(results),
		"confidence": s.matcher.Confidence(results),
		"count":      len(results),
	})
}

// GetIntervention handles GET /api/interventions/{id}.
func (s *Server) GetIntervention(w http.ResponseWriter, r *http.Request) {
	iv, err := s.corpus.Get(r.Context(), chiv5.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, interventionToView(iv))
}

// InterventionStats handles GET /api/interventions/stats.
func (s *Server) InterventionStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.corpus.CollectStats(r.Context(), s.now())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GetCatalog handles GET /api/prices.
func (s *Server) GetCatalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := s.prices.Catalog(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"catalog": catalog,
		"total":   catalog.Size(),
	})
}

// GetTradeCatalog handles GET /api/prices/trade/{trade}.
func (s *Server) GetTradeCatalog(w http.ResponseWriter, r *http.Request) {
	trade, err := domain.ParseTrade(chiv5.URLParam(r, "trade"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	catalog, err := s.prices.TradeCatalog(r.Context(), trade)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, catalog)
}

// GetPrice handles GET /api/prices/{code}.
func (s *Server) GetPrice(w http.ResponseWriter, r *http.Request) {
	price, err := s.prices.Lookup(r.Context(), chiv5.URLParam(r, "code"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, price)
}

type createPriceBody struct {
	Trade       string  `json:"trade"`
	Category    string  `json:"category"`
	Designation string  `json:"designation"`
	Amount      float64 `json:"amount"`
	Unit        string  `json:"unit"`
}

// CreatePrice handles POST /api/prices. The next free code for the trade
// and category is assigned server-side.
func (s *Server) CreatePrice(w http.ResponseWriter, r *http.Request) {
	var body createPriceBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	trade, err := domain.ParseTrade(body.Trade)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	category, err := domain.ParsePriceCategory(body.Category)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "category must be labor or materials")
		return
	}

	price, err := s.prices.Create(r.Context(), trade, category, body.Designation, body.Amount, body.Unit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, price)
}

type upsertPriceBody struct {
	Designation string  `json:"designation"`
	Amount      float64 `json:"amount"`
	Unit        string  `json:"unit"`
}

// UpsertPrice handles PUT /api/prices/{code}. Trade and category are
// derived from the code itself.
func (s *Server) UpsertPrice(w http.ResponseWriter, r *http.Request) {
	code := chiv5.URLParam(r, "code")
	trade, category, err := pricing.ParseCode(code)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	var body upsertPriceBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	price := domain.Price{
		Code:        code,
		Designation: body.Designation,
		Amount:      body.Amount,
		Unit:        body.Unit,
		Category:    category,
		Trade:       trade,
	}
	if err := s.prices.Upsert(r.Context(), price); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, price)
}

// DeletePrice handles DELETE /api/prices/{code}.
func (s *Server) DeletePrice(w http.ResponseWriter, r *http.Request) {
	if err := s.prices.Delete(r.Context(), chiv5.URLParam(r, "code")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SeedCatalog handles POST /api/prices/seed. Only missing default entries
// are written; operator edits survive.
func (s *Server) SeedCatalog(w http.ResponseWriter, r *http.Request) {
	n, err := s.prices.Seed(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"seeded": n})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrValidation,
		domain.ErrRequestNotFound,
		domain.ErrInterventionNotFound,
		domain.ErrPriceNotFound,
		domain.ErrAlreadyValidated,
		domain.ErrGenerationFailed,
		domain.ErrStoreUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// handleDomainError prefers the per-request logger placed in the context by
// the wide-event middleware, so domain errors carry the request_id.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logpkg.FromContextOr(r.Context(), s.logger)
	logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
