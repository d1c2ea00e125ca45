package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/godilite/kiosk-feedback/internal/service"
)

const (
	defaultRequestTimeout = 10 * time.Second
	maxBodyBytes          = 64 << 10
)

// Handler serves the kiosk and dashboard JSON API.
type Handler struct {
	assembler      FeedbackAssembler
	monthly        MonthlyAggregator
	trend          TrendAggregator
	catalog        Catalog
	logger         *zap.Logger
	allowedOrigins []string
	newSessionID   func() string
}

// Config defines dependencies required by Handler.
type Config struct {
	Assembler      FeedbackAssembler
	Monthly        MonthlyAggregator
	Trend          TrendAggregator
	Catalog        Catalog
	Logger         *zap.Logger
	AllowedOrigins []string
}

func NewHandler(cfg Config) *Handler {
	if cfg.Assembler == nil || cfg.Monthly == nil || cfg.Trend == nil || cfg.Catalog == nil {
		panic("nil service provided to NewHandler")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return &Handler{
		assembler:      cfg.Assembler,
		monthly:        cfg.Monthly,
		trend:          cfg.Trend,
		catalog:        cfg.Catalog,
		logger:         logger.Named("http-handler"),
		allowedOrigins: origins,
		newSessionID:   uuid.NewString,
	}
}

// Router builds the chi router with middleware and every route mounted.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(defaultRequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/feedback/session", h.createSession)
		r.Post("/feedback", h.ensureFeedback)
		r.Get("/feedback/{id}", h.getFeedback)
		r.Post("/feedback-staff", h.attachStaff)
		r.Post("/feedback-dissatisfaction", h.attachReason)

		r.Get("/staff", h.listStaff)
		r.Get("/dissatisfaction-reasons", h.listReasons)
		r.Get("/ratings", h.listEmotions)

		r.Get("/staff-selections", h.staffSelections)
		r.Get("/dissatisfaction-summary", h.dissatisfactionSummary)
		r.Get("/staff-selection-trends", h.staffSelectionTrends)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// createSession hands the kiosk a fresh feedback id. Nothing is stored until
// the first fact is submitted under it.
func (h *Handler) createSession(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusCreated, map[string]string{"feedbackId": h.newSessionID()})
}

type ensureFeedbackRequest struct {
	FeedbackID string `json:"feedbackId"`
	Rating     string `json:"rating"`
	Comment    string `json:"comment"`
}

func (h *Handler) ensureFeedback(w http.ResponseWriter, r *http.Request) {
	var req ensureFeedbackRequest
	if !h.decode(w, r, &req) {
		return
	}
	rating, err := service.ParseOverallRating(req.Rating)
	if err != nil {
		h.writeError(w, "save feedback", err)
		return
	}

	rec, err := h.assembler.EnsureFeedback(r.Context(), req.FeedbackID, rating, req.Comment)
	if err != nil {
		h.writeError(w, "save feedback", err)
		return
	}
	h.writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) getFeedback(w http.ResponseWriter, r *http.Request) {
	detail, err := h.assembler.Feedback(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, "fetch feedback", err)
		return
	}
	h.writeJSON(w, http.StatusOK, detail)
}

type attachStaffRequest struct {
	FeedbackID string `json:"feedbackId"`
	StaffID    string `json:"staffId"`
	Rating     string `json:"rating"`
}

func (h *Handler) attachStaff(w http.ResponseWriter, r *http.Request) {
	var req attachStaffRequest
	if !h.decode(w, r, &req) {
		return
	}

	link, err := h.assembler.AttachStaff(r.Context(), req.FeedbackID, req.StaffID, req.Rating)
	if err != nil {
		h.writeError(w, "create feedback staff entry", err)
		return
	}
	h.writeJSON(w, http.StatusOK, link)
}

type attachReasonRequest struct {
	FeedbackID string `json:"feedbackId"`
	ReasonID   string `json:"reasonId"`
}

func (h *Handler) attachReason(w http.ResponseWriter, r *http.Request) {
	var req attachReasonRequest
	if !h.decode(w, r, &req) {
		return
	}

	link, err := h.assembler.AttachReason(r.Context(), req.FeedbackID, req.ReasonID)
	if err != nil {
		h.writeError(w, "save feedback reason", err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "link": link})
}

func (h *Handler) listStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.catalog.ActiveStaff(r.Context())
	if err != nil {
		h.writeError(w, "fetch staff", err)
		return
	}
	h.writeJSON(w, http.StatusOK, staff)
}

func (h *Handler) listReasons(w http.ResponseWriter, r *http.Request) {
	reasons, err := h.catalog.ActiveReasons(r.Context())
	if err != nil {
		h.writeError(w, "fetch dissatisfaction reasons", err)
		return
	}
	h.writeJSON(w, http.StatusOK, reasons)
}

func (h *Handler) listEmotions(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.catalog.Emotions())
}

func (h *Handler) staffSelections(w http.ResponseWriter, r *http.Request) {
	month, ok := h.monthParam(w, r)
	if !ok {
		return
	}

	rows, err := h.monthly.StaffSelectionCounts(r.Context(), month)
	if err != nil {
		h.writeError(w, "fetch staff selections", err)
		return
	}
	h.writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) dissatisfactionSummary(w http.ResponseWriter, r *http.Request) {
	month, ok := h.monthParam(w, r)
	if !ok {
		return
	}

	summary, err := h.monthly.DissatisfactionSummary(r.Context(), month)
	if err != nil {
		h.writeError(w, "fetch dissatisfaction summary", err)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) staffSelectionTrends(w http.ResponseWriter, r *http.Request) {
	series, err := h.trend.TrendSeries(r.Context())
	if err != nil {
		h.writeError(w, "fetch staff selection trends", err)
		return
	}
	h.writeJSON(w, http.StatusOK, series)
}

func (h *Handler) monthParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month == "" {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing month parameter"})
		return "", false
	}
	return month, true
}
