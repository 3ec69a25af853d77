package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sgprep/internal/operation"
	"sgprep/internal/operation/service"
	"sgprep/internal/platform/middleware"
	dErrors "sgprep/pkg/domain-errors"
	"sgprep/pkg/platform/httputil"
	"sgprep/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/operation-mocks.go -package=mocks

// Service defines the interface for operation workflows.
type Service interface {
	GetOperation(ctx context.Context, opNumber string) (operation.OperationView, error)
	GetEligibility(ctx context.Context, opNumber string) (operation.EligibilityView, error)
	CreateEligibility(ctx context.Context, opNumber string, req operation.EligibilityRequest) (*operation.EligibilitySubmission, error)
	AmendEligibility(ctx context.Context, opNumber string, req operation.EligibilityRequest) error
	DiscloseProjectProfile(ctx context.Context, opNumber string) error
	ProjectProfileTemplate(ctx context.Context, opNumber, lang string) (string, error)
	LoanModalityCode(ctx context.Context, opNumber string) (string, error)
	UserRoles(ctx context.Context, opNumber string) ([]string, error)
	GetOverview(ctx context.Context, opNumber string) (service.Overview, error)
}

// Handler wires the operation endpoints to the workflow service.
type Handler struct {
	service      Service
	logger       *slog.Logger
	jwtValidator middleware.JWTValidator
}

// New creates an operation Handler.
func New(service Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		service:      service,
		logger:       logger,
		jwtValidator: jwtValidator,
	}
}

// Register mounts the operation routes with their middleware chain.
func (h *Handler) Register(r chi.Router) {
	opRouter := chi.NewRouter()
	opRouter.Use(middleware.Recovery(h.logger))
	opRouter.Use(middleware.RequestID)
	opRouter.Use(middleware.RequestTime)
	opRouter.Use(middleware.Logger(h.logger))
	opRouter.Use(middleware.Timeout(30 * time.Second))
	opRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

	opRouter.Route("/api/operations/{opNumber}", func(r chi.Router) {
		r.Get("/", h.handleGetOperation)
		r.Get("/overview", h.handleGetOverview)
		r.Get("/project-profile", h.handleGetProjectProfile)
		r.Get("/code", h.handleGetCode)
		r.Get("/roles/me", h.handleGetUserRoles)
		r.Get("/eligibility", h.handleGetEligibility)
		r.Put("/eligibility", h.handleCreateEligibility)
		r.Post("/eligibility", h.handleAmendEligibility)
		r.Post("/documents/project-profile/disclosure", h.handleDisclose)
	})

	r.Mount("/", opRouter)
}

func (h *Handler) handleGetOperation(w http.ResponseWriter, r *http.Request) {
	opNumber := chi.URLParam(r, "opNumber")
	view, err := h.service.GetOperation(r.Context(), opNumber)
	if err != nil {
		h.writeServiceError(w, r, "get operation", opNumber, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleGetOverview(w http.ResponseWriter, r *http.Request) {
	opNumber := chi.URLParam(r, "opNumber")
	overview, err := h.service.GetOverview(r.Context(), opNumber)
	if err != nil {
		h.writeServiceError(w, r, "get overview", opNumber, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, overview)
}

func (h *Handler) handleGetProjectProfile(w http.ResponseWriter, r *http.Request) {
	opNumber := chi.URLParam(r, "opNumber")
	lang := r.URL.Query().Get("lang")
	template, err := h.service.ProjectProfileTemplate(r.Context(), opNumber, lang)
	if err != nil {
		h.writeServiceError(w, r, "get project profile template", opNumber, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"template": template})
}

func (h *Handler) handleGetCode(w http.ResponseWriter, r *http.Request) {
	opNumber := chi.URLParam(r, "opNumber")
	code, err := h.service.LoanModalityCode(r.Context(), opNumber)
	if err != nil {
		h.writeServiceError(w, r, "get loan modality code", opNumber, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"code": code})
}

func (h *Handler) handleGetUserRoles(w http.ResponseWriter, r *http.Request) {
	opNumber := chi.URLParam(r, "opNumber")
	roles, err := h.service.UserRoles(r.Context(), opNumber)
	if err != nil {
		h.writeServiceError(w, r, "get user roles", opNumber, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string][]string{"roles": roles})
}

func (h *Handler) handleGetEligibility(w http.ResponseWriter, r *http.Request) {
	opNumber := chi.URLParam(r, "opNumber")
	view, err := h.service.GetEligibility(r.Context(), opNumber)
	if err != nil {
		h.writeServiceError(w, r, "get eligibility", opNumber, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// handleCreateEligibility handles PUT .../eligibility: first-time creation,
// answering 201 with the created submission.
func (h *Handler) handleCreateEligibility(w http.ResponseWriter, r *http.Request) {
	opNumber := chi.URLParam(r, "opNumber")
	req, err := httputil.Decode[operation.EligibilityRequest](r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "invalid eligibility request body",
			"operation_number", opNumber,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		httputil.WriteError(w, err)
		return
	}

	created, err := h.service.CreateEligibility(r.Context(), opNumber, req)
	if err != nil {
		h.writeServiceError(w, r, "create eligibility", opNumber, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

// handleAmendEligibility handles POST .../eligibility: amendment of an
// existing submission, answering 200 with no body.
func (h *Handler) handleAmendEligibility(w http.ResponseWriter, r *http.Request) {
	opNumber := chi.URLParam(r, "opNumber")
	req, err := httputil.Decode[operation.EligibilityRequest](r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "invalid eligibility request body",
			"operation_number", opNumber,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.AmendEligibility(r.Context(), opNumber, req); err != nil {
		h.writeServiceError(w, r, "amend eligibility", opNumber, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleDisclose(w http.ResponseWriter, r *http.Request) {
	opNumber := chi.URLParam(r, "opNumber")
	if err := h.service.DiscloseProjectProfile(r.Context(), opNumber); err != nil {
		h.writeServiceError(w, r, "disclose project profile", opNumber, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// writeServiceError logs server-class failures and translates everything
// through the shared error envelope. Client-class outcomes (not found,
// validation) log at warn; they are expected negatives.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, action, opNumber string, err error) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	switch dErrors.CodeOf(err) {
	case dErrors.CodeNotFound, dErrors.CodeValidation, dErrors.CodeBadRequest:
		h.logger.WarnContext(ctx, action+" rejected",
			"operation_number", opNumber,
			"request_id", requestID,
			"error", err.Error(),
		)
	default:
		h.logger.ErrorContext(ctx, action+" failed",
			"operation_number", opNumber,
			"request_id", requestID,
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}
