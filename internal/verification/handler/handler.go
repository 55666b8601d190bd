package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"refguard/internal/audit"
	"refguard/internal/platform/middleware"
	"refguard/internal/referrer"
	"refguard/internal/verification/models"
	"refguard/pkg/domain"
	dErrors "refguard/pkg/domain-errors"
	"refguard/pkg/platform/httputil"
)

// Service defines the interface for verification operations.
type Service interface {
	CreateVerification(ctx context.Context, userID, referrerID domain.UserID, code string, signup time.Time) (*models.VerificationRecord, error)
	Get(ctx context.Context, userID domain.UserID) (*models.VerificationRecord, error)
	ReferrerStats(ctx context.Context, referrerID domain.UserID) (*referrer.Stats, error)
	OverrideFraud(ctx context.Context, userID domain.UserID, adminID domain.AdminID, reason, requestID string) (*models.VerificationRecord, error)
	MarkDeleted(ctx context.Context, userID domain.UserID) error
}

// AuditLog exposes the per-user audit trail for the admin surface.
type AuditLog interface {
	List(ctx context.Context, userID domain.UserID) ([]audit.Event, error)
}

// Handler wires verification endpoints to the verification service.
type Handler struct {
	service  Service
	auditLog AuditLog
	logger   *slog.Logger
}

// New constructs a verification handler with its dependencies.
func New(service Service, auditLog AuditLog, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		auditLog: auditLog,
		logger:   logger,
	}
}

// Register mounts the service-facing endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/verifications", h.HandleCreate)
	r.Get("/verifications/{userID}", h.HandleGet)
	r.Get("/referrers/{userID}/stats", h.HandleReferrerStats)
}

// RegisterAdmin mounts the admin endpoints; the caller wraps them in admin
// auth middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/verifications/{userID}/override", h.HandleOverride)
	r.Delete("/verifications/{userID}", h.HandleDelete)
	r.Get("/verifications/{userID}/audit", h.HandleAuditTrail)
}

// HandleCreate handles POST /verifications requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	rec, err := h.service.CreateVerification(ctx, req.ParsedUserID(), req.ParsedReferrerID(), req.ReferralCode, req.SignupDate)
	if err != nil {
		h.logger.ErrorContext(ctx, "verification create failed",
			"request_id", requestID,
			"user_id", req.UserID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, FromRecord(rec))
}

// HandleGet handles GET /verifications/{userID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := domain.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	rec, err := h.service.Get(ctx, userID)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "verification fetch failed",
				"user_id", userID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromRecord(rec))
}

// HandleReferrerStats handles GET /referrers/{userID}/stats requests.
func (h *Handler) HandleReferrerStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	referrerID, err := domain.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	stats, err := h.service.ReferrerStats(ctx, referrerID)
	if err != nil {
		h.logger.ErrorContext(ctx, "referrer stats fetch failed",
			"referrer_id", referrerID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromStats(referrerID, stats))
}

// HandleOverride handles POST /admin/verifications/{userID}/override requests.
func (h *Handler) HandleOverride(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	adminID, err := domain.ParseAdminID(middleware.GetAdminID(ctx))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin identity required"))
		return
	}

	userID, err := domain.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[OverrideRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	rec, err := h.service.OverrideFraud(ctx, userID, adminID, req.Reason, requestID)
	if err != nil {
		h.logger.ErrorContext(ctx, "fraud override failed",
			"request_id", requestID,
			"user_id", userID,
			"admin_id", adminID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "fraud override applied",
		"request_id", requestID,
		"user_id", userID,
		"admin_id", adminID,
	)
	httputil.WriteJSON(w, http.StatusOK, FromRecord(rec))
}

// HandleDelete handles DELETE /admin/verifications/{userID} requests.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := domain.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.MarkDeleted(ctx, userID); err != nil {
		h.logger.ErrorContext(ctx, "verification delete failed",
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleAuditTrail handles GET /admin/verifications/{userID}/audit requests.
func (h *Handler) HandleAuditTrail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := domain.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	events, err := h.auditLog.List(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "audit trail fetch failed",
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromAuditEvents(events))
}
