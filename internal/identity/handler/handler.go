package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"cloudid/internal/identity/models"
	dErrors "cloudid/pkg/domain-errors"
	"cloudid/pkg/platform/httputil"
	"cloudid/pkg/requestcontext"
)

// Service defines the lifecycle operations the handler exposes.
type Service interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.Identity, error)
	Confirm(ctx context.Context, req models.ConfirmRequest) (*models.Identity, error)
	Activate(ctx context.Context, id int64) (*models.Identity, error)
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (*models.Identity, error)
	ChangePassword(ctx context.Context, req models.ChangePasswordRequest) error
	CheckPassword(ctx context.Context, req models.CheckPasswordRequest) (bool, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*models.Identity, error)
	FindByDirectoryDN(ctx context.Context, dn string) (*models.Identity, error)
	ListByStatus(ctx context.Context, status models.Status) ([]*models.Identity, error)
}

// Handler wires identity lifecycle endpoints to the orchestrator.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an identity handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the public lifecycle endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Post("/identity/register", h.HandleRegister)
	r.Post("/identity/confirm", h.HandleConfirm)
	r.Post("/identity/password/reset", h.HandleResetPassword)
	r.Post("/identity/password/change", h.HandleChangePassword)
	r.Post("/identity/password/check", h.HandleCheckPassword)
	r.Get("/identity/whoami", h.HandleWhoAmI)
}

// RegisterAdmin mounts the administrative endpoints. The caller is expected
// to wrap the router in the admin guard.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/identity/{id}/activate", h.HandleActivate)
	r.Delete("/identity/{id}", h.HandleDelete)
	r.Get("/identity/{id}", h.HandleGet)
	r.Get("/identity", h.HandleList)
}

// HandleRegister handles POST /identity/register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.Decode[models.RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.service.Register(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "registration failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, record)
}

// HandleConfirm handles POST /identity/confirm.
func (h *Handler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.Decode[models.ConfirmRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.service.Confirm(ctx, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, record)
}

// HandleActivate handles POST /identity/{id}/activate.
func (h *Handler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	record, err := h.service.Activate(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "activation failed",
			"request_id", requestcontext.RequestID(ctx),
			"identity_id", id,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, record)
}

// HandleResetPassword handles POST /identity/password/reset.
func (h *Handler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.Decode[models.ResetPasswordRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.service.ResetPassword(ctx, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, record)
}

// HandleChangePassword handles POST /identity/password/change.
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.Decode[models.ChangePasswordRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.ChangePassword(ctx, req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleCheckPassword handles POST /identity/password/check.
func (h *Handler) HandleCheckPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.Decode[models.CheckPasswordRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	valid, err := h.service.CheckPassword(ctx, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"valid": valid})
}

// HandleDelete handles DELETE /identity/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleGet handles GET /identity/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	record, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, record)
}

// HandleList handles GET /identity?status=.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	status := models.Status(r.URL.Query().Get("status"))

	records, err := h.service.ListByStatus(r.Context(), status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if records == nil {
		records = []*models.Identity{}
	}

	httputil.WriteJSON(w, http.StatusOK, records)
}

// HandleWhoAmI handles GET /identity/whoami. The subject comes from the
// transport layer, already validated; resolution fails closed on anything
// but exactly one match.
func (h *Handler) HandleWhoAmI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subject := requestcontext.CertSubject(ctx)
	if subject == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "no certificate subject"))
		return
	}

	record, err := h.service.FindByDirectoryDN(ctx, subject)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, record)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid identity id"))
		return 0, false
	}
	return id, true
}
