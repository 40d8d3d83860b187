package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mvalens/leadkeeper/internal/common"
	contracts "github.com/mvalens/leadkeeper/internal/contracts/v1"
	"github.com/mvalens/leadkeeper/internal/logging"
	"github.com/mvalens/leadkeeper/internal/server/services"
)

// userAPI is the slice of UserService the handlers need.
type userAPI interface {
	Register(ctx context.Context, email, password, fullName string) (*services.TokenPair, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	UserIDFromToken(token string) (string, error)
}

// prospectAPI is the slice of ProspectService the handlers need.
type prospectAPI interface {
	Upsert(ctx context.Context, ownerID string, in *contracts.Prospect) error
	UpdatedSince(ctx context.Context, ownerID string, since time.Time) ([]contracts.Prospect, error)
}

// backupAPI mints presigned upload URLs.
type backupAPI interface {
	PresignBackupPut(ctx context.Context, ownerID string) (string, string, error)
}

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	users     userAPI
	prospects prospectAPI
	backups   backupAPI
	log       logging.Logger
}

func NewHandler(users userAPI, prospects prospectAPI, backups backupAPI, log logging.Logger) *Handler {
	return &Handler{users: users, prospects: prospects, backups: backups, log: log}
}

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req contracts.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	pair, err := h.users.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, common.ErrAlreadyExists):
			writeError(w, http.StatusConflict, err.Error())
		default:
			h.log.Error(r.Context(), "registration failed", "error", err)
			writeError(w, http.StatusInternalServerError, common.ErrInternal.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, contracts.TokenResponse{
		AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req contracts.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	pair, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, common.ErrUnauthorized.Error())
			return
		}
		h.log.Error(r.Context(), "login failed", "error", err)
		writeError(w, http.StatusInternalServerError, common.ErrInternal.Error())
		return
	}

	writeJSON(w, http.StatusOK, contracts.TokenResponse{
		AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req contracts.RefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	pair, err := h.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRefreshTokenExpired):
			writeError(w, http.StatusUnauthorized, common.ErrRefreshTokenExpired.Error())
		case errors.Is(err, common.ErrUnauthorized):
			writeError(w, http.StatusUnauthorized, common.ErrUnauthorized.Error())
		default:
			h.log.Error(r.Context(), "token refresh failed", "error", err)
			writeError(w, http.StatusInternalServerError, common.ErrInternal.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, contracts.TokenResponse{
		AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (h *Handler) upsertProspect(w http.ResponseWriter, r *http.Request) {
	var p contracts.Prospect
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := h.prospects.Upsert(r.Context(), userID(r.Context()), &p); err != nil {
		if errors.Is(err, common.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error(r.Context(), "prospect upsert failed", "error", err)
		writeError(w, http.StatusInternalServerError, common.ErrInternal.Error())
		return
	}

	writeJSON(w, http.StatusOK, nil)
}

func (h *Handler) listProspects(w http.ResponseWriter, r *http.Request) {
	since := time.Time{}
	if raw := r.URL.Query().Get("updated_since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "updated_since must be RFC3339")
			return
		}
		since = parsed
	}

	list, err := h.prospects.UpdatedSince(r.Context(), userID(r.Context()), since)
	if err != nil {
		h.log.Error(r.Context(), "prospect range query failed", "error", err)
		writeError(w, http.StatusInternalServerError, common.ErrInternal.Error())
		return
	}

	writeJSON(w, http.StatusOK, contracts.ProspectsResponse{Prospects: list})
}

func (h *Handler) presignBackup(w http.ResponseWriter, r *http.Request) {
	key, url, err := h.backups.PresignBackupPut(r.Context(), userID(r.Context()))
	if err != nil {
		h.log.Error(r.Context(), "backup presign failed", "error", err)
		writeError(w, http.StatusInternalServerError, common.ErrInternal.Error())
		return
	}

	writeJSON(w, http.StatusOK, contracts.PresignResponse{Key: key, URL: url})
}
