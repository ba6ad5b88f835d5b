package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/Harmonybod/Event-Ticketing-System/internal/config"
	"github.com/Harmonybod/Event-Ticketing-System/internal/logger"
	"github.com/Harmonybod/Event-Ticketing-System/internal/utils"
)

type Handler struct {
	Cfg    config.AuthConfig
	Logger *logger.Logger
}

func NewHandler(cfg config.AuthConfig, log *logger.Logger) *Handler {
	return &Handler{Cfg: cfg, Logger: log}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks the officer credentials against the configured pair and
// issues a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if h.Cfg.AdminPassword == "" {
		utils.ErrorResponse(w, http.StatusServiceUnavailable, "officer login is not configured")
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.Cfg.AdminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.Cfg.AdminPassword)) == 1
	if !userOK || !passOK {
		h.Logger.Warn("AUTH", "failed login attempt for user "+req.Username)
		utils.ErrorResponse(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := IssueOfficerToken(h.Cfg.JWTSecret, req.Username, h.Cfg.TokenTTL)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	h.Logger.Info("AUTH", "officer "+req.Username+" logged in")
	utils.SuccessResponse(w, http.StatusOK, "Login successful", map[string]interface{}{
		"token":      token,
		"expires_in": int(h.Cfg.TokenTTL.Seconds()),
	})
}
