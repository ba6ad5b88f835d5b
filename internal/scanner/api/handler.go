package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Harmonybod/Event-Ticketing-System/internal/scanner"
	"github.com/Harmonybod/Event-Ticketing-System/internal/utils"
)

type Handler struct {
	Scanner *scanner.Service
}

func NewHandler(s *scanner.Service) *Handler {
	return &Handler{Scanner: s}
}

type validateRequest struct {
	Hashkey string `json:"hashkey"`
}

// ValidateTicket handles the gate scan. The three outcomes (valid, used,
// invalid) are all HTTP 200; the scanner UI switches on the status field.
func (h *Handler) ValidateTicket(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.Scanner.Validate(r.Context(), strings.TrimSpace(req.Hashkey))
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Scan failed: "+err.Error())
		return
	}

	utils.SuccessResponse(w, http.StatusOK, result.Message, result)
}
