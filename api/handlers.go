package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"vestlock/models"
	"vestlock/safemath"
	"vestlock/service"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const principalHeader = "X-Principal"

type setupVestingRequest struct {
	Account       string `json:"account"`
	CliffDuration uint64 `json:"cliff_duration"`
	PeriodLength  uint64 `json:"period_length"`
	PeriodAmount  uint64 `json:"period_amount"`
	TotalLocked   uint64 `json:"total_locked"`
}

type lockedResponse struct {
	Account       string `json:"account"`
	ReferenceTime uint64 `json:"reference_time"`
	TotalLocked   uint64 `json:"total_locked"`
}

type setPrincipalRequest struct {
	Address string `json:"address"`
}

type transferOwnershipRequest struct {
	NewOwner string `json:"new_owner"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSetupVesting(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal(w, r)
	if !ok {
		return
	}

	pool, err := models.ParsePool(mux.Vars(r)["pool"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req setupVestingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = s.vesting.SetupVesting(r.Context(), caller, pool, req.Account,
		req.CliffDuration, req.PeriodLength, req.PeriodAmount, req.TotalLocked)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleCheckLocked(w http.ResponseWriter, r *http.Request) {
	s.handleLocked(w, r, s.vesting.CheckLocked)
}

func (s *Server) handlePreviewLocked(w http.ResponseWriter, r *http.Request) {
	s.handleLocked(w, r, s.vesting.PreviewLocked)
}

type lockedQuery func(ctx context.Context, caller, account string, referenceTime uint64) (uint64, error)

func (s *Server) handleLocked(w http.ResponseWriter, r *http.Request, query lockedQuery) {
	caller, ok := principal(w, r)
	if !ok {
		return
	}

	account := mux.Vars(r)["account"]

	referenceTime, err := parseReferenceTime(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid reference_time")
		return
	}

	total, err := query(r.Context(), caller, account, referenceTime)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lockedResponse{
		Account:       account,
		ReferenceTime: referenceTime,
		TotalLocked:   total,
	})
}

func (s *Server) handleGetSchedules(w http.ResponseWriter, r *http.Request) {
	account := mux.Vars(r)["account"]

	schedules, err := s.vesting.GetSchedules(r.Context(), account)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if schedules == nil {
		schedules = []*models.VestingSchedule{}
	}

	writeJSON(w, http.StatusOK, schedules)
}

func (s *Server) handleGetAccrualHistory(w http.ResponseWriter, r *http.Request) {
	account := mux.Vars(r)["account"]

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	entries, err := s.vesting.GetAccrualHistory(r.Context(), account, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []*models.AccrualEntry{}
	}

	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleGetPrincipals(w http.ResponseWriter, r *http.Request) {
	principals, err := s.admin.GetPrincipals(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if principals == nil {
		principals = []*models.Principal{}
	}

	writeJSON(w, http.StatusOK, principals)
}

func (s *Server) handleSetPrincipal(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal(w, r)
	if !ok {
		return
	}

	role, err := models.ParsePrincipalRole(mux.Vars(r)["role"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req setPrincipalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.admin.SetPrincipal(r.Context(), caller, role, req.Address); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTransferOwnership(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal(w, r)
	if !ok {
		return
	}

	var req transferOwnershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.admin.TransferOwnership(r.Context(), caller, req.NewOwner); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// principal extracts the platform-authenticated caller identity.
func principal(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller := r.Header.Get(principalHeader)
	if caller == "" {
		writeError(w, http.StatusUnauthorized, "missing "+principalHeader+" header")
		return "", false
	}
	return caller, true
}

func parseReferenceTime(r *http.Request) (uint64, error) {
	raw := r.URL.Query().Get("reference_time")
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseUint(raw, 10, 64)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrCliffNotElapsed):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidAccount),
		errors.Is(err, service.ErrInvalidPeriodLength),
		errors.Is(err, service.ErrInvalidPrincipal),
		errors.Is(err, service.ErrInvalidNewOwner):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, safemath.ErrOverflow),
		errors.Is(err, safemath.ErrUnderflow),
		errors.Is(err, safemath.ErrDivideByZero):
		writeError(w, http.StatusInternalServerError, "arithmetic fault")
	default:
		log.WithError(err).Error("Request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}
