// Package server exposes the validator attestation service over HTTP,
// in the method-check / decode / delegate / encode shape the teacher's
// pkg/server handlers use throughout.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/x1proto/bridge-validator/pkg/attestation"
	"github.com/x1proto/bridge-validator/pkg/bridgeerr"
	"github.com/x1proto/bridge-validator/pkg/database"
	"github.com/x1proto/bridge-validator/pkg/metrics"
)

// AuditRecorder persists one row per issued attestation. It is optional —
// a validator running without a database still attests, it just leaves
// no audit trail.
type AuditRecorder interface {
	Insert(ctx context.Context, rec database.AttestationRecord) error
}

// AttestationHandlers wires a single validator's attestation.Handler to
// HTTP.
type AttestationHandlers struct {
	handler *attestation.Handler
	logger  *log.Logger
	audit   AuditRecorder
}

func NewAttestationHandlers(handler *attestation.Handler, logger *log.Logger) *AttestationHandlers {
	if logger == nil {
		logger = log.New(log.Writer(), "[Server] ", log.LstdFlags)
	}
	return &AttestationHandlers{handler: handler, logger: logger}
}

// WithAuditRecorder attaches an audit trail to an existing handler set.
// Chainable so callers can write h := NewAttestationHandlers(...).WithAuditRecorder(repo).
func (h *AttestationHandlers) WithAuditRecorder(audit AuditRecorder) *AttestationHandlers {
	h.audit = audit
	return h
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSONError(w http.ResponseWriter, status int, kind string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: kind})
}

// HandleAttestBurn serves POST /attest-burn-v3. There is deliberately no
// fallback to any earlier wire version — an unversioned or v2 request
// simply doesn't match this route.
func (h *AttestationHandlers) HandleAttestBurn(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed")
		return
	}

	var req attestation.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request_body")
		return
	}

	requestID := uuid.NewString()

	start := time.Now()
	att, err := h.handler.AttestBurn(r.Context(), req)
	metrics.AttestationDuration.Observe(time.Since(start).Seconds())

	assetLabel := fmt.Sprintf("%d", req.AssetID)
	if err != nil {
		status, kind := classifyError(err)
		metrics.AttestationsIssuedTotal.WithLabelValues(assetLabel, kind).Inc()
		h.logger.Printf("[%s] attest-burn-v3 failed for burn_nonce=%d: %v", requestID, req.BurnNonce, err)
		writeJSONError(w, status, kind)
		return
	}
	h.logger.Printf("[%s] attest-burn-v3 issued for burn_nonce=%d asset=%d", requestID, att.BurnNonce, att.AssetID)

	if h.audit != nil {
		rec := database.AttestationRecord{
			ValidatorPubKey: att.ValidatorPubKey,
			AssetID:         att.AssetID,
			SetVersion:      att.SetVersion,
			BurnNonce:       att.BurnNonce,
			Amount:          att.Amount,
			User:            att.User,
			Signature:       att.Signature,
			IssuedAt:        att.Timestamp,
		}
		if err := h.audit.Insert(context.Background(), rec); err != nil {
			h.logger.Printf("[%s] failed to write audit record for burn_nonce=%d: %v", requestID, att.BurnNonce, err)
		}
	}

	metrics.AttestationsIssuedTotal.WithLabelValues(fmt.Sprintf("%d", att.AssetID), "ok").Inc()
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(att)
}

// classifyError maps the bridge's closed error taxonomy to an HTTP
// status and a stable wire error kind a relay can match on.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, bridgeerr.ErrBurnNotFound):
		return http.StatusNotFound, "burn_not_found"
	case errors.Is(err, bridgeerr.ErrNotFinalized):
		return http.StatusConflict, "not_finalized"
	case errors.Is(err, bridgeerr.ErrUnknownAsset):
		return http.StatusUnprocessableEntity, "unknown_asset"
	case errors.Is(err, bridgeerr.ErrUserMismatch):
		return http.StatusUnprocessableEntity, "user_mismatch"
	case errors.Is(err, bridgeerr.ErrAmountMismatch):
		return http.StatusUnprocessableEntity, "amount_mismatch"
	case errors.Is(err, bridgeerr.ErrWrongSetVersion):
		return http.StatusConflict, "wrong_set_version"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
