package handler

import (
	"context"
	"net/http"

	"github.com/osse101/FumoBot_Go/internal/autoroll"
	"github.com/osse101/FumoBot_Go/internal/catalog"
	"github.com/osse101/FumoBot_Go/internal/logger"
	"github.com/osse101/FumoBot_Go/internal/roll"
)

// Request bounds. The roll service enforces its configured batch limit on top of MaxBatchCount.
const (
	MaxUserIDLength = 64
	MaxBatchCount   = 1000
)

// RollRequest is the body of a single roll
type RollRequest struct {
	UserID string `json:"user_id" validate:"required,max=64,excludesall=\x00\n\r\t"`
}

// RollBatchRequest is the body of a batch roll
type RollBatchRequest struct {
	UserID string `json:"user_id" validate:"required,max=64,excludesall=\x00\n\r\t"`
	Count  int    `json:"count" validate:"min=1,max=1000"`
}

// AutoRollStartRequest starts a session. BatchSize 0 uses the server default.
type AutoRollStartRequest struct {
	UserID    string `json:"user_id" validate:"required,max=64,excludesall=\x00\n\r\t"`
	BatchSize int    `json:"batch_size" validate:"min=0,max=1000"`
}

// AutoRoller is the session store behind the auto-roll routes
type AutoRoller interface {
	Start(ctx context.Context, userID string, cat catalog.Provider, opts autoroll.Options) (autoroll.Summary, error)
	Stop(userID string) (autoroll.Summary, error)
	Status(userID string) (autoroll.Summary, error)
}

// RollHandler serves the roll and auto-roll routes
type RollHandler struct {
	rolls    roll.Service
	autoRoll AutoRoller
	catalog  catalog.Provider
}

// NewRollHandler creates a RollHandler
func NewRollHandler(rolls roll.Service, autoRoll AutoRoller, cat catalog.Provider) *RollHandler {
	return &RollHandler{rolls: rolls, autoRoll: autoRoll, catalog: cat}
}

// HandleRoll rolls one fumo
func (h *RollHandler) HandleRoll(w http.ResponseWriter, r *http.Request) {
	var req RollRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Roll"); err != nil {
		return
	}

	outcome, err := h.rolls.RollOnce(r.Context(), req.UserID, h.catalog)
	if err != nil {
		respondServiceError(w, r, "Roll", err)
		return
	}

	logger.FromContext(r.Context()).Info("Roll completed", "user_id", req.UserID, "rarity", outcome.Rarity)
	respondJSON(w, http.StatusOK, outcome)
}

// HandleRollBatch rolls a batch as one transaction
func (h *RollHandler) HandleRollBatch(w http.ResponseWriter, r *http.Request) {
	var req RollBatchRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Roll batch"); err != nil {
		return
	}

	res, err := h.rolls.RollBatch(r.Context(), req.UserID, h.catalog, req.Count, false)
	if err != nil {
		respondServiceError(w, r, "Roll batch", err)
		return
	}

	logger.FromContext(r.Context()).Info("Roll batch completed",
		"user_id", req.UserID,
		"requested", res.Requested,
		"credited", res.Credited,
		"partial", res.Partial)
	respondJSON(w, http.StatusOK, res)
}

// HandleStartAutoRoll starts an auto-roll session
func (h *RollHandler) HandleStartAutoRoll(w http.ResponseWriter, r *http.Request) {
	var req AutoRollStartRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Start auto-roll"); err != nil {
		return
	}

	summary, err := h.autoRoll.Start(r.Context(), req.UserID, h.catalog, autoroll.Options{BatchSize: req.BatchSize})
	if err != nil {
		respondServiceError(w, r, "Start auto-roll", err)
		return
	}

	respondJSON(w, http.StatusAccepted, summary)
}

// HandleStopAutoRoll asks the user's session to stop after its current batch
func (h *RollHandler) HandleStopAutoRoll(w http.ResponseWriter, r *http.Request) {
	var req RollRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Stop auto-roll"); err != nil {
		return
	}

	summary, err := h.autoRoll.Stop(req.UserID)
	if err != nil {
		respondServiceError(w, r, "Stop auto-roll", err)
		return
	}

	respondJSON(w, http.StatusAccepted, DataResponse{Message: MsgAutoRollStopping, Data: summary})
}

// HandleGetAutoRoll returns the running or recently stopped session
func (h *RollHandler) HandleGetAutoRoll(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetQueryParam(r, w, "user_id")
	if !ok {
		return
	}

	summary, err := h.autoRoll.Status(userID)
	if err != nil {
		respondServiceError(w, r, "Get auto-roll", err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}
