package handler

import (
	"net/http"
	"time"

	"github.com/osse101/FumoBot_Go/internal/boost"
	"github.com/osse101/FumoBot_Go/internal/domain"
	"github.com/osse101/FumoBot_Go/internal/event"
	"github.com/osse101/FumoBot_Go/internal/logger"
)

// GrantBoostRequest grants the boost defined under Source
type GrantBoostRequest struct {
	UserID string `json:"user_id" validate:"required,max=64,excludesall=\x00\n\r\t"`
	Source string `json:"source" validate:"required,max=64"`
}

// BoostView is one active boost row as returned to clients
type BoostView struct {
	Source    string           `json:"source"`
	Kind      domain.BoostKind `json:"kind"`
	Stack     int              `json:"stack"`
	ExpiresAt *time.Time       `json:"expires_at,omitempty"`
	Effect    domain.Effect    `json:"effect"`
}

// BoostsResponse carries the composed modifiers and the rows behind them
type BoostsResponse struct {
	Modifiers boost.Modifiers `json:"modifiers"`
	Boosts    []BoostView     `json:"boosts"`
}

func toView(b domain.Boost) BoostView {
	return BoostView{Source: b.Source, Kind: b.Kind(), Stack: b.StackCount(), ExpiresAt: b.ExpiresAt, Effect: b.Effect}
}

// HandleGetBoosts returns a user's active boosts and their combined effect
func HandleGetBoosts(ledger boost.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetQueryParam(r, w, "user_id")
		if !ok {
			return
		}
		now := time.Now()

		mods, rows, err := ledger.Preview(r.Context(), userID, now)
		if err != nil {
			respondServiceError(w, r, "Get boosts", err)
			return
		}

		views := make([]BoostView, 0, len(rows))
		for _, b := range rows {
			views = append(views, toView(b))
		}
		respondJSON(w, http.StatusOK, BoostsResponse{Modifiers: mods, Boosts: views})
	}
}

// HandleGrantBoost grants a configured boost source to a user
func HandleGrantBoost(ledger boost.Ledger, bus event.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GrantBoostRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Grant boost"); err != nil {
			return
		}

		granted, err := ledger.Grant(r.Context(), req.UserID, req.Source, time.Now())
		if err != nil {
			respondServiceError(w, r, "Grant boost", err)
			return
		}

		if err := bus.Publish(r.Context(), event.NewBoostGrantedEvent(*granted)); err != nil {
			logger.FromContext(r.Context()).Warn("Failed to publish boost granted event", "error", err)
		}

		respondJSON(w, http.StatusCreated, toView(*granted))
	}
}
