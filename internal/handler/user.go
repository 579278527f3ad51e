package handler

import (
	"context"
	"net/http"

	"github.com/osse101/FumoBot_Go/internal/domain"
	"github.com/osse101/FumoBot_Go/internal/logger"
)

// EconomyStore creates and reads economy rows
type EconomyStore interface {
	GetEconomyState(ctx context.Context, userID string) (*domain.EconomyState, error)
	EnsureEconomyState(ctx context.Context, userID string, startingCoins int64) (bool, error)
}

// CreateUserRequest registers a user with the starting balance
type CreateUserRequest struct {
	UserID string `json:"user_id" validate:"required,max=64,excludesall=\x00\n\r\t"`
}

// HandleCreateUser creates the user's economy row if it does not exist
func HandleCreateUser(store EconomyStore, startingCoins int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateUserRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Create user"); err != nil {
			return
		}

		created, err := store.EnsureEconomyState(r.Context(), req.UserID, startingCoins)
		if err != nil {
			respondServiceError(w, r, "Create user", err)
			return
		}
		state, err := store.GetEconomyState(r.Context(), req.UserID)
		if err != nil {
			respondServiceError(w, r, "Create user", err)
			return
		}

		if !created {
			respondJSON(w, http.StatusOK, DataResponse{Message: MsgUserAlreadyExists, Data: state})
			return
		}
		logger.FromContext(r.Context()).Info("User created", "user_id", req.UserID, "coins", state.Coins)
		respondJSON(w, http.StatusCreated, DataResponse{Message: MsgUserCreated, Data: state})
	}
}

// HandleGetUser returns the user's balances and roll counters
func HandleGetUser(store EconomyStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetQueryParam(r, w, "user_id")
		if !ok {
			return
		}

		state, err := store.GetEconomyState(r.Context(), userID)
		if err != nil {
			respondServiceError(w, r, "Get user", err)
			return
		}
		respondJSON(w, http.StatusOK, state)
	}
}
