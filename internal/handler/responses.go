package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/osse101/FumoBot_Go/internal/autoroll"
	"github.com/osse101/FumoBot_Go/internal/domain"
	"github.com/osse101/FumoBot_Go/internal/logger"
)

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response. Kind is set for roll errors.
type ErrorResponse struct {
	Error string               `json:"error"`
	Kind  domain.RollErrorKind `json:"kind,omitempty"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 512))
	},
}

// respondJSON encodes into a pooled buffer first so an encoding failure never leaves a half-written body
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufferPool.Put(buf)
	}()

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error(LogMsgEncodeFailed, "error", err)
		http.Error(w, ErrMsgGenericServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(LogMsgWriteFailed, "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// mapServiceError converts a service error to a status code and a user-facing body
func mapServiceError(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, ErrorResponse{Error: ErrMsgUnknownError}
	}

	if errors.Is(err, domain.ErrLockNotAcquired) {
		return http.StatusServiceUnavailable, ErrorResponse{Error: ErrMsgUnavailableError}
	}

	var rollErr *domain.RollError
	if errors.As(err, &rollErr) {
		switch rollErr.Kind {
		case domain.RollErrInsufficientCoins:
			return http.StatusPaymentRequired, ErrorResponse{Error: ErrMsgNotEnoughCoinsError, Kind: rollErr.Kind}
		case domain.RollErrStorageFull:
			return http.StatusConflict, ErrorResponse{Error: ErrMsgStorageFullError, Kind: rollErr.Kind}
		case domain.RollErrNoFumoFound:
			return http.StatusInternalServerError, ErrorResponse{Error: ErrMsgNoFumoFoundError, Kind: rollErr.Kind}
		default:
			return http.StatusInternalServerError, ErrorResponse{Error: ErrMsgRollFailedError, Kind: domain.RollErrRollFailed}
		}
	}

	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, ErrorResponse{Error: ErrMsgUserNotFoundError}
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnknownRarity):
		return http.StatusBadRequest, ErrorResponse{Error: ErrMsgInvalidRequestError}
	case errors.Is(err, domain.ErrBoostNotDefined):
		return http.StatusBadRequest, ErrorResponse{Error: ErrMsgUnknownBoostError}
	case errors.Is(err, domain.ErrSessionActive):
		return http.StatusConflict, ErrorResponse{Error: ErrMsgSessionActiveError}
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, ErrorResponse{Error: ErrMsgSessionNotFoundError}
	case errors.Is(err, autoroll.ErrManagerClosed):
		return http.StatusServiceUnavailable, ErrorResponse{Error: ErrMsgUnavailableError}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: ErrMsgGenericServerError}
	}
}

// respondServiceError logs err and writes its mapped response
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	status, body := mapServiceError(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(LogMsgServiceError, "operation", opName, "error", err)
	} else {
		log.Warn(LogMsgServiceError, "operation", opName, "error", err)
	}
	respondJSON(w, status, body)
}
