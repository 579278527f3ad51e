package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingQueryParam     = "Missing %s query parameter"
	ErrMsgInvalidRarityParam    = "Invalid rarity '%s'"
)

// User-facing messages derived from domain errors
const (
	ErrMsgGenericServerError   = "Something went wrong"
	ErrMsgUnknownError         = "Unknown error"
	ErrMsgUserNotFoundError    = "User not found"
	ErrMsgInvalidRequestError  = "Invalid request. Please check your inputs."
	ErrMsgNotEnoughCoinsError  = "Not enough coins"
	ErrMsgStorageFullError     = "Storage is full"
	ErrMsgNoFumoFoundError     = "No fumo found for the rolled rarity"
	ErrMsgRollFailedError      = "Roll failed. Your coins were refunded."
	ErrMsgUnknownBoostError    = "Unknown boost source"
	ErrMsgSessionActiveError   = "An auto-roll session is already running"
	ErrMsgSessionNotFoundError = "No auto-roll session found"
	ErrMsgUnavailableError     = "Server is temporarily unavailable. Please try again later."
)

// Success messages
const (
	MsgUserCreated       = "User created"
	MsgUserAlreadyExists = "User already exists"
	MsgAutoRollStopping  = "Auto-roll stopping after the current batch"
)

// Log messages
const (
	LogMsgDecodeFailed   = "Failed to decode request"
	LogMsgInvalidRequest = "Invalid request"
	LogMsgServiceError   = "Service call failed"
	LogMsgEncodeFailed   = "Failed to encode JSON response"
	LogMsgWriteFailed    = "Failed to write response buffer"
	LogMsgReadyzFailed   = "Readiness check failed"
)
