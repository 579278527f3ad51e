package boost

import "time"

// Hourly dice range. A fresh multiplier is drawn uniformly from [DiceMin, DiceMax).
const (
	DiceMin = 0.5
	DiceMax = 3.0
)

// DefaultMaxStack is used when a definition omits max_stack.
const DefaultMaxStack = 1

// diceHour is the wall-clock bucket the hourly dice is cached for.
const diceHour = time.Hour

// Log messages
const (
	LogMsgDiceRefreshed     = "Hourly dice multiplier refreshed"
	LogMsgDiceSaveFailed    = "Failed to persist hourly dice multiplier"
	LogMsgBoostGranted      = "Boost granted"
	LogMsgDefinitionsLoaded = "Boost definitions loaded"
)

// Error context messages
const (
	ErrContextFailedToReadDefinitions  = "failed to read boost definitions"
	ErrContextFailedToParseDefinitions = "failed to parse boost definitions"
	ErrContextFailedToGetBoosts        = "failed to get active boosts"
	ErrContextFailedToSaveBoost        = "failed to save boost"
)
