package roll

// Defaults used when Config fields are unset.
const (
	DefaultCost                 int64 = 100
	DefaultMaxBatchSize               = 100
	DefaultBoostChargeThreshold       = 1000
	DefaultBoostedModeRolls           = 250
	DefaultBoostedModeLuck            = 3.0
)

// Log messages
const (
	LogMsgRollCommitted      = "Roll transaction committed"
	LogMsgRollRolledBack     = "Roll transaction rolled back"
	LogMsgRefundFailed       = "Failed to refund roll cost"
	LogMsgProgressSaveFailed = "Failed to persist roll progress; inventory already credited"
	LogMsgPublishFailed      = "Failed to publish roll event"
	LogMsgPhase              = "Roll transaction phase"
	LogMsgRollPanic          = "Recovered panic during roll resolution"
)

// Error detail messages
const (
	ErrDetailLock         = "failed to acquire user lock: %v"
	ErrDetailCapacity     = "failed to check capacity: %v"
	ErrDetailState        = "failed to load roll state: %v"
	ErrDetailDebit        = "failed to debit coins: %v"
	ErrDetailCredit       = "failed to credit inventory: %v"
	ErrDetailPanic        = "panic during roll: %v"
	ErrDetailNoFumo       = "no catalog entry for rarity %s"
	ErrDetailCapacityRace = "inventory filled during roll"
	ErrDetailStorageFull  = "inventory holds %d of %d"
	ErrDetailInsufficient = "need %d coins, have %d"
)
