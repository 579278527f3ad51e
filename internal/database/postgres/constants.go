package postgres

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
	LogMsgRollbackFailed            = "Failed to rollback transaction"
)

// Error Messages - Economy Operations
const (
	ErrMsgFailedToGetEconomyState    = "failed to get economy state"
	ErrMsgFailedToEnsureEconomyState = "failed to ensure economy state"
	ErrMsgFailedToDebit              = "failed to debit balance"
	ErrMsgFailedToCredit             = "failed to credit balance"
	ErrMsgFailedToSaveProgress       = "failed to save roll progress"
	ErrMsgFailedToConsumeBoost       = "failed to consume boost uses"
	ErrMsgFailedToEncodePity         = "failed to encode pity counters"
	ErrMsgFailedToDecodePity         = "failed to decode pity counters"
	ErrMsgUnknownCurrency            = "unknown currency field"
)

// Error Messages - Boost Operations
const (
	ErrMsgFailedToGetBoosts    = "failed to get active boosts"
	ErrMsgFailedToSaveBoost    = "failed to save boost"
	ErrMsgFailedToPruneBoosts  = "failed to delete expired boosts"
	ErrMsgFailedToDecodeBoost  = "failed to decode boost row"
	ErrMsgFailedToEncodeEffect = "failed to encode boost effect"
)

// Error Messages - Inventory Operations
const (
	ErrMsgFailedToCountItems   = "failed to count inventory items"
	ErrMsgFailedToUpsertItems  = "failed to upsert inventory items"
	ErrMsgFailedToListItems    = "failed to list inventory items"
	ErrMsgFailedToDecodeRarity = "failed to decode stored rarity"
)

// Migrations
const (
	ErrMsgFailedToSetDialect    = "failed to set goose dialect"
	ErrMsgFailedToRunMigrations = "failed to run migrations"
	LogMsgMigrationsApplied     = "Database migrations applied"

	gooseDialect  = "postgres"
	migrationsDir = "migrations"
)
