package inventory

// Error context messages
const (
	ErrContextFailedToCountItems  = "failed to count inventory items"
	ErrContextFailedToUpsertItems = "failed to upsert inventory items"
	ErrContextFailedToListItems   = "failed to list inventory items"
)

// Log messages
const (
	LogMsgCapacityRejected = "Inventory capacity rejected roll"
	LogMsgItemsCredited    = "Inventory items credited"
)
