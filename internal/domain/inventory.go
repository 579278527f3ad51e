package domain

// DefaultInventoryCapacity is the total fumo count a user may hold when not configured.
const DefaultInventoryCapacity = 100000

// InventoryEntry is one stack of identical fumos keyed by (UserID, Name).
// Name is the full display name including variant tags.
type InventoryEntry struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Rarity   Rarity `json:"rarity"`
	Quantity int    `json:"quantity"`
}

// InventoryCredit is a pending upsert of Quantity copies of Name.
type InventoryCredit struct {
	Name     string `json:"name"`
	Rarity   Rarity `json:"rarity"`
	Quantity int    `json:"quantity"`
}
