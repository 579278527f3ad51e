package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/osse101/FumoBot_Go/internal/domain"
	"github.com/osse101/FumoBot_Go/internal/inventory"
)

// InventoryReader lists a user's fumo stacks
type InventoryReader interface {
	List(ctx context.Context, userID string, rarity domain.Rarity) ([]domain.InventoryEntry, error)
}

// CapacityReader reports a user's storage usage
type CapacityReader interface {
	CanAdmit(ctx context.Context, userID string, count int) (inventory.Admission, error)
}

// InventoryResponse is a user's inventory and storage usage
type InventoryResponse struct {
	Items    []domain.InventoryEntry `json:"items"`
	Count    int                     `json:"count"`
	Capacity int                     `json:"capacity"`
}

// HandleGetInventory lists a user's inventory, optionally filtered by rarity
func HandleGetInventory(items InventoryReader, capacity CapacityReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetQueryParam(r, w, "user_id")
		if !ok {
			return
		}

		var filter domain.Rarity
		if raw := GetOptionalQueryParam(r, "rarity", ""); raw != "" {
			parsed, err := domain.ParseRarity(raw)
			if err != nil {
				respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgInvalidRarityParam, raw))
				return
			}
			filter = parsed
		}

		entries, err := items.List(r.Context(), userID, filter)
		if err != nil {
			respondServiceError(w, r, "Get inventory", err)
			return
		}
		usage, err := capacity.CanAdmit(r.Context(), userID, 0)
		if err != nil {
			respondServiceError(w, r, "Get inventory", err)
			return
		}

		respondJSON(w, http.StatusOK, InventoryResponse{
			Items:    entries,
			Count:    usage.Current,
			Capacity: usage.Capacity,
		})
	}
}
