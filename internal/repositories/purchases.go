package repositories

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fitflix/backend/internal/models"
)

// encodePurchases renders a purchase set into the text column format.
func encodePurchases(p models.PurchaseSet) (string, error) {
	if len(p) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal([]int(p))
	if err != nil {
		return "", fmt.Errorf("encode purchases: %w", err)
	}
	return string(raw), nil
}

// decodePurchases parses the purchases column. Empty text and null decode to
// an empty set.
func decodePurchases(raw string) (models.PurchaseSet, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return models.PurchaseSet{}, nil
	}
	var ids []int
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decode purchases %q: %w", raw, err)
	}
	if ids == nil {
		ids = []int{}
	}
	return models.PurchaseSet(ids), nil
}
