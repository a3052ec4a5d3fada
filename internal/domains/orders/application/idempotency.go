package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"github.com/Apurer/petify-api/internal/domains/orders/ports"
)

type normalizedPlaceOrder struct {
	CustomerID    string           `json:"customerId"`
	PaymentMethod string           `json:"paymentMethod"`
	Items         []normalizedItem `json:"items"`
}

type normalizedItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
	Name      string `json:"name"`
	Image     string `json:"image"`
}

// FingerprintPlaceOrder hashes the order request, excluding the idempotency key.
// Item order does not affect the fingerprint.
func FingerprintPlaceOrder(input ports.PlaceOrderInput) (string, error) {
	payload, err := json.Marshal(normalizePlaceOrder(input))
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

func normalizePlaceOrder(input ports.PlaceOrderInput) normalizedPlaceOrder {
	items := make([]normalizedItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, normalizedItem{
			ProductID: strings.TrimSpace(item.ProductID),
			Quantity:  item.Quantity,
			Price:     item.Price.String(),
			Name:      item.Snapshot.Name,
			Image:     item.Snapshot.Image,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].ProductID != items[j].ProductID {
			return items[i].ProductID < items[j].ProductID
		}
		return items[i].Quantity < items[j].Quantity
	})
	return normalizedPlaceOrder{
		CustomerID:    strings.TrimSpace(input.CustomerID),
		PaymentMethod: strings.ToLower(strings.TrimSpace(string(input.PaymentMethod))),
		Items:         items,
	}
}
