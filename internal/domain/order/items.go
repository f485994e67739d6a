package order

import (
	"math"
	"strconv"
	"strings"
)

const (
	itemSeparator     = ";"
	quantitySeparator = ":"

	// maxProductID is the largest key a SERIAL product column can hold.
	maxProductID = math.MaxInt32
)

// LineItem is one product reference with its quantity.
type LineItem struct {
	ProductID int64
	Quantity  int64
}

// ParseItems decodes the "productId:qty;productId:qty" wire format.
// Segments that do not hold two positive integers, or whose product id is
// beyond the key range of the catalog, are skipped.
func ParseItems(raw string) []LineItem {
	segments := strings.Split(raw, itemSeparator)
	items := make([]LineItem, 0, len(segments))
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		id, qty, ok := strings.Cut(seg, quantitySeparator)
		if !ok {
			continue
		}
		productID, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		if err != nil || productID <= 0 || productID > maxProductID {
			continue
		}
		quantity, err := strconv.ParseInt(strings.TrimSpace(qty), 10, 64)
		if err != nil || quantity <= 0 {
			continue
		}
		items = append(items, LineItem{ProductID: productID, Quantity: quantity})
	}
	return items
}

// EncodeItems is the inverse of ParseItems.
func EncodeItems(items []LineItem) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString(itemSeparator)
		}
		b.WriteString(strconv.FormatInt(item.ProductID, 10))
		b.WriteString(quantitySeparator)
		b.WriteString(strconv.FormatInt(item.Quantity, 10))
	}
	return b.String()
}
