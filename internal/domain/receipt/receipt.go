// Package receipt renders and stores the purchase receipt issued once for
// every placed order.
package receipt

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when an order has no stored receipt.
var ErrNotFound = errors.New("receipt not found")

const (
	lineWidth = 30

	// DefaultStoreName is printed in the receipt header.
	DefaultStoreName = "PIZZARIA GALO DOIDO"

	dateLayout = "02/01/2006, 15:04:05"
)

// Receipt is the immutable text issued for an order.
type Receipt struct {
	ID          int64
	OrderID     int64
	Content     string
	GeneratedAt time.Time
}

// Data holds the fields embedded in a receipt, in print order.
type Data struct {
	CustomerName string
	Phone        string
	GeneratedAt  time.Time
	Items        string
	Discount     decimal.Decimal
	Total        decimal.Decimal
}

// Repository defines persistence operations for receipts.
type Repository interface {
	// Create inserts r and sets its ID.
	Create(ctx context.Context, r *Receipt) error
	GetByOrderID(ctx context.Context, orderID int64) (*Receipt, error)
	// Each calls fn for every stored receipt in ID order, stopping at the
	// first error.
	Each(ctx context.Context, fn func(Receipt) error) error
}

// Renderer formats receipts for a store.
type Renderer struct {
	storeName string
	loc       *time.Location
}

// NewRenderer returns a Renderer printing storeName in the header and dates
// in loc. Empty or nil arguments fall back to DefaultStoreName and
// time.Local.
func NewRenderer(storeName string, loc *time.Location) *Renderer {
	if storeName == "" {
		storeName = DefaultStoreName
	}
	if loc == nil {
		loc = time.Local
	}
	return &Renderer{storeName: storeName, loc: loc}
}

// Render produces the fixed-layout receipt text.
func (r *Renderer) Render(d Data) string {
	double := strings.Repeat("=", lineWidth)
	single := strings.Repeat("-", lineWidth)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(double + "\n")
	b.WriteString(center(r.storeName) + "\n")
	b.WriteString(double + "\n")
	b.WriteString("Comprovante de Compra\n")
	b.WriteString(single + "\n")
	fmt.Fprintf(&b, "Cliente: %s\n", d.CustomerName)
	fmt.Fprintf(&b, "Telefone: %s\n", d.Phone)
	fmt.Fprintf(&b, "Data: %s\n", FormatDate(d.GeneratedAt, r.loc))
	b.WriteString(single + "\n")
	b.WriteString("Itens:\n")
	b.WriteString(d.Items + "\n")
	b.WriteString(single + "\n")
	fmt.Fprintf(&b, "Desconto: %s\n", FormatMoney(d.Discount))
	fmt.Fprintf(&b, "Total Pago: %s\n", FormatMoney(d.Total))
	b.WriteString(double + "\n")
	b.WriteString(center("Obrigado pela preferência!") + "\n")
	b.WriteString(double + "\n")
	return b.String()
}

// FormatMoney prints an amount as reais with two decimals, e.g. "R$ 13.00".
func FormatMoney(d decimal.Decimal) string {
	return "R$ " + d.StringFixed(2)
}

// FormatDate prints t in the Brazilian locale layout "dd/mm/yyyy, hh:mm:ss".
func FormatDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(dateLayout)
}

func center(s string) string {
	n := len([]rune(s))
	if n >= lineWidth {
		return s
	}
	return strings.Repeat(" ", (lineWidth-n)/2) + s
}
