package order

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/pizzaria/internal/domain/customer"
	"github.com/xenking/pizzaria/internal/domain/discount"
	"github.com/xenking/pizzaria/internal/domain/product"
	"github.com/xenking/pizzaria/internal/domain/receipt"
)

// --- Mock implementations ---

type mockCustomerRepo struct {
	byID   map[int64]*customer.Customer
	getErr error
}

func (m *mockCustomerRepo) List(_ context.Context) ([]customer.Customer, error) { return nil, nil }

func (m *mockCustomerRepo) GetByID(_ context.Context, id int64) (*customer.Customer, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	c, ok := m.byID[id]
	if !ok {
		return nil, customer.ErrNotFound
	}
	return c, nil
}

func (m *mockCustomerRepo) Create(_ context.Context, _ *customer.Customer) error { return nil }
func (m *mockCustomerRepo) Update(_ context.Context, _ *customer.Customer) error { return nil }
func (m *mockCustomerRepo) Delete(_ context.Context, _ int64) error              { return nil }

type mockProductRepo struct {
	byID      map[int64]product.Product
	getErr    error
	requested []int64
}

func (m *mockProductRepo) List(_ context.Context) ([]product.Product, error) { return nil, nil }

func (m *mockProductRepo) GetByID(_ context.Context, id int64) (*product.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &p, nil
}

func (m *mockProductRepo) GetByIDs(_ context.Context, ids []int64) ([]product.Product, error) {
	m.requested = ids
	if m.getErr != nil {
		return nil, m.getErr
	}
	var out []product.Product
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProductRepo) Create(_ context.Context, _ *product.Product) error { return nil }
func (m *mockProductRepo) Delete(_ context.Context, _ int64) error            { return nil }

type mockOrderRepo struct {
	created []*Order
	err     error
	nextID  int64
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	o.ID = m.nextID
	o.Status = StatusOpen
	o.CreatedAt = time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)
	// The store keeps two decimals.
	o.Total = o.Total.Round(2)
	o.Discount = o.Discount.Round(2)
	m.created = append(m.created, o)
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, _ int64) (*Order, error) { return nil, ErrNotFound }

func (m *mockOrderRepo) ListByCustomer(_ context.Context, _ int64) ([]Order, error) {
	return nil, nil
}

func (m *mockOrderRepo) List(_ context.Context) ([]Summary, error) { return nil, nil }

type mockReceiptRepo struct {
	created []*receipt.Receipt
	err     error
}

func (m *mockReceiptRepo) Create(_ context.Context, r *receipt.Receipt) error {
	if m.err != nil {
		return m.err
	}
	r.ID = int64(len(m.created) + 1)
	m.created = append(m.created, r)
	return nil
}

func (m *mockReceiptRepo) GetByOrderID(_ context.Context, _ int64) (*receipt.Receipt, error) {
	return nil, receipt.ErrNotFound
}

func (m *mockReceiptRepo) Each(_ context.Context, _ func(receipt.Receipt) error) error { return nil }

// mockTx records commits and discards the writes of a failed callback, the
// way a store rollback would.
type mockTx struct {
	orders    *mockOrderRepo
	receipts  *mockReceiptRepo
	commits   int
	rollbacks int
}

func (m *mockTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	orders := len(m.orders.created)
	receipts := len(m.receipts.created)
	if err := fn(ctx); err != nil {
		m.orders.created = m.orders.created[:orders]
		m.receipts.created = m.receipts.created[:receipts]
		m.rollbacks++
		return err
	}
	m.commits++
	return nil
}

type mockPublisher struct {
	events []PlacedEvent
	err    error
}

func (m *mockPublisher) PublishOrderPlaced(_ context.Context, e PlacedEvent) error {
	m.events = append(m.events, e)
	return m.err
}

// --- Helpers ---

type fixture struct {
	customers *mockCustomerRepo
	products  *mockProductRepo
	orders    *mockOrderRepo
	receipts  *mockReceiptRepo
	tx        *mockTx
	events    *mockPublisher
	svc       *Service
}

var fixedNow = time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	f := &fixture{
		customers: &mockCustomerRepo{byID: map[int64]*customer.Customer{
			7: {ID: 7, Name: "João Silva", Phone: "31 98888-7777", CPF: "123.456.789-00"},
		}},
		products: &mockProductRepo{byID: map[int64]product.Product{
			1: {ID: 1, Name: "Calabresa", Price: decimal.RequireFromString("50.00")},
			2: {ID: 2, Name: "Guaraná", Price: decimal.RequireFromString("30.00")},
			3: {ID: 3, Name: "Esfiha", Price: decimal.RequireFromString("3.333")},
		}},
		orders:   &mockOrderRepo{},
		receipts: &mockReceiptRepo{},
		events:   &mockPublisher{},
	}
	f.tx = &mockTx{orders: f.orders, receipts: f.receipts}
	f.svc = NewService(Repositories{
		Customers: f.customers,
		Products:  f.products,
		Orders:    f.orders,
		Receipts:  f.receipts,
		Tx:        f.tx,
	}, discount.Default(), receipt.NewRenderer("", time.UTC),
		WithEventPublisher(f.events),
		WithClock(func() time.Time { return fixedNow }),
	)
	return f
}

// --- Tests ---

func TestPlaceOrder_DiscountApplied(t *testing.T) {
	f := newFixture()

	result, err := f.svc.PlaceOrder(context.Background(), PlaceOrderRequest{CustomerID: 7, Items: "1:2;2:1"})
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("130").Equal(result.Quote.Subtotal))
	assert.True(t, decimal.RequireFromString("13").Equal(result.Order.Discount))
	assert.True(t, decimal.RequireFromString("117").Equal(result.Order.Total))
	assert.Equal(t, "1:2;2:1", result.Order.Items)
	assert.Equal(t, StatusOpen, result.Order.Status)
	assert.Equal(t, int64(7), result.Order.CustomerID)

	require.Len(t, f.receipts.created, 1)
	r := f.receipts.created[0]
	assert.Equal(t, result.Order.ID, r.OrderID)
	assert.Equal(t, fixedNow, r.GeneratedAt)
	assert.Contains(t, r.Content, "Cliente: João Silva")
	assert.Contains(t, r.Content, "Telefone: 31 98888-7777")
	assert.Contains(t, r.Content, "Data: 01/05/2026, 20:00:00")
	assert.Contains(t, r.Content, "Desconto: R$ 13.00")
	assert.Contains(t, r.Content, "Total Pago: R$ 117.00")
	assert.Equal(t, r, result.Receipt)
	assert.Equal(t, 1, f.tx.commits)
}

func TestPlaceOrder_NoDiscountAtOrBelowThreshold(t *testing.T) {
	f := newFixture()

	result, err := f.svc.PlaceOrder(context.Background(), PlaceOrderRequest{CustomerID: 7, Items: "1:2"})
	require.NoError(t, err)

	assert.True(t, decimal.Zero.Equal(result.Order.Discount))
	assert.True(t, decimal.NewFromInt(100).Equal(result.Order.Total))
	assert.Contains(t, result.Receipt.Content, "Desconto: R$ 0.00")
}

func TestPlaceOrder_UnknownProductIsSkipped(t *testing.T) {
	f := newFixture()

	result, err := f.svc.PlaceOrder(context.Background(), PlaceOrderRequest{CustomerID: 7, Items: "1:1;404:3"})
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(50).Equal(result.Order.Total))
	assert.Equal(t, []LineItem{{ProductID: 404, Quantity: 3}}, result.Quote.Skipped)
	// The raw encoding is stored as submitted.
	assert.Equal(t, "1:1;404:3", result.Order.Items)
}

func TestPlaceOrder_ProductIDsDeduplicated(t *testing.T) {
	f := newFixture()

	_, err := f.svc.PlaceOrder(context.Background(), PlaceOrderRequest{CustomerID: 7, Items: "1:1;2:1;1:3"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, f.products.requested)
}

func TestPlaceOrder_ProductIDBeyondKeyRangeIsSkipped(t *testing.T) {
	f := newFixture()

	result, err := f.svc.PlaceOrder(context.Background(), PlaceOrderRequest{CustomerID: 7, Items: "1:2;3000000000:1"})
	require.NoError(t, err)

	assert.Equal(t, []int64{1}, f.products.requested)
	assert.True(t, decimal.NewFromInt(100).Equal(result.Order.Total))
	assert.Equal(t, "1:2;3000000000:1", result.Order.Items)
}

func TestPlaceOrder_ReceiptMatchesStoredAmounts(t *testing.T) {
	f := newFixture()

	// 3.333 * 40 = 133.32, discount 13.332 is stored as 13.33.
	result, err := f.svc.PlaceOrder(context.Background(), PlaceOrderRequest{CustomerID: 7, Items: "3:40"})
	require.NoError(t, err)

	assert.Equal(t, "13.33", result.Order.Discount.StringFixed(2))
	assert.Contains(t, result.Receipt.Content, "Desconto: R$ "+result.Order.Discount.StringFixed(2))
	assert.Contains(t, result.Receipt.Content, "Total Pago: R$ "+result.Order.Total.StringFixed(2))
}

func TestPlaceOrder_UnknownCustomer(t *testing.T) {
	f := newFixture()

	_, err := f.svc.PlaceOrder(context.Background(), PlaceOrderRequest{CustomerID: 99, Items: "1:1"})
	require.ErrorIs(t, err, customer.ErrNotFound)
	assert.Empty(t, f.orders.created)
	assert.Empty(t, f.receipts.created)
	assert.Empty(t, f.events.events)
}

func TestPlaceOrder_CustomerDeletedConcurrently(t *testing.T) {
	f := newFixture()
	f.orders.err = errors.Wrap(customer.ErrNotFound, "insert violates foreign key")

	_, err := f.svc.PlaceOrder(context.Background(), PlaceOrderRequest{CustomerID: 7, Items: "1:1"})
	require.ErrorIs(t, err, customer.ErrNotFound)
	assert.Empty(t, f.receipts.created)
	assert.Equal(t, 1, f.tx.rollbacks)
}

func TestPlaceOrder_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     PlaceOrderRequest
		wantErr error
	}{
		{name: "zero customer", req: PlaceOrderRequest{CustomerID: 0, Items: "1:1"}, wantErr: ErrInvalidCustomerID},
		{name: "negative customer", req: PlaceOrderRequest{CustomerID: -5, Items: "1:1"}, wantErr: ErrInvalidCustomerID},
		{name: "empty items", req: PlaceOrderRequest{CustomerID: 7, Items: "  "}, wantErr: ErrEmptyItems},
		{name: "only malformed items", req: PlaceOrderRequest{CustomerID: 7, Items: "x:y;1"}, wantErr: ErrEmptyItems},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.svc.PlaceOrder(context.Background(), tt.req)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.orders.created)
		})
	}
}

func TestPlaceOrder_ReceiptFailureRollsBack(t *testing.T) {
	f := newFixture()
	f.receipts.err = errors.New("disk full")

	_, err := f.svc.PlaceOrder(context.Background(), PlaceOrderRequest{CustomerID: 7, Items: "1:1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create receipt")
	assert.Empty(t, f.orders.created)
	assert.Equal(t, 1, f.tx.rollbacks)
	assert.Empty(t, f.events.events)
}

func TestPlaceOrder_ProductLookupError(t *testing.T) {
	f := newFixture()
	f.products.getErr = errors.New("db down")

	_, err := f.svc.PlaceOrder(context.Background(), PlaceOrderRequest{CustomerID: 7, Items: "1:1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get products")
	assert.Contains(t, err.Error(), "db down")
}

func TestPlaceOrder_PublishesEvent(t *testing.T) {
	f := newFixture()

	result, err := f.svc.PlaceOrder(context.Background(), PlaceOrderRequest{CustomerID: 7, Items: "2:1"})
	require.NoError(t, err)

	require.Len(t, f.events.events, 1)
	e := f.events.events[0]
	assert.Equal(t, result.Order.ID, e.OrderID)
	assert.Equal(t, int64(7), e.CustomerID)
	assert.Equal(t, "2:1", e.Items)
	assert.True(t, decimal.NewFromInt(30).Equal(e.Total))
}

func TestPlaceOrder_PublishFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	f.events.err = errors.New("broker unavailable")

	result, err := f.svc.PlaceOrder(context.Background(), PlaceOrderRequest{CustomerID: 7, Items: "2:1"})
	require.NoError(t, err)
	assert.NotNil(t, result.Receipt)
	assert.Len(t, f.receipts.created, 1)
}

func TestQuote(t *testing.T) {
	f := newFixture()

	q, err := f.svc.Quote(context.Background(), "1:3")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(135).Equal(q.Total))
	assert.Empty(t, f.orders.created)

	_, err = f.svc.Quote(context.Background(), "")
	require.ErrorIs(t, err, ErrEmptyItems)
}
