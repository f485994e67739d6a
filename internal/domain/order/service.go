package order

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/xenking/pizzaria/internal/domain/customer"
	"github.com/xenking/pizzaria/internal/domain/discount"
	"github.com/xenking/pizzaria/internal/domain/product"
	"github.com/xenking/pizzaria/internal/domain/receipt"
)

const instrumentationName = "github.com/xenking/pizzaria/internal/domain/order"

// Sentinel errors for order validation.
var (
	ErrNotFound          = errors.New("order not found")
	ErrEmptyItems        = errors.New("items required")
	ErrInvalidCustomerID = errors.New("customer id must be a positive integer")
)

// PlaceOrderRequest holds the input for placing an order.
type PlaceOrderRequest struct {
	CustomerID int64
	// Items is the "productId:qty;..." encoding. It is stored verbatim.
	Items string
}

// PlaceOrderResult holds the persisted order, its receipt and the pricing
// breakdown that produced it.
type PlaceOrderResult struct {
	Order    *Order
	Receipt  *receipt.Receipt
	Customer *customer.Customer
	Quote    Quote
}

// Repositories groups the stores the Service works against.
type Repositories struct {
	Customers customer.Repository
	Products  product.Repository
	Orders    Repository
	Receipts  receipt.Repository
	Tx        Transactor
}

// Option configures a Service.
type Option func(*Service)

// WithEventPublisher sets where placed orders are announced.
func WithEventPublisher(p EventPublisher) Option {
	return func(s *Service) { s.events = p }
}

// WithClock overrides the receipt generation clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithTracerProvider sets the tracer provider used for order spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) { s.tracer = tp.Tracer(instrumentationName) }
}

// WithMeterProvider sets the meter provider used for order metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *Service) { s.meter = mp.Meter(instrumentationName) }
}

// Service places orders: pricing, persistence and receipt issuance.
type Service struct {
	repos    Repositories
	rule     discount.Rule
	renderer *receipt.Renderer
	events   EventPublisher
	now      func() time.Time

	tracer trace.Tracer
	meter  metric.Meter

	placed     metric.Int64Counter
	orderTotal metric.Float64Histogram
}

// NewService creates an order Service.
func NewService(repos Repositories, rule discount.Rule, renderer *receipt.Renderer, opts ...Option) *Service {
	s := &Service{
		repos:    repos,
		rule:     rule,
		renderer: renderer,
		events:   nopPublisher{},
		now:      time.Now,
		tracer:   tracenoop.NewTracerProvider().Tracer(instrumentationName),
		meter:    metricnoop.NewMeterProvider().Meter(instrumentationName),
	}
	for _, o := range opts {
		o(s)
	}
	s.initInstruments()
	return s
}

func (s *Service) initInstruments() {
	placed, err := s.meter.Int64Counter("pizzaria.orders.placed",
		metric.WithDescription("Orders placed with a receipt issued"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		placed = metricnoop.Int64Counter{}
	}
	total, err := s.meter.Float64Histogram("pizzaria.orders.total",
		metric.WithDescription("Final order total after discount"),
		metric.WithUnit("BRL"),
	)
	if err != nil {
		total = metricnoop.Float64Histogram{}
	}
	s.placed = placed
	s.orderTotal = total
}

// Quote prices the raw item encoding against the current catalog without
// persisting anything.
func (s *Service) Quote(ctx context.Context, rawItems string) (Quote, error) {
	items := ParseItems(rawItems)
	if len(items) == 0 {
		return Quote{}, ErrEmptyItems
	}
	return s.quote(ctx, items)
}

func (s *Service) quote(ctx context.Context, items []LineItem) (Quote, error) {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	fetched, err := s.repos.Products.GetByIDs(ctx, ids)
	if err != nil {
		return Quote{}, errors.Wrap(err, "get products")
	}
	catalog := make(map[int64]product.Product, len(fetched))
	for _, p := range fetched {
		catalog[p.ID] = p
	}
	return Price(items, catalog, s.rule), nil
}

// PlaceOrder prices the items, stores the order and its receipt in one
// transaction and announces the result. Unknown products are left out of the
// total; an unknown customer fails with customer.ErrNotFound.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (_ *PlaceOrderResult, rerr error) {
	ctx, span := s.tracer.Start(ctx, "order.PlaceOrder",
		trace.WithAttributes(attribute.Int64("pizzaria.customer.id", req.CustomerID)),
	)
	defer func() {
		if rerr != nil {
			span.RecordError(rerr)
			span.SetStatus(codes.Error, rerr.Error())
		}
		span.End()
	}()

	if req.CustomerID <= 0 {
		return nil, ErrInvalidCustomerID
	}
	raw := strings.TrimSpace(req.Items)
	items := ParseItems(raw)
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}

	c, err := s.repos.Customers.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, errors.Wrap(err, "get customer")
	}

	q, err := s.quote(ctx, items)
	if err != nil {
		return nil, err
	}

	o := &Order{
		CustomerID: c.ID,
		Items:      raw,
		Total:      q.Total,
		Discount:   q.Discount,
	}
	var r *receipt.Receipt
	if err := s.repos.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repos.Orders.Create(ctx, o); err != nil {
			return errors.Wrap(err, "create order")
		}
		r = s.issueReceipt(o, c)
		if err := s.repos.Receipts.Create(ctx, r); err != nil {
			return errors.Wrap(err, "create receipt")
		}
		return nil
	}); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int64("pizzaria.order.id", o.ID))
	s.placed.Add(ctx, 1, metric.WithAttributes(attribute.Bool("discounted", !o.Discount.IsZero())))
	s.orderTotal.Record(ctx, o.Total.InexactFloat64())

	lg := zctx.From(ctx)
	lg.Info("Order placed",
		zap.Int64("order_id", o.ID),
		zap.Int64("customer_id", o.CustomerID),
		zap.String("total", o.Total.StringFixed(2)),
		zap.Int("skipped_items", len(q.Skipped)),
	)

	if err := s.events.PublishOrderPlaced(ctx, PlacedEvent{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Items:      o.Items,
		Total:      o.Total,
		Discount:   o.Discount,
		PlacedAt:   o.CreatedAt,
	}); err != nil {
		lg.Warn("Publish order event failed", zap.Int64("order_id", o.ID), zap.Error(err))
	}

	return &PlaceOrderResult{
		Order:    o,
		Receipt:  r,
		Customer: c,
		Quote:    q,
	}, nil
}

// issueReceipt renders the receipt for a stored order. The amounts come from
// o, so they match the persisted row.
func (s *Service) issueReceipt(o *Order, c *customer.Customer) *receipt.Receipt {
	generated := s.now()
	return &receipt.Receipt{
		OrderID:     o.ID,
		GeneratedAt: generated,
		Content: s.renderer.Render(receipt.Data{
			CustomerName: c.Name,
			Phone:        c.Phone,
			GeneratedAt:  generated,
			Items:        o.Items,
			Discount:     o.Discount,
			Total:        o.Total,
		}),
	}
}
