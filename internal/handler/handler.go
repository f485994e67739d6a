// Package handler exposes the pizzeria domain over a JSON HTTP API.
package handler

import (
	"context"
	"net/http"

	"github.com/xenking/pizzaria/internal/domain/customer"
	"github.com/xenking/pizzaria/internal/domain/order"
	"github.com/xenking/pizzaria/internal/domain/product"
	"github.com/xenking/pizzaria/internal/domain/receipt"
	"github.com/xenking/pizzaria/internal/domain/report"
)

// OrderPlacer is implemented by *order.Service.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req order.PlaceOrderRequest) (*order.PlaceOrderResult, error)
}

// Deps lists what the handlers read from and delegate to.
type Deps struct {
	Customers customer.Repository
	Products  product.Repository
	Orders    order.Repository
	Receipts  receipt.Repository
	Reports   report.Repository
	Placer    OrderPlacer
}

// Handler serves the /api routes.
type Handler struct {
	customers customer.Repository
	products  product.Repository
	orders    order.Repository
	receipts  receipt.Repository
	reports   report.Repository
	placer    OrderPlacer
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(d Deps) *Handler {
	return &Handler{
		customers: d.Customers,
		products:  d.Products,
		orders:    d.Orders,
		receipts:  d.Receipts,
		reports:   d.Reports,
		placer:    d.Placer,
	}
}

// Register adds the API routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/clientes", h.ListCustomers)
	mux.HandleFunc("POST /api/clientes", h.CreateCustomer)
	mux.HandleFunc("GET /api/clientes/{id}", h.GetCustomer)
	mux.HandleFunc("PUT /api/clientes/{id}", h.UpdateCustomer)
	mux.HandleFunc("DELETE /api/clientes/{id}", h.DeleteCustomer)
	mux.HandleFunc("GET /api/clientes/{id}/historico", h.CustomerHistory)
	mux.HandleFunc("GET /api/clientes/{id}/pedidos", h.CustomerHistory)

	mux.HandleFunc("GET /api/produtos", h.ListProducts)
	mux.HandleFunc("POST /api/produtos", h.CreateProduct)
	mux.HandleFunc("GET /api/produtos/{id}", h.GetProduct)
	mux.HandleFunc("DELETE /api/produtos/{id}", h.DeleteProduct)

	mux.HandleFunc("GET /api/pedidos", h.ListOrders)
	mux.HandleFunc("POST /api/pedidos", h.PlaceOrder)
	mux.HandleFunc("GET /api/pedidos/{id}/comprovante", h.GetReceipt)

	mux.HandleFunc("GET /api/relatorios/vendas", h.SalesReport)
}
