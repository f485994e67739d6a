package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xenking/pizzaria/internal/domain/discount"
	"github.com/xenking/pizzaria/internal/domain/order"
	"github.com/xenking/pizzaria/internal/domain/receipt"
	"github.com/xenking/pizzaria/internal/storage/postgres"
)

// Ids beyond the SERIAL key range are answered by the repositories without
// touching the pool, so the handler can be exercised end to end with none.
func TestIDsBeyondKeyRange(t *testing.T) {
	customers := postgres.NewCustomerRepository(nil)
	products := postgres.NewProductRepository(nil)
	orders := postgres.NewOrderRepository(nil)
	receipts := postgres.NewReceiptRepository(nil)
	svc := order.NewService(order.Repositories{
		Customers: customers,
		Products:  products,
		Orders:    orders,
		Receipts:  receipts,
		Tx:        postgres.NewTransactor(nil),
	}, discount.Default(), receipt.NewRenderer("PIZZARIA", time.UTC))

	mux := http.NewServeMux()
	NewHandler(Deps{
		Customers: customers,
		Products:  products,
		Orders:    orders,
		Receipts:  receipts,
		Reports:   postgres.NewReportRepository(nil),
		Placer:    svc,
	}).Register(mux)
	ts := &testServer{mux: mux}

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode int
		wantBody string
	}{
		{
			name:     "get customer",
			method:   http.MethodGet,
			path:     "/api/clientes/3000000000",
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"Cliente não encontrado"}`,
		},
		{
			name:     "update customer",
			method:   http.MethodPut,
			path:     "/api/clientes/3000000000",
			body:     `{"nome":"Ana"}`,
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"Cliente não encontrado"}`,
		},
		{
			name:     "delete customer",
			method:   http.MethodDelete,
			path:     "/api/clientes/3000000000",
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"Cliente não encontrado"}`,
		},
		{
			name:     "customer history",
			method:   http.MethodGet,
			path:     "/api/clientes/3000000000/historico",
			wantCode: http.StatusOK,
			wantBody: `[]`,
		},
		{
			name:     "get product",
			method:   http.MethodGet,
			path:     "/api/produtos/3000000000",
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"Produto não encontrado"}`,
		},
		{
			name:     "delete product",
			method:   http.MethodDelete,
			path:     "/api/produtos/3000000000",
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"Produto não encontrado"}`,
		},
		{
			name:     "receipt",
			method:   http.MethodGet,
			path:     "/api/pedidos/3000000000/comprovante",
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"Comprovante não encontrado"}`,
		},
		{
			name:     "place order for customer",
			method:   http.MethodPost,
			path:     "/api/pedidos",
			body:     `{"id_cliente":3000000000,"itens":"1:2"}`,
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"Cliente não encontrado"}`,
		},
		{
			name:     "place order for customer as string",
			method:   http.MethodPost,
			path:     "/api/pedidos",
			body:     `{"id_cliente":"3000000000","itens":[{"id_produto":1,"quantidade":1}]}`,
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"Cliente não encontrado"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}
