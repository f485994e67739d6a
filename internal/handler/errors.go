package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/pizzaria/internal/domain/customer"
	"github.com/xenking/pizzaria/internal/domain/order"
	"github.com/xenking/pizzaria/internal/domain/product"
	"github.com/xenking/pizzaria/internal/domain/receipt"
)

// apiError pairs a status with the message sent to the client.
type apiError struct {
	status  int
	message string
}

// Messages shown to clients for known domain errors.
var knownErrors = []struct {
	target error
	apiError
}{
	{customer.ErrNotFound, apiError{http.StatusNotFound, "Cliente não encontrado"}},
	{product.ErrNotFound, apiError{http.StatusNotFound, "Produto não encontrado"}},
	{order.ErrNotFound, apiError{http.StatusNotFound, "Pedido não encontrado"}},
	{receipt.ErrNotFound, apiError{http.StatusNotFound, "Comprovante não encontrado"}},
	{customer.ErrDuplicateCPF, apiError{http.StatusBadRequest, "CPF já cadastrado"}},
	{customer.ErrNameRequired, apiError{http.StatusBadRequest, "Nome é obrigatório"}},
	{customer.ErrCPFRequired, apiError{http.StatusBadRequest, "CPF é obrigatório"}},
	{product.ErrNameRequired, apiError{http.StatusBadRequest, "Nome é obrigatório"}},
	{product.ErrNegativePrice, apiError{http.StatusBadRequest, "Preço não pode ser negativo"}},
	{order.ErrInvalidCustomerID, apiError{http.StatusBadRequest, "id_cliente inválido"}},
	{order.ErrEmptyItems, apiError{http.StatusBadRequest, "Informe ao menos um item válido"}},
}

func classify(err error) apiError {
	for _, k := range knownErrors {
		if errors.Is(err, k.target) {
			return k.apiError
		}
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apiError{http.StatusRequestEntityTooLarge, "Corpo da requisição muito grande"}
	}
	var re *requestError
	if errors.As(err, &re) {
		return apiError{http.StatusBadRequest, re.msg}
	}
	return apiError{http.StatusInternalServerError, err.Error()}
}

// writeError maps err to a status and an {"error": message} body. Server
// errors keep the underlying message and are logged.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	ae := classify(err)
	if ae.status >= http.StatusInternalServerError {
		zctx.From(r.Context()).Error("Request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	writeJSON(w, ae.status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("error")
		e.Str(ae.message)
		e.ObjEnd()
	})
}
