package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/pizzaria/internal/domain/customer"
	"github.com/xenking/pizzaria/internal/domain/order"
)

func encodeCustomer(e *jx.Encoder, c customer.Customer) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(c.ID)
	e.FieldStart("nome")
	e.Str(c.Name)
	e.FieldStart("telefone")
	e.Str(c.Phone)
	e.FieldStart("cpf")
	e.Str(c.CPF)
	e.FieldStart("endereco")
	e.Str(c.Address)
	e.ObjEnd()
}

// decodeCustomer overlays the fields present in data onto c; absent keys
// keep their current value.
func decodeCustomer(data []byte, c *customer.Customer) error {
	err := jx.DecodeBytes(data).Obj(func(d *jx.Decoder, key string) error {
		var (
			v   string
			err error
		)
		switch key {
		case "nome", "telefone", "cpf", "endereco":
			v, err = decodeString(d)
		default:
			return d.Skip()
		}
		if err != nil {
			return err
		}
		switch key {
		case "nome":
			c.Name = v
		case "telefone":
			c.Phone = v
		case "cpf":
			c.CPF = v
		case "endereco":
			c.Address = v
		}
		return nil
	})
	if err != nil {
		return badRequest("JSON inválido")
	}
	c.Normalize()
	return nil
}

// ListCustomers handles GET /api/clientes.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	list, err := h.customers.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for _, c := range list {
			encodeCustomer(e, c)
		}
		e.ArrEnd()
	})
}

// GetCustomer handles GET /api/clientes/{id}.
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.customers.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeCustomer(e, *c) })
}

// CreateCustomer handles POST /api/clientes.
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var c customer.Customer
	if err := decodeCustomer(data, &c); err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.customers.Create(r.Context(), &c); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) { encodeCustomer(e, c) })
}

// UpdateCustomer handles PUT /api/clientes/{id}.
func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.customers.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := decodeCustomer(data, c); err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.customers.Update(r.Context(), c); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeCustomer(e, *c) })
}

// DeleteCustomer handles DELETE /api/clientes/{id}. Orders and receipts of
// the customer go with it.
func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.customers.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Cliente excluído com sucesso")
}

// CustomerHistory handles GET /api/clientes/{id}/historico and its
// /pedidos alias. An unknown customer yields an empty list.
func (h *Handler) CustomerHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := h.orders.ListByCustomer(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for _, o := range list {
			encodeHistoryEntry(e, o)
		}
		e.ArrEnd()
	})
}

func encodeHistoryEntry(e *jx.Encoder, o order.Order) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(o.ID)
	e.FieldStart("itens")
	e.Str(o.Items)
	e.FieldStart("total")
	encodeMoney(e, o.Total)
	e.FieldStart("desconto")
	encodeMoney(e, o.Discount)
	e.FieldStart("data")
	encodeTime(e, o.CreatedAt)
	e.ObjEnd()
}
