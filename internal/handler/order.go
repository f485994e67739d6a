package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/pizzaria/internal/domain/order"
	"github.com/xenking/pizzaria/internal/domain/receipt"
)

// decodePlaceOrder reads {"id_cliente": ..., "itens": ...}. id_cliente may
// be an integer or a numeric string. itens is either the "id:qty;..."
// string or an array of {"id_produto", "quantidade"} objects.
func decodePlaceOrder(data []byte) (order.PlaceOrderRequest, error) {
	var (
		req    order.PlaceOrderRequest
		reqErr error
	)
	err := jx.DecodeBytes(data).Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id_cliente":
			id, err := decodeInt64(d)
			if err != nil {
				reqErr = badRequest("id_cliente inválido")
				return err
			}
			req.CustomerID = id
			return nil
		case "itens":
			items, err := decodeItems(d)
			if err != nil {
				reqErr = badRequest("itens inválidos")
				return err
			}
			req.Items = items
			return nil
		default:
			return d.Skip()
		}
	})
	if err != nil {
		if reqErr != nil {
			return req, reqErr
		}
		return req, badRequest("JSON inválido")
	}
	return req, nil
}

func decodeItems(d *jx.Decoder) (string, error) {
	switch d.Next() {
	case jx.String:
		return d.Str()
	case jx.Array:
		var items []order.LineItem
		err := d.Arr(func(d *jx.Decoder) error {
			var item order.LineItem
			if err := d.Obj(func(d *jx.Decoder, key string) error {
				var err error
				switch key {
				case "id_produto":
					item.ProductID, err = decodeInt64(d)
				case "quantidade":
					item.Quantity, err = decodeInt64(d)
				default:
					err = d.Skip()
				}
				return err
			}); err != nil {
				return err
			}
			items = append(items, item)
			return nil
		})
		if err != nil {
			return "", err
		}
		return order.EncodeItems(items), nil
	default:
		if err := d.Skip(); err != nil {
			return "", err
		}
		return "", errors.New("itens must be a string or an array")
	}
}

func encodeOrder(e *jx.Encoder, o order.Order) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(o.ID)
	e.FieldStart("id_cliente")
	e.Int64(o.CustomerID)
	e.FieldStart("itens")
	e.Str(o.Items)
	e.FieldStart("total")
	encodeMoney(e, o.Total)
	e.FieldStart("desconto")
	encodeMoney(e, o.Discount)
	e.FieldStart("status")
	e.Str(o.Status)
	e.FieldStart("data")
	encodeTime(e, o.CreatedAt)
	e.ObjEnd()
}

func encodeOrderSummary(e *jx.Encoder, s order.Summary) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(s.ID)
	e.FieldStart("nome_cliente")
	e.Str(s.CustomerName)
	e.FieldStart("cpf")
	e.Str(s.CustomerCPF)
	e.FieldStart("endereco")
	e.Str(s.CustomerAddress)
	e.FieldStart("itens")
	e.Str(s.Items)
	e.FieldStart("total")
	encodeMoney(e, s.Total)
	e.FieldStart("desconto")
	encodeMoney(e, s.Discount)
	e.FieldStart("status")
	e.Str(s.Status)
	e.FieldStart("data")
	encodeTime(e, s.CreatedAt)
	e.ObjEnd()
}

func encodeReceipt(e *jx.Encoder, rc receipt.Receipt) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(rc.ID)
	e.FieldStart("id_pedido")
	e.Int64(rc.OrderID)
	e.FieldStart("conteudo")
	e.Str(rc.Content)
	e.FieldStart("data_geracao")
	encodeTime(e, rc.GeneratedAt)
	e.ObjEnd()
}

// ListOrders handles GET /api/pedidos.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.orders.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for _, s := range list {
			encodeOrderSummary(e, s)
		}
		e.ArrEnd()
	})
}

// PlaceOrder handles POST /api/pedidos and answers with the stored order
// and its receipt text.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	req, err := decodePlaceOrder(data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	result, err := h.placer.PlaceOrder(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("pedido")
		encodeOrder(e, *result.Order)
		e.FieldStart("comprovante")
		e.Str(result.Receipt.Content)
		e.ObjEnd()
	})
}

// GetReceipt handles GET /api/pedidos/{id}/comprovante.
func (h *Handler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rc, err := h.receipts.GetByOrderID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeReceipt(e, *rc) })
}
