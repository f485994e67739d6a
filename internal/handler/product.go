package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/pizzaria/internal/domain/product"
)

func encodeProduct(e *jx.Encoder, p product.Product) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(p.ID)
	e.FieldStart("nome")
	e.Str(p.Name)
	e.FieldStart("preco")
	encodeMoney(e, p.Price)
	e.ObjEnd()
}

func decodeProduct(data []byte) (product.Product, error) {
	var (
		p        product.Product
		hasPrice bool
	)
	err := jx.DecodeBytes(data).Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "nome":
			v, err := decodeString(d)
			p.Name = v
			return err
		case "preco":
			v, err := decodeDecimal(d)
			p.Price = v
			hasPrice = err == nil
			return err
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return product.Product{}, badRequest("JSON inválido")
	}
	if !hasPrice {
		return product.Product{}, badRequest("Preço é obrigatório")
	}
	return p, nil
}

// ListProducts handles GET /api/produtos.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	list, err := h.products.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for _, p := range list {
			encodeProduct(e, p)
		}
		e.ArrEnd()
	})
}

// GetProduct handles GET /api/produtos/{id}.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeProduct(e, *p) })
}

// CreateProduct handles POST /api/produtos.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := decodeProduct(data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := p.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.products.Create(r.Context(), &p); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) { encodeProduct(e, p) })
}

// DeleteProduct handles DELETE /api/produtos/{id}.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.products.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Produto excluído com sucesso")
}
