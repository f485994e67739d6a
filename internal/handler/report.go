package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/pizzaria/internal/domain/report"
)

func encodePeriod(e *jx.Encoder, p report.Period) {
	e.ObjStart()
	e.FieldStart("pedidos")
	e.Int64(p.Orders)
	e.FieldStart("total")
	encodeMoney(e, p.Total)
	e.ObjEnd()
}

// SalesReport handles GET /api/relatorios/vendas.
func (h *Handler) SalesReport(w http.ResponseWriter, r *http.Request) {
	s, err := h.reports.Sales(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("hoje")
		encodePeriod(e, s.Today)
		e.FieldStart("mes")
		encodePeriod(e, s.Month)
		e.ObjEnd()
	})
}
