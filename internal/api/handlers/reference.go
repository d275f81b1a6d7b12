package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/dvloznov/budget-health/internal/api/middleware"
	"github.com/dvloznov/budget-health/internal/currency"
	"github.com/dvloznov/budget-health/internal/sheet"
)

// TemplateFilename is the download name of the sample workbook.
const TemplateFilename = "budget_template.xlsx"

// ReferenceHandler serves static reference data: currencies and the
// spreadsheet template.
type ReferenceHandler struct {
	currencies *currency.Registry
	log        zerolog.Logger
}

// NewReferenceHandler creates a new reference handler.
func NewReferenceHandler(currencies *currency.Registry, log zerolog.Logger) *ReferenceHandler {
	return &ReferenceHandler{
		currencies: currencies,
		log:        log,
	}
}

// ListCurrencies handles GET /api/currencies
func (h *ReferenceHandler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	list := h.currencies.All()
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"currencies": list,
		"count":      len(list),
	})
}

// Template handles GET /api/template
func (h *ReferenceHandler) Template(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := sheet.WriteTemplate(&buf); err != nil {
		h.log.Error().Err(err).Msg("Failed to build template")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to build template")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+TemplateFilename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
