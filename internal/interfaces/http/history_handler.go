package http

import (
	"bytes"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-wms/internal/application/dto"
	"github.com/jhoicas/estoque-wms/internal/application/inventory"
	"github.com/jhoicas/estoque-wms/internal/infrastructure/spreadsheet"
)

// HistoryHandler consulta, exporta y limpia el histórico.
type HistoryHandler struct {
	svc *inventory.Service
	now func() time.Time
}

// NewHistoryHandler construye el handler.
func NewHistoryHandler(svc *inventory.Service, now func() time.Time) *HistoryHandler {
	if now == nil {
		now = time.Now
	}
	return &HistoryHandler{svc: svc, now: now}
}

// List godoc
// @Summary      Listar histórico (más reciente primero)
// @Tags         history
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo de entradas; 0 = todas"
// @Param        offset  query  int  false  "entradas a saltar"
// @Success      200  {array}  entity.HistoryEntry
// @Router       /api/history [get]
func (h *HistoryHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 0), Offset: c.QueryInt("offset", 0)}
	entries := h.svc.History(c.UserContext())
	start, end := page.Bounds(len(entries))
	return c.JSON(entries[start:end])
}

// Export godoc
// @Summary      Exportar histórico en CSV
// @Tags         history
// @Security     Bearer
// @Produce      text/csv
// @Success      200
// @Router       /api/history/export [get]
func (h *HistoryHandler) Export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := spreadsheet.WriteHistoryCSV(&buf, h.svc.History(c.UserContext())); err != nil {
		return writeError(c, err)
	}
	c.Attachment(spreadsheet.FileName("historico", spreadsheet.FormatCSV, h.now()))
	return c.Send(buf.Bytes())
}

// Clear godoc
// @Summary      Limpiar el histórico
// @Tags         history
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ClearResponse
// @Router       /api/history [delete]
func (h *HistoryHandler) Clear(c *fiber.Ctx) error {
	return c.JSON(dto.ClearResponse{Removed: h.svc.ClearHistory(c.UserContext())})
}
