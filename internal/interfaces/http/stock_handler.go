package http

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-wms/internal/application/dto"
	"github.com/jhoicas/estoque-wms/internal/application/inventory"
	"github.com/jhoicas/estoque-wms/internal/infrastructure/pdf"
	"github.com/jhoicas/estoque-wms/internal/infrastructure/spreadsheet"
)

// StockHandler maneja consultas y movimientos de estoque.
type StockHandler struct {
	svc     *inventory.Service
	reports *pdf.StockReportGenerator
	now     func() time.Time
}

// NewStockHandler construye el handler.
func NewStockHandler(svc *inventory.Service, reports *pdf.StockReportGenerator, now func() time.Time) *StockHandler {
	if now == nil {
		now = time.Now
	}
	return &StockHandler{svc: svc, reports: reports, now: now}
}

// List godoc
// @Summary      Listar estoque
// @Description  Filtra por código, descrição, endereço o lote cuando se envía q.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        q    query     string  false  "texto de búsqueda"
// @Success      200  {array}   entity.StockRecord
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.svc.Search(c.UserContext(), c.Query("q")))
}

// Summary godoc
// @Summary      Resumen del estoque
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockSummary
// @Router       /api/stock/summary [get]
func (h *StockHandler) Summary(c *fiber.Ctx) error {
	return c.JSON(h.svc.Summary(c.UserContext()))
}

// Lots godoc
// @Summary      Cantidades por lote de un código
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        code     path   string  true   "código"
// @Param        lote     query  string  false  "lote"
// @Param        address  query  string  false  "endereço"
// @Success      200  {object}  dto.LotBreakdown
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/lots/{code} [get]
func (h *StockHandler) Lots(c *fiber.Ctx) error {
	out, err := h.svc.LotBreakdown(c.UserContext(), c.Params("code"), c.Query("lote"), c.Query("address"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RegisterEntry godoc
// @Summary      Registrar entrada
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.EntryRequest  true  "code, description, quantity, address, lote"
// @Success      201   {object}  entity.HistoryEntry
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/entries [post]
func (h *StockHandler) RegisterEntry(c *fiber.Ctx) error {
	var in dto.EntryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	entry, err := h.svc.RegisterEntry(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// RegisterExit godoc
// @Summary      Registrar saída
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ExitRequest  true  "code, address, lote, quantity"
// @Success      201   {object}  entity.HistoryEntry
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/exits [post]
func (h *StockHandler) RegisterExit(c *fiber.Ctx) error {
	var in dto.ExitRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	entry, err := h.svc.RegisterExit(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// Transfer godoc
// @Summary      Transferir entre endereços
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.TransferRequest  true  "code, from_address, to_address, lote, quantity"
// @Success      201   {object}  entity.HistoryEntry
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/transfers [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	entry, err := h.svc.Transfer(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// UpdateLote godoc
// @Summary      Cambiar lote de un registro
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.UpdateLoteRequest  true  "code, address, old_lote, new_lote"
// @Success      200   {object}  entity.HistoryEntry
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/lote [patch]
func (h *StockHandler) UpdateLote(c *fiber.Ctx) error {
	var in dto.UpdateLoteRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	entry, err := h.svc.UpdateLote(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(entry)
}

// Import godoc
// @Summary      Importar planilha (.xlsx o .csv)
// @Tags         stock
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "planilha con Código, Descrição, Quantidade, Endereço, Lote"
// @Success      201   {object}  dto.ImportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stock/import [post]
func (h *StockHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "campo file requerido"})
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, err)
	}
	defer f.Close()

	records, err := spreadsheet.ParseFile(fh.Filename, f)
	if err != nil {
		return writeError(c, err)
	}
	result, err := h.svc.Import(c.UserContext(), records)
	if err != nil {
		return writeError(c, fmt.Errorf("%d registro(s) importado(s) antes do erro: %w", result.Imported, err))
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// Export godoc
// @Summary      Exportar estoque
// @Tags         stock
// @Security     Bearer
// @Produce      octet-stream
// @Param        format  query  string  false  "csv (defecto), xlsx o pdf"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/export [get]
func (h *StockHandler) Export(c *fiber.Ctx) error {
	format := strings.ToLower(c.Query("format", spreadsheet.FormatCSV))
	ctx := c.UserContext()
	records := h.svc.Stock(ctx)
	now := h.now()

	var buf bytes.Buffer
	switch format {
	case spreadsheet.FormatCSV:
		if err := spreadsheet.WriteStockCSV(&buf, records); err != nil {
			return writeError(c, err)
		}
	case spreadsheet.FormatXLSX:
		if err := spreadsheet.WriteStockXLSX(&buf, records); err != nil {
			return writeError(c, err)
		}
	case spreadsheet.FormatPDF:
		out, err := h.reports.GenerateStockReport(ctx, records, h.svc.Summary(ctx), now)
		if err != nil {
			return writeError(c, err)
		}
		buf.Write(out)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "format debe ser csv, xlsx o pdf"})
	}

	c.Attachment(spreadsheet.FileName("estoque", format, now))
	return c.Send(buf.Bytes())
}

// Clear godoc
// @Summary      Limpiar todo el estoque
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ClearResponse
// @Router       /api/stock [delete]
func (h *StockHandler) Clear(c *fiber.Ctx) error {
	return c.JSON(dto.ClearResponse{Removed: h.svc.ClearStock(c.UserContext())})
}
