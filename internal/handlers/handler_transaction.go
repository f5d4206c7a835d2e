package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/pos_app/internal/core/ports/services"
	"github.com/SscSPs/pos_app/internal/dto"
	"github.com/SscSPs/pos_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gocarina/gocsv"
)

// NextTokenHeader carries the cursor for the next page of sales.
const NextTokenHeader = "X-Next-Token"

const dateLayout = "2006-01-02"

// transactionHandler handles HTTP requests for sales
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
	reportingService   portssvc.ReportingService
	now                func() time.Time
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade, rs portssvc.ReportingService) *transactionHandler {
	return &transactionHandler{transactionService: ts, reportingService: rs, now: time.Now}
}

// registerTransactionRoutes registers sale routes. Recording a sale goes through writeGuard.
func registerTransactionRoutes(rg *gin.RouterGroup, writeGuard gin.HandlerFunc, transactionService portssvc.TransactionSvcFacade, reportingService portssvc.ReportingService) {
	h := newTransactionHandler(transactionService, reportingService)

	transactions := rg.Group("/transactions")
	{
		transactions.GET("", h.listTransactions)
		transactions.GET("/export", h.exportTransactions)
		transactions.GET("/:id", h.getTransaction)
		transactions.POST("", writeGuard, h.createTransaction)
	}
}

// listTransactions godoc
// @Summary List sales
// @Description Lists sales newest first. Pass the X-Next-Token response header back as next_token for the following page.
// @Tags transactions
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param skip query int false "Offset, ignored when next_token is set" default(0)
// @Param next_token query string false "Cursor from a previous page"
// @Success 200 {array} dto.TransactionResponse
// @Header 200 {string} X-Next-Token "Cursor for the next page, absent on the last page"
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query parameters for listTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	txns, nextToken, err := h.transactionService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "", "Failed to list transactions")
		return
	}

	if nextToken != nil {
		c.Header(NextTokenHeader, *nextToken)
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponses(txns))
}

// getTransaction godoc
// @Summary Get a sale
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to get transaction"
// @Router /transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	transactionID := c.Param("id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("transaction_id", transactionID))

	txn, err := h.transactionService.GetTransactionByID(c.Request.Context(), transactionID)
	if err != nil {
		respondError(c, logger, err, "Transaction not found", "Failed to get transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// createTransaction godoc
// @Summary Record a sale
// @Description Prices every line from the catalog, decrements stock and stores the sale atomically.
// @Description Client-sent prices and totals are ignored.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body dto.CreateTransactionRequest true "Sale to record"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 409 {object} map[string]string "Insufficient stock"
// @Failure 500 {object} map[string]string "Failed to create transaction"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind request for createTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	txn, err := h.transactionService.CreateTransaction(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "", "Failed to create transaction")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// exportTransactions godoc
// @Summary Export sales as CSV
// @Description One row per sold line. from/to accept YYYY-MM-DD (UTC, to is inclusive) or RFC 3339 (to is exclusive).
// @Tags transactions
// @Produce text/csv
// @Param from query string false "Start of the range"
// @Param to query string false "End of the range"
// @Success 200 {string} string "CSV file"
// @Failure 400 {object} map[string]string "Invalid date range"
// @Failure 500 {object} map[string]string "Failed to export transactions"
// @Router /transactions/export [get]
func (h *transactionHandler) exportTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ExportTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	from, err := parseExportBound(params.From, false)
	if err != nil {
		logger.Warn("Invalid from date", slog.String("from", params.From))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date. Use YYYY-MM-DD or RFC 3339"})
		return
	}
	to, err := parseExportBound(params.To, true)
	if err != nil {
		logger.Warn("Invalid to date", slog.String("to", params.To))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date. Use YYYY-MM-DD or RFC 3339"})
		return
	}

	rows, err := h.reportingService.ExportTransactions(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, logger, err, "", "Failed to export transactions")
		return
	}

	csvBytes, err := gocsv.MarshalBytes(dto.ToTransactionCSVRows(rows))
	if err != nil {
		respondError(c, logger, err, "", "Failed to export transactions")
		return
	}

	filename := fmt.Sprintf("transactions-%s.csv", h.now().UTC().Format(dateLayout))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	logger.Info("Transactions exported", slog.Int("row_count", len(rows)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", csvBytes)
}

// parseExportBound parses an optional export bound. A date-only upper bound
// covers the whole day, so it is moved to the start of the next day.
func parseExportBound(raw string, upper bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}
	if upper {
		t = t.AddDate(0, 0, 1)
	}
	return &t, nil
}
