package dto

import (
	"time"

	"github.com/SscSPs/pos_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionItemRequest is one cart line as sent by the mobile client.
// ProductName, Price and Total are accepted for compatibility and ignored;
// the server prices every line from the catalog.
type TransactionItemRequest struct {
	ProductID   string           `json:"product_id" binding:"required"`
	ProductName string           `json:"product_name"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    int              `json:"quantity" binding:"gt=0,max=2147483647"`
	Total       *decimal.Decimal `json:"total"`
}

// CreateTransactionRequest defines the data needed to record a sale.
// Subtotal and Total are ignored for the same reason as the item prices.
type CreateTransactionRequest struct {
	Items         []TransactionItemRequest `json:"items" binding:"required,min=1,dive"`
	Subtotal      *decimal.Decimal         `json:"subtotal"`
	Tax           *decimal.Decimal         `json:"tax"`
	Discount      *decimal.Decimal         `json:"discount"`
	Total         *decimal.Decimal         `json:"total"`
	PaymentMethod string                   `json:"payment_method"`
	CustomerName  *string                  `json:"customer_name"`
	Notes         *string                  `json:"notes"`
}

// ToSaleRequest converts the request into the order processor's input.
func (r CreateTransactionRequest) ToSaleRequest() domain.SaleRequest {
	lines := make([]domain.SaleLine, len(r.Items))
	for i, item := range r.Items {
		lines[i] = domain.SaleLine{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	req := domain.SaleRequest{
		Lines:         lines,
		PaymentMethod: r.PaymentMethod,
		CustomerName:  r.CustomerName,
		Notes:         r.Notes,
	}
	if r.Tax != nil {
		req.Tax = *r.Tax
	}
	if r.Discount != nil {
		req.Discount = *r.Discount
	}
	return req
}

// ListTransactionsParams defines query parameters for listing sales.
type ListTransactionsParams struct {
	Limit     int    `form:"limit,default=50" binding:"min=0,max=200"`
	Skip      int    `form:"skip,default=0" binding:"min=0"`
	NextToken string `form:"next_token"`
}

// ExportTransactionsParams bounds the CSV export. Dates are YYYY-MM-DD (UTC) or RFC 3339.
type ExportTransactionsParams struct {
	From string `form:"from"`
	To   string `form:"to"`
}

// TransactionItemResponse defines the data returned for a sold line.
type TransactionItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
}

// TransactionResponse defines the data returned for a sale.
type TransactionResponse struct {
	ID                string                    `json:"id"`
	TransactionNumber string                    `json:"transaction_number"`
	Items             []TransactionItemResponse `json:"items"`
	Subtotal          decimal.Decimal           `json:"subtotal"`
	Tax               decimal.Decimal           `json:"tax"`
	Discount          decimal.Decimal           `json:"discount"`
	Total             decimal.Decimal           `json:"total"`
	PaymentMethod     string                    `json:"payment_method"`
	CustomerName      *string                   `json:"customer_name"`
	Notes             *string                   `json:"notes"`
	Status            string                    `json:"status"`
	CreatedAt         time.Time                 `json:"created_at"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	items := make([]TransactionItemResponse, len(txn.Items))
	for i, item := range txn.Items {
		items[i] = TransactionItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.Price,
			Quantity:    item.Quantity,
			Total:       item.Total,
		}
	}
	return TransactionResponse{
		ID:                txn.TransactionID,
		TransactionNumber: txn.TransactionNumber,
		Items:             items,
		Subtotal:          txn.Subtotal,
		Tax:               txn.Tax,
		Discount:          txn.Discount,
		Total:             txn.Total,
		PaymentMethod:     txn.PaymentMethod,
		CustomerName:      txn.CustomerName,
		Notes:             txn.Notes,
		Status:            string(txn.Status),
		CreatedAt:         txn.CreatedAt.UTC(),
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}

// TransactionCSVRow is one line of the sales export.
type TransactionCSVRow struct {
	TransactionNumber string `csv:"transaction_number"`
	CreatedAt         string `csv:"created_at"`
	PaymentMethod     string `csv:"payment_method"`
	CustomerName      string `csv:"customer_name"`
	ProductID         string `csv:"product_id"`
	ProductName       string `csv:"product_name"`
	Price             string `csv:"price"`
	Quantity          int    `csv:"quantity"`
	LineTotal         string `csv:"line_total"`
	Subtotal          string `csv:"subtotal"`
	Tax               string `csv:"tax"`
	Discount          string `csv:"discount"`
	Total             string `csv:"total"`
}

// ToTransactionCSVRows converts export rows to their CSV shape.
func ToTransactionCSVRows(rows []domain.SaleExportRow) []*TransactionCSVRow {
	out := make([]*TransactionCSVRow, len(rows))
	for i, r := range rows {
		out[i] = &TransactionCSVRow{
			TransactionNumber: r.TransactionNumber,
			CreatedAt:         r.CreatedAt.UTC().Format(time.RFC3339),
			PaymentMethod:     r.PaymentMethod,
			CustomerName:      r.CustomerName,
			ProductID:         r.ProductID,
			ProductName:       r.ProductName,
			Price:             r.Price.StringFixed(domain.MoneyPlaces),
			Quantity:          r.Quantity,
			LineTotal:         r.LineTotal.StringFixed(domain.MoneyPlaces),
			Subtotal:          r.Subtotal.StringFixed(domain.MoneyPlaces),
			Tax:               r.Tax.StringFixed(domain.MoneyPlaces),
			Discount:          r.Discount.StringFixed(domain.MoneyPlaces),
			Total:             r.Total.StringFixed(domain.MoneyPlaces),
		}
	}
	return out
}
