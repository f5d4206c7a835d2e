package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/pos_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// TransactionStatus indicates the state of a sale. Only Completed is produced today.
type TransactionStatus string

const (
	Completed TransactionStatus = "completed"
)

// DefaultPaymentMethod is used when a sale does not name one.
const DefaultPaymentMethod = "cash"

// TransactionNumberPrefix prefixes every human-readable sale number.
const TransactionNumberPrefix = "TXN-"

// Transaction is a completed sale. It is immutable once persisted.
type Transaction struct {
	TransactionID     string            `json:"id"`
	TransactionNumber string            `json:"transaction_number"`
	Sequence          int64             `json:"-"`
	Items             []TransactionItem `json:"items"`
	Subtotal          decimal.Decimal   `json:"subtotal"`
	Tax               decimal.Decimal   `json:"tax"`
	Discount          decimal.Decimal   `json:"discount"`
	Total             decimal.Decimal   `json:"total"`
	PaymentMethod     string            `json:"payment_method"`
	CustomerName      *string           `json:"customer_name,omitempty"`
	Notes             *string           `json:"notes,omitempty"`
	Status            TransactionStatus `json:"status"`
	CreatedAt         time.Time         `json:"created_at"`
}

// TransactionItem is a denormalized snapshot of one sold product line.
// It does not follow later changes to the product.
type TransactionItem struct {
	TransactionID string          `json:"-"`
	LineNo        int             `json:"-"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	Total         decimal.Decimal `json:"total"`
}

// IsBalanced reports whether total == subtotal - discount + tax.
func (t Transaction) IsBalanced() bool {
	return t.Total.Equal(t.Subtotal.Sub(t.Discount).Add(t.Tax))
}

// AssignNumber sets the sequence value and the human-readable number derived from it.
// Sequence, not the number text, orders sales that share a timestamp.
func (t *Transaction) AssignNumber(seq int64) {
	t.Sequence = seq
	t.TransactionNumber = FormatTransactionNumber(seq)
}

// FormatTransactionNumber renders TXN-000042 style numbers. Values past 999999
// grow wider, so the text does not sort numerically.
func FormatTransactionNumber(seq int64) string {
	return fmt.Sprintf("%s%06d", TransactionNumberPrefix, seq)
}

// SaleLine is one requested (product, quantity) pair.
type SaleLine struct {
	ProductID string
	Quantity  int
}

// SaleRequest is the validated input of the order processor.
type SaleRequest struct {
	Lines         []SaleLine
	Tax           decimal.Decimal
	Discount      decimal.Decimal
	PaymentMethod string
	CustomerName  *string
	Notes         *string
}

// Validate checks everything that can be checked without the catalog.
func (r SaleRequest) Validate() error {
	if len(r.Lines) == 0 {
		return apperrors.Validationf("at least one item is required")
	}
	demand := make(map[string]int64, len(r.Lines))
	for i, line := range r.Lines {
		if strings.TrimSpace(line.ProductID) == "" {
			return apperrors.Validationf("item %d: product_id is required", i+1)
		}
		if line.Quantity <= 0 {
			return apperrors.Validationf("item %d: quantity must be greater than 0", i+1)
		}
		if line.Quantity > MaxQuantity {
			return apperrors.Validationf("item %d: quantity must be at most %d", i+1, MaxQuantity)
		}
		demand[line.ProductID] += int64(line.Quantity)
		if demand[line.ProductID] > MaxQuantity {
			return apperrors.Validationf("total quantity for product %s must be at most %d", line.ProductID, MaxQuantity)
		}
	}
	if r.Tax.IsNegative() {
		return apperrors.Validationf("tax cannot be negative")
	}
	if r.Tax.GreaterThan(MaxAmount) {
		return apperrors.Validationf("tax must be at most %s", MaxAmount.StringFixed(MoneyPlaces))
	}
	if r.Discount.IsNegative() {
		return apperrors.Validationf("discount cannot be negative")
	}
	if r.Discount.GreaterThan(MaxAmount) {
		return apperrors.Validationf("discount must be at most %s", MaxAmount.StringFixed(MoneyPlaces))
	}
	return nil
}

// ProductIDs returns the distinct product ids referenced by the request, in first-seen order.
func (r SaleRequest) ProductIDs() []string {
	seen := make(map[string]struct{}, len(r.Lines))
	ids := make([]string, 0, len(r.Lines))
	for _, line := range r.Lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}
	return ids
}

// StockDemand sums requested quantities per product. A product listed on
// several lines must cover the combined quantity. Validate bounds every sum
// by MaxQuantity, so call it on validated requests only.
func (r SaleRequest) StockDemand() map[string]int {
	demand := make(map[string]int, len(r.Lines))
	for _, line := range r.Lines {
		demand[line.ProductID] += line.Quantity
	}
	return demand
}

// BuildTransaction prices a sale against the authoritative product rows.
// products must contain every referenced id, normally read under a row lock.
// The returned transaction has no number yet; see AssignNumber.
func BuildTransaction(id string, req SaleRequest, products map[string]Product, now time.Time) (*Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	for productID, qty := range req.StockDemand() {
		p, ok := products[productID]
		if !ok {
			return nil, apperrors.NotFoundf("product %s", productID)
		}
		if !p.IsActive {
			return nil, apperrors.Validationf("product %s is not available for sale", p.Name)
		}
		if p.Stock < qty {
			return nil, fmt.Errorf("%w: %s has %d in stock, %d requested", apperrors.ErrInsufficientStock, p.Name, p.Stock, qty)
		}
	}

	items := make([]TransactionItem, 0, len(req.Lines))
	subtotal := decimal.Zero
	for i, line := range req.Lines {
		p := products[line.ProductID]
		lineTotal := RoundMoney(p.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		if lineTotal.GreaterThan(MaxAmount) {
			return nil, apperrors.Validationf("item %d: line total exceeds %s", i+1, MaxAmount.StringFixed(MoneyPlaces))
		}
		subtotal = subtotal.Add(lineTotal)
		if subtotal.GreaterThan(MaxAmount) {
			return nil, apperrors.Validationf("order subtotal exceeds %s", MaxAmount.StringFixed(MoneyPlaces))
		}
		items = append(items, TransactionItem{
			TransactionID: id,
			LineNo:        i + 1,
			ProductID:     p.ProductID,
			ProductName:   p.Name,
			Price:         p.Price,
			Quantity:      line.Quantity,
			Total:         lineTotal,
		})
	}

	tax := RoundMoney(req.Tax)
	discount := RoundMoney(req.Discount)
	total := subtotal.Sub(discount).Add(tax)
	if total.IsNegative() {
		return nil, apperrors.Validationf("discount exceeds the order amount")
	}
	if total.GreaterThan(MaxAmount) {
		return nil, apperrors.Validationf("order total exceeds %s", MaxAmount.StringFixed(MoneyPlaces))
	}

	paymentMethod := strings.TrimSpace(req.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}

	return &Transaction{
		TransactionID: id,
		Items:         items,
		Subtotal:      subtotal,
		Tax:           tax,
		Discount:      discount,
		Total:         total,
		PaymentMethod: paymentMethod,
		CustomerName:  trimOptional(req.CustomerName),
		Notes:         trimOptional(req.Notes),
		Status:        Completed,
		CreatedAt:     now.UTC(),
	}, nil
}

// TransactionPage selects a slice of the sale history, newest first.
// After, when set, takes precedence over Skip.
type TransactionPage struct {
	Limit int
	Skip  int
	After *TransactionCursor
}

// TransactionCursor identifies the last sale of a previous page.
type TransactionCursor struct {
	CreatedAt time.Time
	Sequence  int64
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
