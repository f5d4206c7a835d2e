package mapping

import (
	"github.com/SscSPs/pos_app/internal/core/domain"
	"github.com/SscSPs/pos_app/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction and its item rows
func ToModelTransaction(d domain.Transaction) (models.Transaction, []models.TransactionItem) {
	items := make([]models.TransactionItem, len(d.Items))
	for i, item := range d.Items {
		items[i] = models.TransactionItem{
			TransactionID: d.TransactionID,
			LineNo:        item.LineNo,
			ProductID:     item.ProductID,
			ProductName:   item.ProductName,
			Price:         item.Price,
			Quantity:      item.Quantity,
			Total:         item.Total,
		}
		if items[i].LineNo == 0 {
			items[i].LineNo = i + 1
		}
	}
	return models.Transaction{
		TransactionID:     d.TransactionID,
		TransactionNumber: d.TransactionNumber,
		TransactionSeq:    d.Sequence,
		Subtotal:          d.Subtotal,
		Tax:               d.Tax,
		Discount:          d.Discount,
		Total:             d.Total,
		PaymentMethod:     d.PaymentMethod,
		CustomerName:      d.CustomerName,
		Notes:             d.Notes,
		Status:            string(d.Status),
		CreatedAt:         d.CreatedAt,
	}, items
}

// ToDomainTransaction converts a model Transaction and its item rows to a domain Transaction
func ToDomainTransaction(m models.Transaction, items []models.TransactionItem) domain.Transaction {
	domainItems := make([]domain.TransactionItem, len(items))
	for i, item := range items {
		domainItems[i] = domain.TransactionItem{
			TransactionID: item.TransactionID,
			LineNo:        item.LineNo,
			ProductID:     item.ProductID,
			ProductName:   item.ProductName,
			Price:         item.Price,
			Quantity:      item.Quantity,
			Total:         item.Total,
		}
	}
	return domain.Transaction{
		TransactionID:     m.TransactionID,
		TransactionNumber: m.TransactionNumber,
		Sequence:          m.TransactionSeq,
		Items:             domainItems,
		Subtotal:          m.Subtotal,
		Tax:               m.Tax,
		Discount:          m.Discount,
		Total:             m.Total,
		PaymentMethod:     m.PaymentMethod,
		CustomerName:      m.CustomerName,
		Notes:             m.Notes,
		Status:            domain.TransactionStatus(m.Status),
		CreatedAt:         m.CreatedAt.UTC(),
	}
}
