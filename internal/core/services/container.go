package services

import (
	portsrepo "github.com/SscSPs/pos_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_app/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, recorder SalesRecorder) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Product: NewProductService(repos.ProductRepo),
		Transaction: NewTransactionService(
			repos.TransactionRepo,
			repos.ProductRepo,
			WithSalesRecorder(recorder),
		),
		Reporting: NewReportingService(repos.ReportingRepo),
	}
}
