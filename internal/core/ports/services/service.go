package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Posting  PostingSvcFacade
	Stock    StockSvcFacade
	Ledger   LedgerSvcFacade
	Sync     SyncSvcFacade
	Product  ProductSvcFacade
	Customer CustomerSvcFacade
	Chart    ChartSvcFacade
	User     UserSvcFacade
	Document DocumentSvcFacade
	Report   ReportSvcFacade
}
