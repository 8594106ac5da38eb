// Package http exposes the gateway's REST API over the application services.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/garyjia/erp-gateway/internal/application/port"
	"github.com/garyjia/erp-gateway/internal/application/service"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// Mode is the gin mode (debug, release or test)
	Mode      string
	APITokens []string
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:            "0.0.0.0",
		Port:            8080,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    120 * time.Second,
		ShutdownTimeout: 15 * time.Second,
		Mode:            gin.ReleaseMode,
	}
}

// Services are the application services served over HTTP
type Services struct {
	Reports   service.ReportService
	Exports   service.ExportService
	POS       service.POSService
	Resources Resources
	// RequestLogs enables the audit trail when set
	RequestLogs port.RequestLogRepository
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	services   Services
	logger     *zap.Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(config ServerConfig, services Services, logger *zap.Logger) *Server {
	if config.Mode == "" {
		config.Mode = gin.ReleaseMode
	}
	gin.SetMode(config.Mode)

	server := &Server{
		config:   config,
		router:   gin.New(),
		services: services,
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(requestIDMiddleware())
	s.router.Use(loggingMiddleware(s.logger))
	s.router.Use(corsMiddleware())
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", HealthCheck)

	api := s.router.Group("/api")
	api.Use(requireAuth(s.config.APITokens))
	if s.services.RequestLogs != nil {
		api.Use(auditMiddleware(s.services.RequestLogs, s.logger))
	}

	res := s.services.Resources

	accounting := api.Group("/accounting")
	{
		if s.services.Reports != nil {
			reports := NewReportHandlers(s.services.Reports, s.services.Exports)
			accounting.GET("/reports/income-statement", reports.IncomeStatement)
			accounting.GET("/reports/cash-flow", reports.CashFlow)
			accounting.GET("/reports/balance-sheet", reports.BalanceSheet)
		}
		if s.services.Exports != nil {
			exports := NewExportHandlers(s.services.Exports)
			accounting.GET("/reports/exports", exports.List)
			accounting.GET("/reports/exports/:name", exports.Download)
		}

		registerResource(accounting, "/expenses", res.Expenses, false)
		registerResource(accounting, "/purchases", res.Purchases, false)
		registerResource(accounting, "/sales-invoices", res.SalesInvoices, false)
		registerResource(accounting, "/payments", res.Payments, false)
		registerResource(accounting, "/accounts", res.Accounts, true)
	}

	asset := api.Group("/asset")
	{
		registerResource(asset, "/assets", res.Assets, false)
		registerResource(asset, "/movements", res.Movements, false)
		registerResource(asset, "/maintenance", res.Maintenance, false)
		registerResource(asset, "/value-adjustments", res.ValueAdjustments, false)
	}

	crm := api.Group("/crm")
	{
		registerResource(crm, "/leads", res.Leads, false)
		registerResource(crm, "/opportunities", res.Opportunities, false)
		registerResource(crm, "/customers", res.Customers, false)
	}

	registerResource(api, "/delivery-notes", res.DeliveryNotes, false)
	registerResource(api, "/stock-entries", res.StockEntries, false)

	if s.services.POS != nil {
		pos := NewPOSHandlers(s.services.POS)
		api.GET("/pos", pos.ListSales)
		api.POST("/pos", pos.CreateSale)
	}

	if s.services.RequestLogs != nil {
		admin := NewAdminHandlers(s.services.RequestLogs)
		api.GET("/admin/request-logs", admin.ListRequestLogs)
	}
}

// Start serves HTTP until ctx is canceled or the listener fails
func (s *Server) Start(ctx context.Context) error {
	addr := s.Address()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", zap.Error(err))
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
