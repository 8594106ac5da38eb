// Package container provides dependency injection and lifecycle management
// for the ERP gateway.
package container

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/garyjia/erp-gateway/internal/application/port"
	"github.com/garyjia/erp-gateway/internal/application/service"
	"github.com/garyjia/erp-gateway/internal/config"
	"github.com/garyjia/erp-gateway/internal/domain/entity"
	"github.com/garyjia/erp-gateway/internal/infrastructure/external/frappe"
	"github.com/garyjia/erp-gateway/internal/infrastructure/persistence/repository"
	"github.com/garyjia/erp-gateway/internal/infrastructure/storage"
	"github.com/garyjia/erp-gateway/internal/infrastructure/worker"
	httpapi "github.com/garyjia/erp-gateway/internal/interfaces/http"
	"github.com/garyjia/erp-gateway/migrations"
	"github.com/garyjia/erp-gateway/pkg/database"
)

// ERPBundle holds the two ERP server adapters.
type ERPBundle struct {
	Client *frappe.Client
	DB     *frappe.DB
}

// ServiceBundle groups all application services.
type ServiceBundle struct {
	Fetcher   *service.Fetcher
	Reports   service.ReportService
	Exports   service.ExportService
	POS       service.POSService
	Resources httpapi.Resources
}

// ProvideDatabase opens the SQLite database and applies pending migrations.
func ProvideDatabase(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*database.DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}

	db, err := database.New(ctx, database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	if _, err := database.NewMigrator(db, logger).RunMigrations(ctx, MigrationsFS(cfg)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// MigrationsFS returns the configured migrations directory, or the embedded
// migrations when none is set.
func MigrationsFS(cfg *config.DatabaseConfig) fs.FS {
	if cfg.MigrationsDir != "" {
		return os.DirFS(cfg.MigrationsDir)
	}
	return migrations.FS
}

// ProvideERP creates the ERP method API client and the resource API helper.
func ProvideERP(cfg *config.ERPConfig, logger *zap.Logger) (*ERPBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("erp config is required")
	}

	client, err := frappe.NewClient(frappe.Config{
		BaseURL:   cfg.BaseURL,
		APIKey:    cfg.APIKey,
		APISecret: cfg.APISecret,
		Timeout:   cfg.Timeout,
	}, logger)
	if err != nil {
		return nil, err
	}

	return &ERPBundle{
		Client: client,
		DB:     frappe.NewDB(client),
	}, nil
}

// ProvideStorage creates the local export storage.
func ProvideStorage(cfg *config.StorageConfig, logger *zap.Logger) (*storage.LocalExportStorage, error) {
	if cfg == nil || cfg.ExportDir == "" {
		return nil, fmt.Errorf("storage.export_dir is required")
	}
	return storage.NewLocalExportStorage(cfg.ExportDir, logger), nil
}

// ServiceDeps holds dependencies for creating services.
type ServiceDeps struct {
	Client      port.ERPClient
	DB          port.DocumentDB
	Exports     port.ExportStorage
	Concurrency int
	PageLength  int
	Logger      service.Logger
}

// ProvideServices creates all application services.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil || deps.Client == nil || deps.DB == nil {
		return nil, fmt.Errorf("erp adapters are required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	fetcher := service.NewFetcher(deps.Client, deps.Concurrency, deps.Logger)

	return &ServiceBundle{
		Fetcher:   fetcher,
		Reports:   service.NewReportService(deps.Client, fetcher, deps.Logger),
		Exports:   service.NewExportService(deps.Exports, deps.Logger),
		POS:       service.NewPOSService(deps.Client, deps.DB, fetcher, deps.Logger),
		Resources: provideResources(deps, fetcher),
	}, nil
}

// provideResources configures the per-doctype CRUD services.
func provideResources(deps *ServiceDeps, fetcher *service.Fetcher) httpapi.Resources {
	configure := func(cfg service.ResourceConfig) service.ResourceConfig {
		cfg.PageLength = deps.PageLength
		return cfg
	}

	return httpapi.Resources{
		Expenses: newResource[entity.ExpenseClaim](deps, fetcher, configure(service.ResourceConfig{
			DocType:      entity.DocTypeExpenseClaim,
			ExpandList:   true,
			FilterFields: []string{"employee", "status", "approval_status", "company", "docstatus"},
			DateField:    "posting_date",
		})),
		Purchases: newResource[entity.PurchaseInvoice](deps, fetcher, configure(service.ResourceConfig{
			DocType:      entity.DocTypePurchaseInvoice,
			ExpandList:   true,
			FilterFields: []string{"supplier", "status", "company", "docstatus"},
			DateField:    "posting_date",
		})),
		SalesInvoices: newResource[entity.SalesInvoice](deps, fetcher, configure(service.ResourceConfig{
			DocType:      entity.DocTypeSalesInvoice,
			ListFields:   []string{"name", "customer", "customer_name", "company", "posting_date", "due_date", "status", "docstatus", "is_pos", "grand_total", "outstanding_amount", "modified"},
			FilterFields: []string{"customer", "status", "company", "docstatus", "is_pos"},
			DateField:    "posting_date",
		})),
		Payments: newResource[entity.PaymentEntry](deps, fetcher, configure(service.ResourceConfig{
			DocType:      entity.DocTypePaymentEntry,
			ListFields:   []string{"name", "payment_type", "party_type", "party", "company", "posting_date", "mode_of_payment", "paid_amount", "received_amount", "reference_no", "docstatus", "modified"},
			FilterFields: []string{"payment_type", "party_type", "party", "company", "docstatus"},
			DateField:    "posting_date",
		})),
		Accounts: newResource[entity.Account](deps, fetcher, configure(service.ResourceConfig{
			DocType:      entity.DocTypeAccount,
			ListFields:   []string{"name", "account_name", "root_type", "account_type", "parent_account", "company", "is_group"},
			FilterFields: []string{"company", "root_type", "account_type", "is_group"},
			ResourceAPI:  true,
			OrderBy:      "name asc",
		})),
		Assets: newResource[entity.Asset](deps, fetcher, configure(service.ResourceConfig{
			DocType:      entity.DocTypeAsset,
			ListFields:   []string{"name", "asset_name", "item_code", "asset_category", "location", "custodian", "company", "status", "purchase_date", "available_for_use_date", "gross_purchase_amount", "is_existing_asset", "docstatus", "modified"},
			FilterFields: []string{"status", "asset_category", "location", "custodian", "company", "docstatus"},
			DateField:    "purchase_date",
		})),
		Movements: newResource[entity.AssetMovement](deps, fetcher, configure(service.ResourceConfig{
			DocType:      entity.DocTypeAssetMovement,
			ExpandList:   true,
			FilterFields: []string{"purpose", "company", "docstatus"},
			DateField:    "transaction_date",
		})),
		Maintenance: newResource[entity.AssetMaintenance](deps, fetcher, configure(service.ResourceConfig{
			DocType:      entity.DocTypeAssetMaintenance,
			ExpandList:   true,
			FilterFields: []string{"asset_name", "company", "maintenance_team"},
		})),
		ValueAdjustments: newResource[entity.AssetValueAdjustment](deps, fetcher, configure(service.ResourceConfig{
			DocType:      entity.DocTypeAssetValueAdjustment,
			ExpandList:   true,
			FilterFields: []string{"asset", "company", "docstatus"},
			DateField:    "date",
		})),
		Leads: newResource[entity.Lead](deps, fetcher, configure(service.ResourceConfig{
			DocType:      entity.DocTypeLead,
			ListFields:   []string{"name", "lead_name", "first_name", "last_name", "company_name", "email_id", "mobile_no", "source", "status", "lead_owner", "territory", "modified"},
			FilterFields: []string{"status", "source", "lead_owner", "company_name"},
			DateField:    "creation",
		})),
		Opportunities: newResource[entity.Opportunity](deps, fetcher, configure(service.ResourceConfig{
			DocType:      entity.DocTypeOpportunity,
			ListFields:   []string{"name", "opportunity_from", "party_name", "opportunity_type", "status", "sales_stage", "company", "currency", "opportunity_amount", "probability", "expected_closing", "modified"},
			FilterFields: []string{"status", "opportunity_from", "party_name", "sales_stage", "company"},
			DateField:    "transaction_date",
		})),
		Customers: newResource[entity.Customer](deps, fetcher, configure(service.ResourceConfig{
			DocType:      entity.DocTypeCustomer,
			ListFields:   []string{"name", "customer_name", "customer_type", "customer_group", "territory", "email_id", "mobile_no", "disabled", "modified"},
			FilterFields: []string{"customer_type", "customer_group", "territory", "disabled"},
		})),
		DeliveryNotes: newResource[entity.DeliveryNote](deps, fetcher, configure(service.ResourceConfig{
			DocType:      entity.DocTypeDeliveryNote,
			ListFields:   []string{"name", "customer", "company", "posting_date", "status", "docstatus", "grand_total", "modified"},
			FilterFields: []string{"customer", "status", "company", "docstatus"},
			DateField:    "posting_date",
			ResourceAPI:  true,
		})),
		StockEntries: newResource[entity.StockEntry](deps, fetcher, configure(service.ResourceConfig{
			DocType:      entity.DocTypeStockEntry,
			ListFields:   []string{"name", "stock_entry_type", "purpose", "company", "posting_date", "docstatus", "modified"},
			FilterFields: []string{"stock_entry_type", "purpose", "company", "docstatus"},
			DateField:    "posting_date",
			ResourceAPI:  true,
		})),
	}
}

func newResource[T any](deps *ServiceDeps, fetcher *service.Fetcher, cfg service.ResourceConfig) *service.ResourceService[T] {
	return service.NewResourceService[T](cfg, deps.Client, deps.DB, fetcher, deps.Logger)
}

// WorkerDeps holds dependencies for creating workers.
type WorkerDeps struct {
	Audit   *config.AuditConfig
	Logs    port.RequestLogRepository
	Exports port.ExportStorage
	Logger  *zap.Logger
}

// ProvideWorkers creates the worker manager with the retention pruner
// registered when the audit trail is enabled.
func ProvideWorkers(deps *WorkerDeps) (*worker.WorkerManager, error) {
	if deps == nil || deps.Logger == nil {
		return nil, fmt.Errorf("worker dependencies are required")
	}

	manager := worker.NewWorkerManager(deps.Logger)
	if deps.Audit == nil || !deps.Audit.Enabled {
		return manager, nil
	}
	if deps.Logs == nil {
		return nil, fmt.Errorf("request log repository is required when audit is enabled")
	}

	manager.Register(worker.NewPruneWorker(worker.PruneWorkerConfig{
		Interval:        deps.Audit.PruneInterval,
		LogRetention:    deps.Audit.Retention,
		ExportRetention: deps.Audit.ExportRetention,
	}, deps.Logs, deps.Exports, deps.Logger))

	return manager, nil
}

// ProvideRequestLogs creates the request log repository.
func ProvideRequestLogs(db *database.DB, logger *zap.Logger) *repository.RequestLogRepository {
	return repository.NewRequestLogRepository(db.DB, logger)
}
