package bootstrap

import (
	bleveRepositories "github.com/muhammedanshif/rentEase/bleve/repositories"
	"github.com/muhammedanshif/rentEase/config"
	tenant_repositories "github.com/muhammedanshif/rentEase/tenants/repositories"

	"go.uber.org/zap"
)

// IndexBleveData rebuilds the tenant search index from the database. A failure
// leaves search degraded but never stops startup.
func IndexBleveData(
	tenantRepo tenant_repositories.TenantRepository,
	bleveRepo bleveRepositories.BleveRepositoryInterface,
) error {
	if err := bleveRepo.ResetTenantIndex(); err != nil {
		config.Logger.Error("Error resetting tenant index", zap.Error(err))
		return err
	}

	tenants, err := tenantRepo.GetTenants()
	if err != nil {
		config.Logger.Error("Error fetching tenants for Bleve indexing", zap.Error(err))
		return err
	}
	if err := bleveRepo.IndexExistingTenants(tenants); err != nil {
		config.Logger.Error("Failed to index tenants into Bleve", zap.Error(err))
		return err
	}

	config.Logger.Info("Tenant search index rebuilt", zap.Int("tenants", len(tenants)))
	return nil
}
