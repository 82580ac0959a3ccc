package repositories

import (
	bleveindex "github.com/muhammedanshif/rentEase/bleve/services"
	"github.com/muhammedanshif/rentEase/db/models"
)

type BleveRepository struct {
	indexer bleveindex.IndexingServiceInterface
}

type BleveRepositoryInterface interface {
	IndexSingleTenant(tenant models.Tenant) error
	IndexExistingTenants(tenants []models.Tenant) error
	DeleteTenant(tenantID string) error
	SearchTenants(queryString string, limit int) ([]TenantHit, error)
	ResetTenantIndex() error
}

func NewBleveRepository(indexer bleveindex.IndexingServiceInterface) BleveRepositoryInterface {
	return &BleveRepository{indexer: indexer}
}
