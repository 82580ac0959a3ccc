package repositories

import (
	"testing"

	bleveindex "github.com/muhammedanshif/rentEase/bleve/services"
	"github.com/muhammedanshif/rentEase/db/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func strPtr(s string) *string { return &s }

func TestSearchTenants(t *testing.T) {
	indexer := bleveindex.NewIndexingService(zap.NewNop(), "")
	t.Cleanup(func() { indexer.Close() })
	repo := NewBleveRepository(indexer)

	asha := models.Tenant{ID: uuid.New(), FullName: "Asha Menon", Email: "asha@example.com", RoomNumber: strPtr("101"), BuildingName: strPtr("Sunrise")}
	ravi := models.Tenant{ID: uuid.New(), FullName: "Ravi Kumar", Email: "ravi@example.com", Phone: strPtr("9000000001")}
	require.NoError(t, repo.IndexExistingTenants([]models.Tenant{asha, ravi}))

	hits, err := repo.SearchTenants("asha", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, asha.ID.String(), hits[0].ID)
	assert.Equal(t, "Asha Menon", hits[0].FullName)
	assert.Equal(t, "Sunrise", hits[0].BuildingName)

	// Typo tolerance
	hits, err = repo.SearchTenants("rav", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, ravi.ID.String(), hits[0].ID)

	require.NoError(t, repo.DeleteTenant(asha.ID.String()))
	hits, err = repo.SearchTenants("asha", 10)
	require.NoError(t, err)
	for _, h := range hits {
		assert.NotEqual(t, asha.ID.String(), h.ID)
	}
}
