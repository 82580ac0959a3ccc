package repositories

import (
	"strings"

	"github.com/muhammedanshif/rentEase/db/models"

	"github.com/blevesearch/bleve/v2"
)

const tenantIndex = "tenants"

var tenantSearchFields = []string{"full_name", "email", "phone", "room_number", "building_name", "username"}

// TenantHit is a search match with the stored fields flattened.
type TenantHit struct {
	ID           string  `json:"id"`
	Score        float64 `json:"score"`
	FullName     string  `json:"full_name"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	RoomNumber   string  `json:"room_number"`
	BuildingName string  `json:"building_name"`
}

type tenantDocument struct {
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Username     string `json:"username"`
	RoomNumber   string `json:"room_number"`
	BuildingName string `json:"building_name"`
}

func toTenantDocument(t models.Tenant) tenantDocument {
	doc := tenantDocument{
		FullName: t.FullName,
		Email:    t.Email,
		Username: t.Username,
	}
	if t.Phone != nil {
		doc.Phone = *t.Phone
	}
	if t.RoomNumber != nil {
		doc.RoomNumber = *t.RoomNumber
	}
	if t.BuildingName != nil {
		doc.BuildingName = *t.BuildingName
	}
	return doc
}

func (r *BleveRepository) IndexSingleTenant(tenant models.Tenant) error {
	return r.indexer.IndexDocument(tenantIndex, tenant.ID.String(), toTenantDocument(tenant))
}

func (r *BleveRepository) IndexExistingTenants(tenants []models.Tenant) error {
	if len(tenants) == 0 {
		return nil
	}
	docs := make(map[string]interface{}, len(tenants))
	for _, t := range tenants {
		docs[t.ID.String()] = toTenantDocument(t)
	}
	return r.indexer.BulkIndexDocuments(tenantIndex, docs)
}

func (r *BleveRepository) DeleteTenant(tenantID string) error {
	return r.indexer.DeleteDocument(tenantIndex, tenantID)
}

func (r *BleveRepository) ResetTenantIndex() error {
	return r.indexer.DeleteIndex(tenantIndex)
}

// SearchTenants ORs exact, prefix and fuzzy matches over every tenant field,
// weighting exact matches highest.
func (r *BleveRepository) SearchTenants(queryString string, limit int) ([]TenantHit, error) {
	queryString = strings.TrimSpace(queryString)
	lowered := strings.ToLower(queryString)

	booleanQuery := bleve.NewBooleanQuery()
	for _, field := range tenantSearchFields {
		match := bleve.NewMatchQuery(queryString)
		match.SetField(field)
		match.SetBoost(3.0)
		booleanQuery.AddShould(match)

		prefix := bleve.NewPrefixQuery(lowered)
		prefix.SetField(field)
		prefix.SetBoost(2.0)
		booleanQuery.AddShould(prefix)

		fuzzy := bleve.NewFuzzyQuery(lowered)
		fuzzy.SetField(field)
		fuzzy.SetFuzziness(1)
		fuzzy.SetBoost(1.0)
		booleanQuery.AddShould(fuzzy)
	}
	booleanQuery.SetMinShould(1)

	result, err := r.indexer.SearchIndex(tenantIndex, booleanQuery, limit)
	if err != nil {
		return nil, err
	}

	hits := make([]TenantHit, 0, len(result.Hits))
	for _, h := range result.Hits {
		hits = append(hits, TenantHit{
			ID:           h.ID,
			Score:        h.Score,
			FullName:     fieldString(h.Fields, "full_name"),
			Email:        fieldString(h.Fields, "email"),
			Phone:        fieldString(h.Fields, "phone"),
			RoomNumber:   fieldString(h.Fields, "room_number"),
			BuildingName: fieldString(h.Fields, "building_name"),
		})
	}
	return hits, nil
}

func fieldString(fields map[string]interface{}, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}
