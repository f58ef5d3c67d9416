package schema

// ConstraintDecl declares a uniqueness constraint on a label's key property.
type ConstraintDecl struct {
	Name     string
	Label    Label
	Property string
}

// IndexDecl declares a secondary index on a label property.
type IndexDecl struct {
	Name     string
	Label    Label
	Property string
}

// FullTextDecl declares a full-text index over one or more properties.
type FullTextDecl struct {
	Name       string
	Label      Label
	Properties []string
}

// IncidentSearchIndex is the name of the full-text index over incident
// titles and descriptions. The retrieval engine queries it by name.
const IncidentSearchIndex = "incident_search"

// Constraints returns the uniqueness constraints required before any write
// path runs: one per entity label, on its key property.
func Constraints() []ConstraintDecl {
	return []ConstraintDecl{
		{Name: "user_id_unique", Label: LabelUser, Property: "id"},
		{Name: "incident_id_unique", Label: LabelIncident, Property: "id"},
		{Name: "cloud_resource_id_unique", Label: LabelCloudResource, Property: "id"},
		{Name: "business_service_id_unique", Label: LabelBusinessService, Property: "id"},
		{Name: "category_id_unique", Label: LabelCategory, Property: "id"},
		{Name: "subcategory_id_unique", Label: LabelSubCategory, Property: "id"},
		{Name: "urgency_level_unique", Label: LabelUrgency, Property: "level"},
		{Name: "impact_level_unique", Label: LabelImpact, Property: "level"},
	}
}

// Indexes returns the secondary indexes required for query performance.
func Indexes() []IndexDecl {
	return []IndexDecl{
		{Name: "incident_status_idx", Label: LabelIncident, Property: "status"},
		{Name: "incident_created_at_idx", Label: LabelIncident, Property: "created_at"},
		{Name: "incident_priority_idx", Label: LabelIncident, Property: "priority"},
		{Name: "incident_category_idx", Label: LabelIncident, Property: "category_id"},
		{Name: "incident_service_idx", Label: LabelIncident, Property: "service_id"},
		{Name: "user_email_idx", Label: LabelUser, Property: "email"},
	}
}

// FullTextIndexes returns the full-text indexes the retrieval engine depends on.
func FullTextIndexes() []FullTextDecl {
	return []FullTextDecl{
		{
			Name:       IncidentSearchIndex,
			Label:      LabelIncident,
			Properties: []string{"title", "description"},
		},
	}
}
