// Package schema declares the entity labels, relationship types, and
// enumerations of the incident operations graph, plus the uniqueness
// constraints and indexes every write path depends on.
package schema

import (
	"fmt"
	"strings"
)

// Label identifies an entity type in the graph.
type Label string

const (
	LabelUser            Label = "User"
	LabelIncident        Label = "Incident"
	LabelCloudResource   Label = "CloudResource"
	LabelBusinessService Label = "BusinessService"
	LabelCategory        Label = "Category"
	LabelSubCategory     Label = "SubCategory"
	LabelUrgency         Label = "Urgency"
	LabelImpact          Label = "Impact"
)

// String returns the string representation of the Label.
func (l Label) String() string {
	return string(l)
}

// IsValid checks if the Label is a known entity type.
func (l Label) IsValid() bool {
	switch l {
	case LabelUser, LabelIncident, LabelCloudResource, LabelBusinessService,
		LabelCategory, LabelSubCategory, LabelUrgency, LabelImpact:
		return true
	default:
		return false
	}
}

// Closed reports whether the label is a closed enumeration.
// The resolver must never propose new nodes for closed labels.
func (l Label) Closed() bool {
	switch l {
	case LabelCategory, LabelSubCategory, LabelUrgency, LabelImpact:
		return true
	default:
		return false
	}
}

// KeyProperty returns the property name carrying the unique key for the label.
func (l Label) KeyProperty() string {
	switch l {
	case LabelUrgency, LabelImpact:
		return "level"
	default:
		return "id"
	}
}

// ParseLabel maps a case-insensitive string onto a Label.
func ParseLabel(s string) (Label, error) {
	for _, l := range []Label{
		LabelUser, LabelIncident, LabelCloudResource, LabelBusinessService,
		LabelCategory, LabelSubCategory, LabelUrgency, LabelImpact,
	} {
		if strings.EqualFold(s, string(l)) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown entity label: %s", s)
}

// NodeID builds the canonical graph-wide node identifier for a label and key.
// Identifiers have the form "<label>:<key>" with a lowercase label, e.g.
// "incident:INC-001" or "businessservice:1". Keys keep their original case.
func NodeID(label Label, key string) string {
	return strings.ToLower(string(label)) + ":" + key
}

// RelationType identifies a directed relationship type between entities.
type RelationType string

const (
	RelationRelatesToService  RelationType = "RELATES_TO_SERVICE"
	RelationAffects           RelationType = "AFFECTS"
	RelationHasCategory       RelationType = "HAS_CATEGORY"
	RelationHasSubCategory    RelationType = "HAS_SUBCATEGORY1"
	RelationHasUrgency        RelationType = "HAS_URGENCY"
	RelationHasImpact         RelationType = "HAS_IMPACT"
	RelationAssignedTo        RelationType = "ASSIGNED_TO"
	RelationManages           RelationType = "MANAGES"
	RelationReported          RelationType = "REPORTED"
	RelationBlockedBy         RelationType = "BLOCKED_BY"
	RelationBelongsToCategory RelationType = "BELONGS_TO_CATEGORY"
	RelationBelongsToService  RelationType = "BELONGS_TO_SERVICE"
)

// String returns the string representation of the RelationType.
func (rt RelationType) String() string {
	return string(rt)
}

// IsValid checks if the RelationType is a known relationship type.
func (rt RelationType) IsValid() bool {
	switch rt {
	case RelationRelatesToService, RelationAffects, RelationHasCategory,
		RelationHasSubCategory, RelationHasUrgency, RelationHasImpact,
		RelationAssignedTo, RelationManages, RelationReported,
		RelationBlockedBy, RelationBelongsToCategory, RelationBelongsToService:
		return true
	default:
		return false
	}
}

// IncidentStatus represents the lifecycle status of an incident.
type IncidentStatus string

const (
	IncidentStatusOpen          IncidentStatus = "open"
	IncidentStatusInvestigating IncidentStatus = "investigating"
	IncidentStatusResolved      IncidentStatus = "resolved"
	IncidentStatusClosed        IncidentStatus = "closed"
)

// String returns the string representation of IncidentStatus.
func (s IncidentStatus) String() string {
	return string(s)
}

// Validate checks if the IncidentStatus is valid.
func (s IncidentStatus) Validate() error {
	switch s {
	case IncidentStatusOpen, IncidentStatusInvestigating,
		IncidentStatusResolved, IncidentStatusClosed:
		return nil
	default:
		return fmt.Errorf("invalid incident status: %s", s)
	}
}

// IncidentPriority represents the priority band of an incident.
type IncidentPriority string

const (
	PriorityP1 IncidentPriority = "P1"
	PriorityP2 IncidentPriority = "P2"
	PriorityP3 IncidentPriority = "P3"
	PriorityP4 IncidentPriority = "P4"
)

// String returns the string representation of IncidentPriority.
func (p IncidentPriority) String() string {
	return string(p)
}

// Validate checks if the IncidentPriority is valid.
func (p IncidentPriority) Validate() error {
	switch p {
	case PriorityP1, PriorityP2, PriorityP3, PriorityP4:
		return nil
	default:
		return fmt.Errorf("invalid incident priority: %s", p)
	}
}

// PriorityForUrgency maps an urgency level to the conventional priority band.
// Urgency levels and priorities share the same 1..4 scale.
func PriorityForUrgency(level int) (IncidentPriority, error) {
	switch level {
	case 1:
		return PriorityP1, nil
	case 2:
		return PriorityP2, nil
	case 3:
		return PriorityP3, nil
	case 4:
		return PriorityP4, nil
	default:
		return "", fmt.Errorf("urgency level out of range: %d", level)
	}
}

// SourceLLMProposal is the provenance tag for incidents created by the
// proposal pipeline.
const SourceLLMProposal = "llm_proposal"
