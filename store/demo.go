// ABOUTME: Built-in demo leads shown when the backend is unreachable
// ABOUTME: Keeps the pipeline usable offline and in demo environments
package store

import (
	"time"

	"github.com/nordflytt/flyttcrm/models"
)

// DemoLeads returns the offline sample pipeline. IDs are fixed so repeated
// fallbacks do not pile up duplicates.
func DemoLeads() []models.Lead {
	now := time.Now()
	return []models.Lead{
		{
			ID:             "demo-1",
			Name:           "Anna Andersson",
			Email:          "anna@example.com",
			Phone:          "070-123 45 67",
			Source:         models.SourceWebsite,
			Status:         models.LeadStatusNew,
			Priority:       models.PriorityHigh,
			EstimatedValue: 15000,
			Notes:          "Flytt från Stockholm till Göteborg",
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		{
			ID:             "demo-2",
			Name:           "Företaget AB",
			Email:          "kontakt@foretaget.se",
			Phone:          "08-555 123 45",
			Source:         models.SourceReferral,
			Status:         models.LeadStatusContacted,
			Priority:       models.PriorityMedium,
			EstimatedValue: 45000,
			AssignedTo:     "Johan Svensson",
			Notes:          "Kontorsflytt, 20 arbetsplatser",
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		{
			ID:             "demo-3",
			Name:           "Maria Johansson",
			Email:          "maria.j@example.com",
			Phone:          "073-987 65 43",
			Source:         models.SourceMarketing,
			Status:         models.LeadStatusQualified,
			Priority:       models.PriorityHigh,
			EstimatedValue: 22000,
			Notes:          "Villa, 5 rum, behöver packning",
			CreatedAt:      now,
			UpdatedAt:      now,
		},
	}
}
