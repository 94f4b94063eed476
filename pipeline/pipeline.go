// ABOUTME: Lead pipeline: the seven sales stages, grouping and KPIs
// ABOUTME: Stage order is fixed; labels are the Swedish board headings
package pipeline

import (
	"strings"

	"github.com/nordflytt/flyttcrm/models"
)

// Stage describes one pipeline column.
type Stage struct {
	ID    string
	Label string
	Color string
}

// Stages is the fixed board layout, left to right.
var Stages = []Stage{
	{ID: models.LeadStatusNew, Label: "Nya Leads", Color: "#3b82f6"},
	{ID: models.LeadStatusContacted, Label: "Kontaktade", Color: "#8b5cf6"},
	{ID: models.LeadStatusQualified, Label: "Kvalificerade", Color: "#f59e0b"},
	{ID: models.LeadStatusProposal, Label: "Offert Skickad", Color: "#f97316"},
	{ID: models.LeadStatusNegotiation, Label: "Förhandling", Color: "#eab308"},
	{ID: models.LeadStatusClosedWon, Label: "Vunna", Color: "#22c55e"},
	{ID: models.LeadStatusClosedLost, Label: "Förlorade", Color: "#ef4444"},
}

// IsStage reports whether id names a pipeline stage.
func IsStage(id string) bool {
	for _, s := range Stages {
		if s.ID == id {
			return true
		}
	}
	return false
}

// Label returns the display label for a stage, falling back to the raw ID.
func Label(id string) string {
	for _, s := range Stages {
		if s.ID == id {
			return s.Label
		}
	}
	return id
}

// GroupByStage buckets leads into board columns. Every stage gets an entry
// even when empty; leads with an unknown status are dropped.
func GroupByStage(leads []models.Lead) map[string][]models.Lead {
	groups := make(map[string][]models.Lead, len(Stages))
	for _, s := range Stages {
		groups[s.ID] = []models.Lead{}
	}
	for _, l := range leads {
		if _, ok := groups[l.Status]; ok {
			groups[l.Status] = append(groups[l.Status], l)
		}
	}
	return groups
}

// StageMetrics summarizes one column.
type StageMetrics struct {
	Count      int
	TotalValue int64
}

// MetricsByStage computes the per-column count and value totals.
func MetricsByStage(leads []models.Lead) map[string]StageMetrics {
	metrics := make(map[string]StageMetrics, len(Stages))
	for _, s := range Stages {
		metrics[s.ID] = StageMetrics{}
	}
	for _, l := range leads {
		m, ok := metrics[l.Status]
		if !ok {
			continue
		}
		m.Count++
		m.TotalValue += l.EstimatedValue
		metrics[l.Status] = m
	}
	return metrics
}

// KPIs are the pipeline headline numbers.
type KPIs struct {
	TotalLeads int
	// Qualified counts leads at qualified or later, excluding losses.
	Qualified int
	// PipelineValue sums estimated value over open (not closed) leads.
	PipelineValue int64
	WonValue      int64
	// ConversionRate is won leads over all leads, as a percentage.
	ConversionRate float64
}

// ComputeKPIs derives the headline numbers from the full lead list.
func ComputeKPIs(leads []models.Lead) KPIs {
	var k KPIs
	k.TotalLeads = len(leads)
	var won int
	for _, l := range leads {
		switch l.Status {
		case models.LeadStatusQualified, models.LeadStatusProposal, models.LeadStatusNegotiation:
			k.Qualified++
			k.PipelineValue += l.EstimatedValue
		case models.LeadStatusClosedWon:
			k.Qualified++
			won++
			k.WonValue += l.EstimatedValue
		case models.LeadStatusNew, models.LeadStatusContacted:
			k.PipelineValue += l.EstimatedValue
		}
	}
	if k.TotalLeads > 0 {
		k.ConversionRate = float64(won) / float64(k.TotalLeads) * 100
	}
	return k
}

// LeadFilter narrows the lead list. Empty fields match everything.
type LeadFilter struct {
	Search   string
	Source   string
	Priority string
}

// FilterLeads returns leads matching the filter. Search covers name, email
// and phone, case-insensitively.
func FilterLeads(leads []models.Lead, f LeadFilter) []models.Lead {
	q := strings.ToLower(strings.TrimSpace(f.Search))
	var out []models.Lead
	for _, l := range leads {
		if f.Source != "" && l.Source != f.Source {
			continue
		}
		if f.Priority != "" && l.Priority != f.Priority {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(l.Name), q) &&
			!strings.Contains(strings.ToLower(l.Email), q) &&
			!strings.Contains(l.Phone, q) {
			continue
		}
		out = append(out, l)
	}
	return out
}
