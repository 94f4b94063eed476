// ABOUTME: Tests for pipeline grouping, metrics, and KPIs
// ABOUTME: Exercises the board layout against a mixed lead list
package pipeline

import (
	"testing"

	"github.com/nordflytt/flyttcrm/models"
)

func sampleLeads() []models.Lead {
	return []models.Lead{
		{ID: "1", Name: "Anna Andersson", Status: models.LeadStatusNew, EstimatedValue: 15000, Phone: "070-123 45 67"},
		{ID: "2", Name: "Företaget AB", Status: models.LeadStatusContacted, EstimatedValue: 45000, Email: "kontakt@foretaget.se"},
		{ID: "3", Name: "Maria Johansson", Status: models.LeadStatusQualified, EstimatedValue: 22000},
		{ID: "4", Name: "Erik Larsson", Status: models.LeadStatusProposal, EstimatedValue: 18000},
		{ID: "5", Name: "Karin Nilsson", Status: models.LeadStatusClosedWon, EstimatedValue: 30000},
		{ID: "6", Name: "Lars Olsson", Status: models.LeadStatusClosedLost, EstimatedValue: 12000},
	}
}

func TestStagesAreComplete(t *testing.T) {
	if len(Stages) != 7 {
		t.Fatalf("expected 7 stages, got %d", len(Stages))
	}
	if Stages[0].ID != models.LeadStatusNew || Stages[0].Label != "Nya Leads" {
		t.Errorf("first stage = %+v, want new/Nya Leads", Stages[0])
	}
	if Stages[6].ID != models.LeadStatusClosedLost || Stages[6].Label != "Förlorade" {
		t.Errorf("last stage = %+v, want closed_lost/Förlorade", Stages[6])
	}
}

func TestGroupByStage(t *testing.T) {
	groups := GroupByStage(sampleLeads())

	if len(groups) != len(Stages) {
		t.Fatalf("expected %d groups, got %d", len(Stages), len(groups))
	}
	if len(groups[models.LeadStatusNew]) != 1 {
		t.Errorf("new column = %d leads, want 1", len(groups[models.LeadStatusNew]))
	}
	if len(groups[models.LeadStatusNegotiation]) != 0 {
		t.Errorf("empty stage should still have an entry")
	}
}

func TestGroupByStageDropsUnknownStatus(t *testing.T) {
	groups := GroupByStage([]models.Lead{{ID: "x", Status: "bogus"}})
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	if total != 0 {
		t.Errorf("unknown status should not be grouped, got %d leads", total)
	}
}

func TestMetricsByStage(t *testing.T) {
	metrics := MetricsByStage(sampleLeads())

	if m := metrics[models.LeadStatusContacted]; m.Count != 1 || m.TotalValue != 45000 {
		t.Errorf("contacted metrics = %+v, want count 1 value 45000", m)
	}
	if m := metrics[models.LeadStatusNegotiation]; m.Count != 0 || m.TotalValue != 0 {
		t.Errorf("empty stage metrics = %+v, want zeros", m)
	}
}

func TestComputeKPIs(t *testing.T) {
	kpis := ComputeKPIs(sampleLeads())

	if kpis.TotalLeads != 6 {
		t.Errorf("TotalLeads = %d, want 6", kpis.TotalLeads)
	}
	// qualified, proposal, and closed_won count as qualified
	if kpis.Qualified != 3 {
		t.Errorf("Qualified = %d, want 3", kpis.Qualified)
	}
	// open leads: 15000 + 45000 + 22000 + 18000
	if kpis.PipelineValue != 100000 {
		t.Errorf("PipelineValue = %d, want 100000", kpis.PipelineValue)
	}
	if kpis.WonValue != 30000 {
		t.Errorf("WonValue = %d, want 30000", kpis.WonValue)
	}
	// 1 won out of 6
	want := float64(1) / 6 * 100
	if kpis.ConversionRate != want {
		t.Errorf("ConversionRate = %f, want %f", kpis.ConversionRate, want)
	}
}

func TestComputeKPIsEmpty(t *testing.T) {
	kpis := ComputeKPIs(nil)
	if kpis.ConversionRate != 0 {
		t.Errorf("empty list ConversionRate = %f, want 0", kpis.ConversionRate)
	}
}

func TestFilterLeads(t *testing.T) {
	leads := sampleLeads()

	byName := FilterLeads(leads, LeadFilter{Search: "anna"})
	if len(byName) != 1 || byName[0].ID != "1" {
		t.Errorf("search anna = %d results, want lead 1", len(byName))
	}

	byEmail := FilterLeads(leads, LeadFilter{Search: "foretaget"})
	if len(byEmail) != 1 || byEmail[0].ID != "2" {
		t.Errorf("search foretaget = %d results, want lead 2", len(byEmail))
	}

	byPhone := FilterLeads(leads, LeadFilter{Search: "070-123"})
	if len(byPhone) != 1 || byPhone[0].ID != "1" {
		t.Errorf("search by phone = %d results, want lead 1", len(byPhone))
	}

	all := FilterLeads(leads, LeadFilter{})
	if len(all) != len(leads) {
		t.Errorf("empty filter = %d results, want %d", len(all), len(leads))
	}
}

func TestIsStage(t *testing.T) {
	if !IsStage(models.LeadStatusProposal) {
		t.Error("proposal should be a stage")
	}
	if IsStage("bogus") {
		t.Error("bogus should not be a stage")
	}
}
