package gaps

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pgxboard/internal/report"
)

func boolp(b bool) *bool { return &b }

func fullProfile() *report.Profile {
	return &report.Profile{
		PrimaryGene: "CYP2C9",
		Phenotype:   "Normal Metabolizer",
		Diplotype:   "*1/*1",
		DetectedVariants: []report.Variant{
			{RSID: "rs1799853", Gene: "CYP2C9"},
		},
	}
}

func TestNoCaveatsForCompleteResult(t *testing.T) {
	rep := report.Report{Single: &report.SingleResult{
		Drug:           "WARFARIN",
		Profile:        fullProfile(),
		QualityMetrics: &report.QualityMetrics{VCFParsingSuccess: boolp(true)},
	}}
	if got := Detect(rep); len(got) != 0 {
		t.Errorf("expected no caveats, got %v", got)
	}
}

func TestParsingFailureAlwaysFlagged(t *testing.T) {
	rep := report.Report{Single: &report.SingleResult{
		Drug:           "WARFARIN",
		Profile:        fullProfile(),
		QualityMetrics: &report.QualityMetrics{VCFParsingSuccess: boolp(false)},
	}}
	got := Detect(rep)
	if len(got) == 0 || got[0] != caveatParsing {
		t.Errorf("parsing caveat must lead the list, got %v", got)
	}
}

func TestAbsentParsingFlagIsNotAFailure(t *testing.T) {
	rep := report.Report{Single: &report.SingleResult{Drug: "ASPIRIN", Profile: fullProfile()}}
	for _, c := range Detect(rep) {
		if c == caveatParsing {
			t.Error("absent vcf_parsing_success must not trigger the parsing caveat")
		}
	}
}

func TestMissingRequiredGeneNamesDrugAndGene(t *testing.T) {
	rep := report.Report{Single: &report.SingleResult{Drug: "WARFARIN"}}
	got := Detect(rep)
	found := false
	for _, c := range got {
		if strings.Contains(c, "WARFARIN") && strings.Contains(c, "CYP2C9") {
			found = true
		}
	}
	if !found {
		t.Errorf("caveats must name WARFARIN and CYP2C9, got %v", got)
	}
}

func TestUnknownLiteralCountsAsMissing(t *testing.T) {
	p := fullProfile()
	p.PrimaryGene = "Unknown"
	rep := report.Report{Single: &report.SingleResult{Drug: "CODEINE", Profile: p}}
	got := Detect(rep)
	want := []string{caveatNoGene, incompleteCaveat("CODEINE", "CYP2D6")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("caveat mismatch (-want +got):\n%s", diff)
	}
}

func TestDrugOutsideTableNeverTriggersIncomplete(t *testing.T) {
	rep := report.Report{Single: &report.SingleResult{Drug: "IBUPROFEN"}}
	for _, c := range Detect(rep) {
		if strings.Contains(c, "incomplete") {
			t.Errorf("IBUPROFEN has no required gene, got %q", c)
		}
	}
}

func TestEmptySingleResultListsAllIndependentCaveats(t *testing.T) {
	got := Detect(report.Report{Single: &report.SingleResult{}})
	want := []string{caveatNoVariants, caveatNoGene, caveatNoPheno}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("caveat mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyBatchResultsMap(t *testing.T) {
	rep := report.Report{Batch: &report.BatchResult{Results: map[string]report.DrugResult{}}}
	want := []string{"No per-drug annotations were returned for this batch request."}
	if diff := cmp.Diff(want, Detect(rep)); diff != "" {
		t.Errorf("caveat mismatch (-want +got):\n%s", diff)
	}
}

func TestBatchSummaryAndPerDrugCaveats(t *testing.T) {
	rep := report.Report{Batch: &report.BatchResult{Results: map[string]report.DrugResult{
		"WARFARIN":  {},                                               // missing gene+phenotype, required gene
		"CODEINE":   {Gene: "CYP2D6", Phenotype: "Poor Metabolizer"},  // complete
		"IBUPROFEN": {Phenotype: "Normal Metabolizer"},                // missing gene, not in table
	}}}
	got := Detect(rep)
	want := []string{
		"2 of 3 drug results are missing gene or phenotype annotations.",
		incompleteCaveat("WARFARIN", "CYP2C9"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("caveat mismatch (-want +got):\n%s", diff)
	}
}

func TestNilReportHasNoCaveats(t *testing.T) {
	if got := Detect(report.Report{}); got != nil {
		t.Errorf("empty report should produce no caveats, got %v", got)
	}
}
