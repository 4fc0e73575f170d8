// Package gaps inspects a completed analysis result and derives the caveats
// shown under the report: parsing problems, missing genes or phenotypes, and
// drugs whose required gene never showed up.
package gaps

import (
	"fmt"
	"sort"
	"strings"

	"pgxboard/internal/policy"
	"pgxboard/internal/report"
)

const (
	caveatParsing    = "VCF parsing did not complete successfully; results may be based on partial variant data."
	caveatNoVariants = "No pharmacogenomic variants were detected in the uploaded file."
	caveatNoGene     = "The primary gene for this analysis could not be determined."
	caveatNoPheno    = "No metabolizer phenotype could be inferred from the detected variants."
	caveatEmptyBatch = "No per-drug annotations were returned for this batch request."
)

// Detect derives the ordered caveat list for the populated result. Rules are
// evaluated independently; every applicable caveat is included. An empty list
// means no gaps were found.
func Detect(r report.Report) []string {
	switch {
	case r.Single != nil:
		return detectSingle(r.Single)
	case r.Batch != nil:
		return detectBatch(r.Batch)
	}
	return nil
}

func detectSingle(s *report.SingleResult) []string {
	var caveats []string

	// Only an explicit false counts; an absent flag says nothing.
	if qm := s.QualityMetrics; qm != nil && qm.VCFParsingSuccess != nil && !*qm.VCFParsingSuccess {
		caveats = append(caveats, caveatParsing)
	}

	variantCount := 0
	if s.Profile != nil {
		variantCount = len(s.Profile.DetectedVariants)
	}
	if variantCount == 0 {
		caveats = append(caveats, caveatNoVariants)
	}

	geneMissing := s.Profile == nil || fieldMissing(s.Profile.PrimaryGene)
	if geneMissing {
		caveats = append(caveats, caveatNoGene)
	}
	if s.Profile == nil || fieldMissing(s.Profile.Phenotype) {
		caveats = append(caveats, caveatNoPheno)
	}

	drug := strings.ToUpper(strings.TrimSpace(s.Drug))
	if gene, ok := policy.Default.RequiredGene(drug); ok && geneMissing {
		caveats = append(caveats, incompleteCaveat(drug, gene))
	}

	return caveats
}

func detectBatch(b *report.BatchResult) []string {
	if len(b.Results) == 0 {
		return []string{caveatEmptyBatch}
	}

	var caveats []string

	missing := 0
	for _, res := range b.Results {
		if fieldMissing(res.Gene) || fieldMissing(res.Phenotype) {
			missing++
		}
	}
	if missing > 0 {
		caveats = append(caveats, fmt.Sprintf(
			"%d of %d drug results are missing gene or phenotype annotations.",
			missing, len(b.Results)))
	}

	// Per-drug required-gene check, in drug order for stable output.
	drugs := make([]string, 0, len(b.Results))
	for drug := range b.Results {
		drugs = append(drugs, drug)
	}
	sort.Strings(drugs)
	for _, drug := range drugs {
		gene, ok := policy.Default.RequiredGene(drug)
		if !ok {
			continue
		}
		if fieldMissing(b.Results[drug].Gene) {
			caveats = append(caveats, incompleteCaveat(strings.ToUpper(drug), gene))
		}
	}

	return caveats
}

func incompleteCaveat(drug, gene string) string {
	return fmt.Sprintf("Analysis incomplete for %s: no %s data was found in the uploaded VCF.", drug, gene)
}

// fieldMissing treats both blank and the literal "Unknown" as absent.
func fieldMissing(s string) bool {
	trimmed := strings.TrimSpace(s)
	return trimmed == "" || trimmed == "Unknown"
}
