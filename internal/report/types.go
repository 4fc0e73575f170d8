// Package report defines the analysis payloads returned by the backend and
// the pure derivations the dashboard displays. The backend is untrusted:
// every field is optional and consumers degrade to placeholders instead of
// failing when something is absent.
package report

import (
	"encoding/json"
	"fmt"
)

// RiskAssessment is the headline verdict for one drug.
type RiskAssessment struct {
	RiskLabel       string   `json:"risk_label,omitempty"`
	Severity        string   `json:"severity,omitempty"`
	ConfidenceScore *float64 `json:"confidence_score,omitempty"`
}

// Variant is one detected pharmacogenomic variant.
type Variant struct {
	RSID     string `json:"rsid,omitempty"`
	Gene     string `json:"gene,omitempty"`
	Allele   string `json:"allele,omitempty"`
	Function string `json:"function,omitempty"`
	Genotype string `json:"genotype,omitempty"`
}

// Profile is the pharmacogenomic profile inferred from the uploaded VCF.
type Profile struct {
	PrimaryGene      string    `json:"primary_gene,omitempty"`
	Phenotype        string    `json:"phenotype,omitempty"`
	Diplotype        string    `json:"diplotype,omitempty"`
	DetectedVariants []Variant `json:"detected_variants,omitempty"`
}

// Recommendation is the guideline-backed clinical action.
type Recommendation struct {
	Action          string `json:"action,omitempty"`
	GuidelineSource string `json:"guideline_source,omitempty"`
}

// Explanation is the LLM-generated narrative for one drug.
type Explanation struct {
	Summary        string   `json:"summary,omitempty"`
	Mechanism      string   `json:"mechanism,omitempty"`
	Recommendation string   `json:"recommendation,omitempty"`
	Citations      []string `json:"citations,omitempty"`
}

// QualityMetrics reports how well the backend could use the uploaded file.
// VCFParsingSuccess is a pointer so an explicit false can be told apart from
// an absent field.
type QualityMetrics struct {
	TotalVariants     *int  `json:"total_variants,omitempty"`
	PGxVariants       *int  `json:"pgx_variants,omitempty"`
	VCFParsingSuccess *bool `json:"vcf_parsing_success,omitempty"`
}

// SingleResult is the response shape of the single-drug endpoint.
type SingleResult struct {
	PatientID      string          `json:"patient_id,omitempty"`
	Drug           string          `json:"drug,omitempty"`
	Timestamp      string          `json:"timestamp,omitempty"`
	RiskAssessment *RiskAssessment `json:"risk_assessment,omitempty"`
	Profile        *Profile        `json:"pharmacogenomic_profile,omitempty"`
	Recommendation *Recommendation `json:"clinical_recommendation,omitempty"`
	Explanation    *Explanation    `json:"llm_generated_explanation,omitempty"`
	QualityMetrics *QualityMetrics `json:"quality_metrics,omitempty"`
}

// DrugResult is the flattened per-drug record inside a batch response.
type DrugResult struct {
	RiskLabel       string   `json:"risk_label,omitempty"`
	Severity        string   `json:"severity,omitempty"`
	ConfidenceScore *float64 `json:"confidence_score,omitempty"`
	Gene            string   `json:"gene,omitempty"`
	Phenotype       string   `json:"phenotype,omitempty"`
	Diplotype       string   `json:"diplotype,omitempty"`
	Recommendation  string   `json:"recommendation,omitempty"`
}

// PolypharmacyWarning is a caution about interactions between analyzed drugs.
type PolypharmacyWarning struct {
	Warning      string `json:"warning,omitempty"`
	ClinicalNote string `json:"clinical_note,omitempty"`
}

// BatchResult is the response shape of the batch endpoint.
type BatchResult struct {
	PatientID    string                 `json:"patient_id,omitempty"`
	Timestamp    string                 `json:"timestamp,omitempty"`
	Drugs        []string               `json:"drugs,omitempty"`
	Warnings     []PolypharmacyWarning  `json:"polypharmacy_warnings,omitempty"`
	Explanations map[string]Explanation `json:"llm_generated_explanations,omitempty"`
	Results      map[string]DrugResult  `json:"results,omitempty"`
}

// Report holds the current analysis outcome. At most one of Single/Batch is
// non-nil; starting or failing a new analysis resets both.
type Report struct {
	Single *SingleResult
	Batch  *BatchResult
}

// Empty reports whether no result is populated.
func (r Report) Empty() bool { return r.Single == nil && r.Batch == nil }

// PatientID returns the patient identifier of whichever result is populated.
func (r Report) PatientID() string {
	switch {
	case r.Single != nil:
		return r.Single.PatientID
	case r.Batch != nil:
		return r.Batch.PatientID
	}
	return ""
}

// RawJSON renders the populated result as pretty-printed JSON, suitable for
// the raw viewer, the clipboard and report downloads.
func (r Report) RawJSON() (string, error) {
	var v any
	switch {
	case r.Single != nil:
		v = r.Single
	case r.Batch != nil:
		v = r.Batch
	default:
		return "", fmt.Errorf("no result to render")
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render report JSON: %w", err)
	}
	return string(data), nil
}
