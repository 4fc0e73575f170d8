package report

import (
	"math"
	"sort"
	"strings"

	"pgxboard/internal/policy"
)

// Tone buckets a risk label for card coloring and summary counts.
type Tone string

const (
	ToneSafe    Tone = "safe"
	ToneAdjust  Tone = "adjust"
	ToneToxic   Tone = "toxic"
	ToneUnknown Tone = "unknown"
)

// ToneFor classifies a risk label by case-insensitive substring matching
// against the policy tone rules.
func ToneFor(label string) Tone {
	switch policy.Default.ToneFor(label) {
	case "safe":
		return ToneSafe
	case "adjust":
		return ToneAdjust
	case "toxic":
		return ToneToxic
	}
	return ToneUnknown
}

// ConfidencePercent converts a raw confidence score to a display percentage,
// clamped to [0,100]. The second return is false when the score is absent.
func ConfidencePercent(score *float64) (int, bool) {
	if score == nil {
		return 0, false
	}
	pct := int(math.Round(*score * 100))
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct, true
}

// OrUnknown substitutes the "Unknown" placeholder for blank fields.
func OrUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}

// Card is the display projection of one drug's verdict, shared by the single
// and batch shapes.
type Card struct {
	Drug           string
	RiskLabel      string
	Severity       string
	ConfidencePct  int
	HasConfidence  bool
	Tone           Tone
	Gene           string
	Phenotype      string
	Diplotype      string
	Recommendation string
}

// Cards derives the risk cards for the populated result. Batch cards are
// ordered by drug name so rendering is deterministic.
func Cards(r Report) []Card {
	switch {
	case r.Single != nil:
		return []Card{singleCard(r.Single)}
	case r.Batch != nil:
		return batchCards(r.Batch)
	}
	return nil
}

func singleCard(s *SingleResult) Card {
	c := Card{Drug: OrUnknown(s.Drug)}
	if ra := s.RiskAssessment; ra != nil {
		c.RiskLabel = ra.RiskLabel
		c.Severity = ra.Severity
		c.ConfidencePct, c.HasConfidence = ConfidencePercent(ra.ConfidenceScore)
	}
	c.Tone = ToneFor(c.RiskLabel)
	if p := s.Profile; p != nil {
		c.Gene = p.PrimaryGene
		c.Phenotype = p.Phenotype
		c.Diplotype = p.Diplotype
	}
	if rec := s.Recommendation; rec != nil {
		c.Recommendation = rec.Action
	}
	return c
}

func batchCards(b *BatchResult) []Card {
	drugs := make([]string, 0, len(b.Results))
	for drug := range b.Results {
		drugs = append(drugs, drug)
	}
	sort.Strings(drugs)

	cards := make([]Card, 0, len(drugs))
	for _, drug := range drugs {
		res := b.Results[drug]
		c := Card{
			Drug:           drug,
			RiskLabel:      res.RiskLabel,
			Severity:       res.Severity,
			Tone:           ToneFor(res.RiskLabel),
			Gene:           res.Gene,
			Phenotype:      res.Phenotype,
			Diplotype:      res.Diplotype,
			Recommendation: res.Recommendation,
		}
		c.ConfidencePct, c.HasConfidence = ConfidencePercent(res.ConfidenceScore)
		cards = append(cards, c)
	}
	return cards
}

// ToneCounts are the safe/adjust/toxic/unknown summary totals.
type ToneCounts struct {
	Safe    int
	Adjust  int
	Toxic   int
	Unknown int
}

// CountTones tallies card tones for the summary line.
func CountTones(cards []Card) ToneCounts {
	var tc ToneCounts
	for _, c := range cards {
		switch c.Tone {
		case ToneSafe:
			tc.Safe++
		case ToneAdjust:
			tc.Adjust++
		case ToneToxic:
			tc.Toxic++
		default:
			tc.Unknown++
		}
	}
	return tc
}

// DetectedGenes returns the sorted set of genes named anywhere in the result.
func DetectedGenes(r Report) []string {
	seen := make(map[string]struct{})
	add := func(gene string) {
		gene = strings.TrimSpace(gene)
		if gene == "" || gene == "Unknown" {
			return
		}
		seen[gene] = struct{}{}
	}

	switch {
	case r.Single != nil:
		if p := r.Single.Profile; p != nil {
			add(p.PrimaryGene)
			for _, v := range p.DetectedVariants {
				add(v.Gene)
			}
		}
	case r.Batch != nil:
		for _, res := range r.Batch.Results {
			add(res.Gene)
		}
	}

	genes := make([]string, 0, len(seen))
	for gene := range seen {
		genes = append(genes, gene)
	}
	sort.Strings(genes)
	return genes
}
