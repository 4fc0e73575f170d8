package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pgxboard/internal/analyze"
	"pgxboard/internal/export"
	"pgxboard/internal/gaps"
	"pgxboard/internal/vcf"
)

var (
	analyzeDrugs string
	analyzeOut   string
)

// analyzeCmd runs one analysis headlessly and prints the report JSON.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [file.vcf]",
	Short: "Submit a VCF file for analysis and print the report JSON",
	Long: `Validates the file locally, submits it to the analysis backend and
prints the resulting report as pretty-printed JSON.

One drug routes to the single-drug endpoint; two or more route to the batch
endpoint. Annotation-gap caveats are printed to stderr so stdout stays
machine-readable.

Example:
  pgxboard analyze patient.vcf --drugs CODEINE
  pgxboard analyze patient.vcf --drugs "CODEINE, WARFARIN" --out report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeDrugs, "drugs", "", "Comma-separated drug names (required)")
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", "", "Write the report JSON to this file instead of stdout")
	analyzeCmd.MarkFlagRequired("drugs")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]

	drugs, err := analyze.ParseDrugs(analyzeDrugs)
	if err != nil {
		return err
	}

	size, err := vcf.CheckFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, vcf.ErrUnreadable)
	}

	logger.Info("submitting analysis",
		zap.String("file", path),
		zap.Int64("size", size),
		zap.Strings("drugs", drugs))

	client := analyze.NewClient(logger)
	up := analyze.Upload{Name: filepath.Base(path), Data: data}
	rep, err := client.Run(context.Background(), up, drugs)
	if err != nil {
		return err
	}

	raw, err := rep.RawJSON()
	if err != nil {
		return err
	}

	for _, caveat := range gaps.Detect(rep) {
		fmt.Fprintln(os.Stderr, "warning: "+caveat)
	}

	if analyzeOut != "" {
		// "--out dir/" derives the file name from the patient identifier;
		// anything else is taken as the exact target path.
		if info, err := os.Stat(analyzeOut); err == nil && info.IsDir() {
			written, err := export.WriteReport(analyzeOut, rep.PatientID(), raw)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "report written to %s\n", written)
			return nil
		}
		if err := os.WriteFile(analyzeOut, []byte(raw+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "report written to %s\n", analyzeOut)
		return nil
	}

	fmt.Println(raw)
	return nil
}
