package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pgxboard/internal/vcf"
)

// validateCmd runs the upload gate against a file without contacting the
// backend.
var validateCmd = &cobra.Command{
	Use:   "validate [file.vcf]",
	Short: "Check whether a VCF file would be accepted for upload",
	Long: `Runs the local upload gate against a file and reports the result.

The gate checks the .vcf extension, the 5 MB size limit, and the presence of
the ##fileformat and #CHROM headers plus at least one variant row in the
first portion of the file. It never sends anything over the network.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	logger.Debug("validating file", zap.String("path", path))

	size, err := vcf.CheckFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	fmt.Printf("✓ %s (%d bytes) is a valid VCF upload\n", path, size)
	return nil
}
