package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"atomedit/internal/engine"
)

var (
	applyOutXYZ  string
	applyOutYAML string
)

var applyCmd = &cobra.Command{
	Use:   "apply <base.xyz> <diff.toml>",
	Short: "Apply a diff document to a base structure",
	Long: `Apply reads a base structure (XYZ) and a diff document (TOML), merges
them, and reports what changed. Entries referencing atoms the base no
longer has are skipped and listed as stale references.`,
	Args: cobra.ExactArgs(2),
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringVarP(&applyOutXYZ, "out", "o", "",
		"Write the merged structure as XYZ")
	applyCmd.Flags().StringVar(&applyOutYAML, "yaml", "",
		"Write the merged structure as a YAML dump")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg, tol, logger, err := setup()
	if err != nil {
		return err
	}

	base, err := loadBase(args[0], cfg)
	if err != nil {
		return err
	}
	d, err := loadDiffFile(args[1])
	if err != nil {
		return err
	}

	res, err := engine.ApplyDiff(base, d, tol)
	if err != nil {
		return err
	}
	if !res.Diagnostics.IsZero() {
		logger.Warn("diff has stale references",
			"diff", args[1], "diagnostics", res.Diagnostics.String())
	}

	printApply(res)
	comment := fmt.Sprintf("atomedit apply %s + %s", args[0], args[1])
	return writeResult(res.Structure, applyOutXYZ, applyOutYAML, comment)
}
