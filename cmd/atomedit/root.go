package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"atomedit/internal/config"
	"atomedit/internal/engine"
	"atomedit/internal/engine/diff"
	"atomedit/internal/engine/structure"
	"atomedit/internal/logutil"
	"atomedit/internal/structio"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	configPath    string
	toleranceFlag float64
)

var rootCmd = &cobra.Command{
	Use:   "atomedit",
	Short: "Apply structure diffs to atomic structures",
	Long: `Atomedit layers sparse edit overlays (diffs) onto atomic structures.
Diff entries find their base atoms by position, so a diff recorded against
one version of a structure still applies after upstream edits; entries whose
targets are gone are skipped and reported instead of failing the merge.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"atomedit {{.Version}} (commit %s, built %s)\n", commit, date))
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to configuration file")
	rootCmd.PersistentFlags().Float64Var(&toleranceFlag, "tolerance", 0,
		"Matching tolerance in angstroms (overrides config)")
}

// setup loads configuration and builds the logger. The --tolerance flag
// wins over config and environment.
func setup() (config.Config, engine.Tolerance, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, 0, nil, err
	}
	logger := logutil.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	tolValue := cfg.Tolerance
	if toleranceFlag != 0 {
		tolValue = toleranceFlag
	}
	tol, err := engine.NewTolerance(tolValue)
	if err != nil {
		return cfg, 0, nil, fmt.Errorf("tolerance %v: %w", tolValue, err)
	}
	return cfg, tol, logger, nil
}

// loadBase reads an XYZ structure and optionally infers bonds.
func loadBase(path string, cfg config.Config) (*structure.Structure, error) {
	s, err := structio.LoadXYZ(path)
	if err != nil {
		return nil, err
	}
	if cfg.AutoBond.Enabled && s.NumBonds() == 0 {
		structio.AutoBond(s, cfg.AutoBond.Multiplier)
	}
	return s, nil
}

// loadDiffFile reads a TOML diff document. A missing diff path yields
// an empty diff so new documents can be bootstrapped.
func loadDiffFile(path string) (*diff.Diff, error) {
	d, err := structio.LoadDiff(path)
	if os.IsNotExist(err) {
		return diff.New(), nil
	}
	return d, err
}

// writeResult saves the merged structure wherever the flags point.
func writeResult(s *structure.Structure, outXYZ, outYAML, comment string) error {
	if outXYZ != "" {
		if err := structio.SaveXYZ(outXYZ, s, comment); err != nil {
			return err
		}
	}
	if outYAML != "" {
		if err := structio.SaveYAML(outYAML, s); err != nil {
			return err
		}
	}
	return nil
}

func printApply(res *engine.Result) {
	fmt.Printf("atoms: %d  bonds: %d\n", res.Structure.NumAtoms(), res.Structure.NumBonds())
	fmt.Printf("changes: +%d atoms, -%d atoms, ~%d atoms, +%d bonds, -%d bonds\n",
		res.Stats.AtomsAdded, res.Stats.AtomsDeleted, res.Stats.AtomsModified,
		res.Stats.BondsAdded, res.Stats.BondsDeleted)
	if !res.Diagnostics.IsZero() {
		fmt.Printf("stale references: %s\n", res.Diagnostics.String())
	}
}

// isDiffPath guesses the file kind from its extension.
func isDiffPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
