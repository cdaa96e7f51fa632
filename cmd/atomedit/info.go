package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"atomedit/internal/engine/diff"
	"atomedit/internal/engine/structure"
	"atomedit/internal/structio"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Summarize a structure or diff document",
	Long: `Info prints a summary of the given file: atom and bond counts for XYZ
structures, per-kind entry counts for TOML diff documents.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	if isDiffPath(args[0]) {
		d, err := structio.LoadDiff(args[0])
		if err != nil {
			return err
		}
		printDiffInfo(d)
		return nil
	}

	cfg, _, _, err := setup()
	if err != nil {
		return err
	}
	s, err := loadBase(args[0], cfg)
	if err != nil {
		return err
	}
	fmt.Println(s.DetailString())
	return nil
}

func printDiffInfo(d *diff.Diff) {
	counts := make(map[diff.Kind]int)
	d.EachEntry(func(e diff.Entry) bool {
		counts[e.Kind]++
		return true
	})
	deletedBonds := 0
	d.EachBond(func(key structure.BondKey, order structure.BondOrder) bool {
		if order == structure.OrderDeleted {
			deletedBonds++
		}
		return true
	})

	fmt.Printf("entries: %d\n", d.NumEntries())
	for _, kind := range []diff.Kind{
		diff.KindAddition, diff.KindDelete, diff.KindReplacement, diff.KindMove,
	} {
		if counts[kind] > 0 {
			fmt.Printf("  %s: %d\n", kind, counts[kind])
		}
	}
	fmt.Printf("bonds: %d (%d marked deleted)\n", d.NumBonds(), deletedBonds)
}
