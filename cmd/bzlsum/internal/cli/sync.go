package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/albertocavalcante/bzlsum/internal/depsbzl"
	"github.com/albertocavalcante/bzlsum/internal/log"
	"github.com/albertocavalcante/bzlsum/internal/sumfile"
	"github.com/albertocavalcante/bzlsum/pkg/config"
)

var syncFlags struct {
	goSum         string
	deps          string
	dryRun        bool
	failOnMissing bool
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Rewrite deps.bzl checksums from go.sum",
	Long: `Reads go.sum and rewrites the sum attribute of every go_repository
rule in deps.bzl whose importpath and version have a matching entry.

Rules without a matching go.sum entry are left untouched and reported
as warnings. Everything outside the sum attributes is preserved
byte-for-byte.

Use --dry-run to preview substitutions without writing.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncFlags.goSum, "go-sum", "",
		"Path to go.sum (default from config, then \"go.sum\")")
	syncCmd.Flags().StringVar(&syncFlags.deps, "deps", "",
		"Path to deps.bzl (default from config, then \"deps.bzl\")")
	syncCmd.Flags().BoolVar(&syncFlags.dryRun, "dry-run", false,
		"Show what would change without writing")
	syncCmd.Flags().BoolVar(&syncFlags.failOnMissing, "fail-on-missing", false,
		"Exit 1 if any rule has no go.sum entry")

	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	goSumPath, depsPath := resolvePaths(cfg, syncFlags.goSum, syncFlags.deps)
	failOnMissing := cfg.FailOnMissing() || syncFlags.failOnMissing

	sums, err := sumfile.ParseFile(goSumPath)
	if err != nil {
		return err
	}
	log.Debug("parsed checksum manifest", "path", goSumPath, "entries", len(sums))

	var report depsbzl.Report
	if syncFlags.dryRun {
		report, err = dryRunUpdate(depsPath, sums)
	} else {
		report, err = depsbzl.UpdateFile(depsPath, sums)
	}
	if err != nil {
		return err
	}

	printSyncReport(depsPath, report)

	if failOnMissing && len(report.Missing) > 0 {
		return fmt.Errorf("%d rule(s) in %s have no go.sum entry", len(report.Missing), depsPath)
	}
	return nil
}

// dryRunUpdate runs the substitution pass without touching the file.
func dryRunUpdate(depsPath string, sums sumfile.Index) (depsbzl.Report, error) {
	data, err := os.ReadFile(depsPath)
	if err != nil {
		return depsbzl.Report{}, fmt.Errorf("failed to read %s: %w", depsPath, err)
	}
	_, report := depsbzl.Update(string(data), sums)
	return report, nil
}

// printSyncReport prints one line per visited rule plus a summary,
// in document order for the updated rules.
func printSyncReport(depsPath string, report depsbzl.Report) {
	for _, c := range report.Updated {
		fmt.Printf("Updating %s %s: %s -> %s\n", c.ImportPath, c.Version, c.OldSum, c.NewSum)
	}
	for _, c := range report.Unchanged {
		log.V(2).Info("checksum already in sync",
			"importpath", c.ImportPath, "version", c.Version, "sum", c.OldSum)
	}
	for _, c := range report.Missing {
		log.Warn("no checksum found in go.sum", "key", c.Key())
	}

	switch {
	case syncFlags.dryRun && len(report.Updated) > 0:
		fmt.Printf("%s needs updating (%d of %d rule(s) stale)\n",
			depsPath, len(report.Updated), report.Total())
	case syncFlags.dryRun:
		fmt.Printf("%s is up to date\n", depsPath)
	case report.Rewritten:
		fmt.Printf("%s updated (%d updated, %d unchanged, %d missing)\n",
			depsPath, len(report.Updated), len(report.Unchanged), len(report.Missing))
	default:
		fmt.Printf("%s is up to date\n", depsPath)
	}
}

// resolvePaths applies flag overrides on top of configured paths.
func resolvePaths(cfg *config.Config, goSumFlag, depsFlag string) (string, string) {
	goSum := cfg.Paths.GoSum
	if goSumFlag != "" {
		goSum = goSumFlag
	}
	deps := cfg.Paths.DepsBzl
	if depsFlag != "" {
		deps = depsFlag
	}
	return goSum, deps
}
