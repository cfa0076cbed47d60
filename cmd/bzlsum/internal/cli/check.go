package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/mod/module"

	"github.com/albertocavalcante/bzlsum/internal/depsbzl"
	"github.com/albertocavalcante/bzlsum/internal/log"
	"github.com/albertocavalcante/bzlsum/internal/sumfile"
	"github.com/albertocavalcante/bzlsum/pkg/config"
)

var checkFlags struct {
	goSum string
	deps  string
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that deps.bzl is in sync with go.sum",
	Long: `Verifies that every go_repository rule in deps.bzl carries the
checksum recorded in go.sum, without modifying anything.

Unlike sync, check parses deps.bzl as Starlark, so it sees rules in any
attribute order or formatting. It also warns about rules whose version
is not in canonical semver form.

Intended for CI: exits 1 if any rule is stale.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkFlags.goSum, "go-sum", "",
		"Path to go.sum (default from config, then \"go.sum\")")
	checkCmd.Flags().StringVar(&checkFlags.deps, "deps", "",
		"Path to deps.bzl (default from config, then \"deps.bzl\")")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	goSumPath, depsPath := resolvePaths(cfg, checkFlags.goSum, checkFlags.deps)

	sums, err := sumfile.ParseFile(goSumPath)
	if err != nil {
		return err
	}

	rules, err := depsbzl.Rules(depsPath)
	if err != nil {
		return err
	}
	log.Debug("parsed build file", "path", depsPath, "rules", len(rules))

	stale := 0
	for _, r := range rules {
		if r.ImportPath == "" || r.Version == "" {
			log.Warn("go_repository rule missing importpath or version", "name", r.Name)
			continue
		}

		if canonical := module.CanonicalVersion(r.Version); canonical != r.Version {
			log.Warn("non-canonical version in go_repository rule",
				"importpath", r.ImportPath, "version", r.Version)
		}

		want := sums.Sum(r.ImportPath, r.Version)
		if want == "" {
			log.Warn("no checksum found in go.sum",
				"key", sumfile.Key(r.ImportPath, r.Version))
			continue
		}
		if want != r.Sum {
			fmt.Fprintf(os.Stderr, "stale: %s %s: have %s, want %s\n",
				r.ImportPath, r.Version, r.Sum, want)
			stale++
		}
	}

	if stale > 0 {
		fmt.Fprintf(os.Stderr, "%s is stale (%d rule(s)); run 'bzlsum sync' to fix\n", depsPath, stale)
		os.Exit(1)
	}

	fmt.Printf("%s is in sync with %s (%d rule(s))\n", depsPath, goSumPath, len(rules))
	return nil
}
