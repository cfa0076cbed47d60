package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// TestNoFlagConflicts verifies that all subcommands can be initialized
// without flag shorthand conflicts. This catches issues like multiple
// commands defining the same shorthand (e.g., -v for both --verbosity
// and --verbose).
func TestNoFlagConflicts(t *testing.T) {
	root := RootCmd()

	if root == nil {
		t.Fatal("RootCmd() returned nil")
	}

	subcommands := root.Commands()
	if len(subcommands) == 0 {
		t.Fatal("expected at least one subcommand")
	}

	for _, cmd := range subcommands {
		t.Run(cmd.Name(), func(t *testing.T) {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("flag conflict in %q command: %v", cmd.Name(), r)
				}
			}()

			// Trigger flag parsing; this merges persistent flags from
			// the parent with local flags and panics on conflicts
			_ = cmd.Flags()
			_ = cmd.InheritedFlags()
		})
	}
}

// TestGlobalVerbosityFlag verifies the global -v flag exists and is properly configured.
func TestGlobalVerbosityFlag(t *testing.T) {
	root := RootCmd()

	vFlag := root.PersistentFlags().Lookup("verbosity")
	if vFlag == nil {
		t.Fatal("expected persistent 'verbosity' flag on root command")
	}

	if vFlag.Shorthand != "v" {
		t.Errorf("expected verbosity flag shorthand to be 'v', got %q", vFlag.Shorthand)
	}
}

// TestSubcommandsExist verifies expected subcommands are registered.
func TestSubcommandsExist(t *testing.T) {
	root := RootCmd()

	expectedCmds := []string{"version", "sync", "check"}

	for _, name := range expectedCmds {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func findCommand(t *testing.T, name string) *cobra.Command {
	t.Helper()
	for _, c := range RootCmd().Commands() {
		if c.Name() == name {
			return c
		}
	}
	t.Fatalf("command %q not found", name)
	return nil
}

func TestSyncCmd_FlagDefaults(t *testing.T) {
	cmd := findCommand(t, "sync")

	tests := []struct {
		flagName    string
		wantDefault string
	}{
		{"go-sum", ""},
		{"deps", ""},
		{"dry-run", "false"},
		{"fail-on-missing", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.flagName, func(t *testing.T) {
			flag := cmd.Flags().Lookup(tt.flagName)
			if flag == nil {
				t.Fatalf("flag %q not found on sync command", tt.flagName)
			}
			if flag.DefValue != tt.wantDefault {
				t.Errorf("flag %q default = %q, want %q", tt.flagName, flag.DefValue, tt.wantDefault)
			}
			if flag.Shorthand != "" {
				t.Errorf("flag %q should not have a shorthand, got %q", tt.flagName, flag.Shorthand)
			}
		})
	}
}

func TestCheckCmd_FlagDefaults(t *testing.T) {
	cmd := findCommand(t, "check")

	for _, name := range []string{"go-sum", "deps"} {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			t.Fatalf("flag %q not found on check command", name)
		}
		if flag.DefValue != "" {
			t.Errorf("flag %q default = %q, want empty", name, flag.DefValue)
		}
	}
}

// TestRunSync_EndToEnd exercises the sync command against real files.
func TestRunSync_EndToEnd(t *testing.T) {
	tmpDir := t.TempDir()

	goSum := filepath.Join(tmpDir, "go.sum")
	deps := filepath.Join(tmpDir, "deps.bzl")

	sumContent := `example.com/foo v1.2.0 h1:abc=
example.com/foo v1.2.0/go.mod h1:mod=
`
	depsContent := `go_repository(
    name = "com_example_foo",
    importpath = "example.com/foo",
    sum = "h1:old=",
    version = "v1.2.0",
)
go_repository(
    name = "com_example_bar",
    importpath = "example.com/bar",
    sum = "h1:barsum=",
    version = "v2.0.0",
)
`
	if err := os.WriteFile(goSum, []byte(sumContent), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(deps, []byte(depsContent), 0o644); err != nil {
		t.Fatal(err)
	}

	syncFlags.goSum = goSum
	syncFlags.deps = deps
	syncFlags.dryRun = false
	syncFlags.failOnMissing = false
	t.Cleanup(func() {
		syncFlags.goSum = ""
		syncFlags.deps = ""
	})

	if err := runSync(syncCmd, nil); err != nil {
		t.Fatalf("runSync() error = %v", err)
	}

	data, err := os.ReadFile(deps)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)

	if !strings.Contains(got, `sum = "h1:abc=",`) {
		t.Errorf("foo sum not updated:\n%s", got)
	}
	// bar has no go.sum entry and must survive byte-for-byte
	if !strings.Contains(got, `sum = "h1:barsum=",`) {
		t.Errorf("bar record was modified:\n%s", got)
	}
}

// TestRunSync_FailOnMissing verifies the non-zero exit path for missing entries.
func TestRunSync_FailOnMissing(t *testing.T) {
	tmpDir := t.TempDir()

	goSum := filepath.Join(tmpDir, "go.sum")
	deps := filepath.Join(tmpDir, "deps.bzl")

	if err := os.WriteFile(goSum, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	depsContent := `go_repository(
    name = "com_example_bar",
    importpath = "example.com/bar",
    sum = "h1:barsum=",
    version = "v2.0.0",
)
`
	if err := os.WriteFile(deps, []byte(depsContent), 0o644); err != nil {
		t.Fatal(err)
	}

	syncFlags.goSum = goSum
	syncFlags.deps = deps
	syncFlags.dryRun = false
	syncFlags.failOnMissing = true
	t.Cleanup(func() {
		syncFlags.goSum = ""
		syncFlags.deps = ""
		syncFlags.failOnMissing = false
	})

	if err := runSync(syncCmd, nil); err == nil {
		t.Fatal("runSync() expected error with --fail-on-missing")
	}
}

// TestRunSync_MissingGoSum verifies I/O failures surface as errors.
func TestRunSync_MissingGoSum(t *testing.T) {
	tmpDir := t.TempDir()

	syncFlags.goSum = filepath.Join(tmpDir, "does-not-exist.sum")
	syncFlags.deps = filepath.Join(tmpDir, "deps.bzl")
	syncFlags.dryRun = false
	t.Cleanup(func() {
		syncFlags.goSum = ""
		syncFlags.deps = ""
	})

	if err := runSync(syncCmd, nil); err == nil {
		t.Fatal("runSync() expected error for missing go.sum")
	}
}
