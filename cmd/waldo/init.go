package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"waldo/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new waldo project",
	Long: `Initialize a new waldo project by creating a manifest (waldo.toml) and a
sample document (compose/main.wld). If [path|name] is omitted, initializes
the current directory. A non-existing directory is created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

// runInit writes waldo.toml and compose/main.wld into the target
// directory. It refuses to overwrite an existing manifest.
func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "waldo-project"
	}

	manifestPath := filepath.Join(target, project.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}
	if err := os.WriteFile(manifestPath, []byte(buildDefaultManifest(name)), 0o600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	mainPath := filepath.Join(target, "compose", "main.wld")
	createdMain := false
	if _, err := os.Stat(mainPath); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(mainPath), 0o755); err != nil {
			return fmt.Errorf("failed to create compose directory: %w", err)
		}
		if err := os.WriteFile(mainPath, []byte(defaultDocument()), 0o600); err != nil {
			return fmt.Errorf("failed to write main.wld: %w", err)
		}
		createdMain = true
	}

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if quiet {
		return nil
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized waldo project in %s\n", target)
	fmt.Fprintf(out, "  - %s\n", project.ManifestName)
	if createdMain {
		fmt.Fprintln(out, "  - compose/main.wld")
	} else {
		fmt.Fprintln(out, "  - compose/main.wld (existing)")
	}
	return nil
}

func buildDefaultManifest(name string) string {
	return fmt.Sprintf(`# waldo project manifest
[package]
name = %q

[universe]
# wasm-tools component wit --json wit/ > wit/resolve.json
wit = "wit/resolve.json"

[check]
root = "compose"
jobs = 0
cache = true
`, name)
}

func defaultDocument() string {
	return `// Wire a component to a host interface.
import app: component;
import log: interface(wasi:logging/logging@0.1.0);

let main = instantiate(app, logging: log);
`
}
