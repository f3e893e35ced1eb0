package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"waldo/internal/diag"
	"waldo/internal/diagfmt"
	"waldo/internal/driver"
	"waldo/internal/observ"
	"waldo/internal/project"
	"waldo/internal/universe"
)

const noManifestMessage = "no waldo.toml found\nplease specify the universe and documents explicitly, e.g.:\n  waldo check --wit resolve.json compose/"

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file.wld|directory]",
	Short: "Resolve composition documents against a WIT universe",
	Long: `Check parses every document and resolves its imports and instantiations
against the WIT universe. Without arguments the documents and universe come
from waldo.toml. Exits with status 1 if any document has an error.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	addCheckFlags(checkCmd)
}

func addCheckFlags(cmd *cobra.Command) {
	cmd.Flags().String("wit", "", "resolved WIT universe as JSON (wasm-tools component wit --json)")
	cmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	cmd.Flags().Bool("cache", false, "reuse results from the on-disk cache")
	cmd.Flags().String("cache-dir", "", "cache directory (default $XDG_CACHE_HOME/waldo)")
	cmd.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
	cmd.Flags().String("format", "pretty", "diagnostics format (pretty|short|json)")
	cmd.Flags().Bool("show", false, "print resolved documents")
}

type checkConfig struct {
	target   string
	witPath  string
	jobs     int
	cache    bool
	cacheDir string
	ui       uiMode
	format   string
	show     bool
	quiet    bool
	timings  bool
	maxDiags int
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := readCheckConfig(cmd, args)
	if err != nil {
		return err
	}

	u, err := universe.LoadJSON(cfg.witPath)
	if err != nil {
		return err
	}

	opts := driver.CheckOptions{Jobs: cfg.jobs}
	if cfg.cache {
		if cfg.cacheDir != "" {
			opts.Cache, err = driver.OpenDiskCacheAt(cfg.cacheDir)
		} else {
			opts.Cache, err = driver.OpenDiskCache("waldo")
		}
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
	}

	st, err := os.Stat(cfg.target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	var results []*driver.CheckResult
	if st.IsDir() {
		files, listErr := driver.ListDocuments(cfg.target)
		if listErr != nil {
			return fmt.Errorf("failed to list documents: %w", listErr)
		}
		if shouldUseTUI(cfg.ui) && !cfg.quiet && len(files) > 0 {
			results, err = runCheckWithUI(cmd.Context(), "checking "+cfg.target, u, cfg.target, files, opts)
		} else {
			results, err = driver.CheckFiles(cmd.Context(), u, cfg.target, files, opts)
		}
	} else {
		var res *driver.CheckResult
		res, err = driver.Check(cmd.Context(), u, cfg.target, opts)
		results = []*driver.CheckResult{res}
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	if err := reportResults(out, errOut, results, cfg, useColor(cmd, os.Stderr)); err != nil {
		return err
	}
	if cfg.show && cfg.format != "json" {
		if err := showDocuments(out, results, u); err != nil {
			return err
		}
	}

	failed, cached := driver.Summary(results)
	if cfg.timings {
		reports := make([]observ.Report, 0, len(results))
		for _, r := range results {
			reports = append(reports, r.Timing)
		}
		fmt.Fprint(errOut, observ.Sum(reports...).Summary())
	}
	if !cfg.quiet && cfg.format != "json" {
		fmt.Fprintf(errOut, "checked %d document(s): %d failed, %d cached\n", len(results), failed, cached)
	}
	if failed > 0 {
		return errCheckFailed
	}
	return nil
}

// readCheckConfig merges flags with waldo.toml. Flags win; the manifest
// is only required for what the flags leave out.
func readCheckConfig(cmd *cobra.Command, args []string) (checkConfig, error) {
	var cfg checkConfig
	flags := cmd.Flags()
	var err error
	if cfg.witPath, err = flags.GetString("wit"); err != nil {
		return cfg, fmt.Errorf("failed to get wit flag: %w", err)
	}
	if cfg.jobs, err = flags.GetInt("jobs"); err != nil {
		return cfg, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if cfg.cache, err = flags.GetBool("cache"); err != nil {
		return cfg, fmt.Errorf("failed to get cache flag: %w", err)
	}
	if cfg.cacheDir, err = flags.GetString("cache-dir"); err != nil {
		return cfg, fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	uiFlag, err := flags.GetString("ui")
	if err != nil {
		return cfg, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if cfg.ui, err = readUIMode(uiFlag); err != nil {
		return cfg, err
	}
	if cfg.format, err = flags.GetString("format"); err != nil {
		return cfg, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch cfg.format {
	case "pretty", "short", "json":
	default:
		return cfg, fmt.Errorf("unknown format: %s", cfg.format)
	}
	if cfg.show, err = flags.GetBool("show"); err != nil {
		return cfg, fmt.Errorf("failed to get show flag: %w", err)
	}
	root := cmd.Root().PersistentFlags()
	if cfg.quiet, err = root.GetBool("quiet"); err != nil {
		return cfg, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if cfg.timings, err = root.GetBool("timings"); err != nil {
		return cfg, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if cfg.maxDiags, err = root.GetInt("max-diagnostics"); err != nil {
		return cfg, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if len(args) == 1 {
		cfg.target = args[0]
	}

	if cfg.target != "" && cfg.witPath != "" {
		return cfg, nil
	}
	start := "."
	if cfg.target != "" {
		start = cfg.target
		if st, statErr := os.Stat(start); statErr == nil && !st.IsDir() {
			start = filepath.Dir(start)
		}
	}
	manifest, ok, err := project.LoadManifest(start)
	if err != nil {
		return cfg, err
	}
	if !ok {
		return cfg, errors.New(noManifestMessage)
	}
	if cfg.target == "" {
		cfg.target = manifest.CheckRoot()
	}
	if cfg.witPath == "" {
		cfg.witPath = manifest.WitPath()
	}
	if !flags.Changed("jobs") {
		cfg.jobs = manifest.Config.Check.Jobs
	}
	if !flags.Changed("cache") {
		cfg.cache = manifest.CacheEnabled()
	}
	return cfg, nil
}

// checkJSON is the stdout payload of --format json. Documents is filled
// only with --show.
type checkJSON struct {
	diagfmt.DiagnosticsOutput
	Documents map[string]diagfmt.DocumentJSON `json:"documents,omitempty"`
}

// reportResults renders every failed document. Pipeline errors go
// through diagfmt; I/O errors are printed as is.
func reportResults(out, errOut io.Writer, results []*driver.CheckResult, cfg checkConfig, color bool) error {
	combined := checkJSON{DiagnosticsOutput: diagfmt.DiagnosticsOutput{Diagnostics: []diagfmt.DiagnosticJSON{}}}
	shown := 0
	for _, r := range results {
		if !r.Failed() {
			continue
		}
		var e *diag.Error
		if !errors.As(r.Err, &e) || r.FileSet == nil {
			fmt.Fprintf(errOut, "%s: %v\n", r.Path, r.Err)
			continue
		}
		if cfg.maxDiags > 0 && shown >= cfg.maxDiags {
			continue
		}
		shown++
		bag := diag.NewBag(1)
		bag.Add(e.Diagnostic())
		switch cfg.format {
		case "short":
			diagfmt.Short(errOut, bag, r.FileSet, true)
		case "json":
			part := diagfmt.BuildDiagnosticsOutput(bag, r.FileSet, diagfmt.JSONOpts{
				IncludePositions: true,
				PathMode:         diagfmt.PathModeRelative,
				IncludeNotes:     true,
			})
			combined.Diagnostics = append(combined.Diagnostics, part.Diagnostics...)
		default:
			diagfmt.Pretty(errOut, bag, r.FileSet, diagfmt.PrettyOpts{
				Color:     color,
				Context:   2,
				PathMode:  diagfmt.PathModeRelative,
				ShowNotes: true,
			})
		}
	}
	if cfg.format != "json" {
		return nil
	}
	combined.Count = len(combined.Diagnostics)
	if cfg.show {
		combined.Documents = make(map[string]diagfmt.DocumentJSON)
		for _, r := range results {
			if r.Document != nil {
				combined.Documents[displayPath(r)] = diagfmt.BuildDocumentJSON(r.Document)
			}
		}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(combined)
}

func showDocuments(out io.Writer, results []*driver.CheckResult, u universe.Universe) error {
	for _, r := range results {
		if r.Document == nil {
			continue
		}
		if len(results) > 1 {
			if _, err := fmt.Fprintf(out, "== %s ==\n", displayPath(r)); err != nil {
				return err
			}
		}
		if err := diagfmt.FormatDocument(out, r.Document, u); err != nil {
			return err
		}
	}
	return nil
}

// displayPath is the result's path relative to the checked directory.
func displayPath(r *driver.CheckResult) string {
	if r.FileSet == nil {
		return r.Path
	}
	if id, ok := r.FileSet.GetLatest(r.Path); ok {
		return r.FileSet.Get(id).FormatPath("relative", r.FileSet.BaseDir())
	}
	return r.Path
}
