package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/customerdata/internal/domain"
	logpkg "github.com/kailas-cloud/customerdata/internal/logger"
	loaduc "github.com/kailas-cloud/customerdata/internal/usecase/load"
)

var importFlags struct {
	file      string
	namespace string
	reset     bool
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the XML dataset into Redis",
	Long: `Parses the configured XML dataset and stores its customers, orders,
products and order/product links, then fills each order's customer reference.

The whole document is parsed before anything is written. Flags override the
import section of the configuration file.`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importFlags.file, "file", "f", "", "dataset file (default: import.file)")
	importCmd.Flags().StringVar(&importFlags.namespace, "namespace", "", "XML namespace to match (default: import.namespace)")
	importCmd.Flags().BoolVar(&importFlags.reset, "reset", false, "drop existing records first (default: import.reset)")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context(), "import")
	if err != nil {
		return err
	}
	defer a.close()

	opts := loaduc.Options{Namespace: a.cfg.Import.Namespace, Reset: a.cfg.Import.Reset}
	file := a.cfg.Import.File
	if cmd.Flags().Changed("file") {
		file = importFlags.file
	}
	if cmd.Flags().Changed("namespace") {
		opts.Namespace = importFlags.namespace
	}
	if cmd.Flags().Changed("reset") {
		opts.Reset = importFlags.reset
	}
	if file == "" {
		return fmt.Errorf("no dataset file: set import.file or pass --file")
	}

	f, err := os.Open(filepath.Clean(file))
	if err != nil {
		return fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	svc := loaduc.New(loaduc.Repos{
		Customers:     a.customers,
		Orders:        a.orders,
		Products:      a.products,
		OrderProducts: a.orderProducts,
	}, a.status, opts)

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(a.cfg.Import.TimeoutSec)*time.Second)
	defer cancel()
	ctx = logpkg.ContextWithLogger(ctx, a.logger)

	st, err := svc.Load(ctx, f, file)
	if err != nil {
		return fmt.Errorf("import %s: %w", file, err)
	}

	printReport(cmd.OutOrStdout(), st)
	return nil
}

// printReport writes a human-readable summary of an import run.
func printReport(w io.Writer, st domain.ImportStatus) {
	_, _ = fmt.Fprintf(w, "Imported %s (run %s) in %s\n", st.Source, st.RunID, st.Duration().Round(time.Millisecond))

	kinds := make([]string, 0, len(st.Entities))
	for k := range st.Entities {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		_, _ = fmt.Fprintf(w, "  %-14s %d\n", k, st.Entities[k])
	}
	_, _ = fmt.Fprintf(w, "  %-14s %d\n", "relations", st.Relations)
	_, _ = fmt.Fprintf(w, "  %-14s %d\n", "back-refs", st.BackRefs)

	if len(st.Unmapped) > 0 {
		_, _ = fmt.Fprintln(w, "Unmapped fields:")
		for _, u := range st.Unmapped {
			_, _ = fmt.Fprintf(w, "  %s.%s\n", u.Shape, u.Field)
		}
	}
}
