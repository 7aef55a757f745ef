package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/polkiloo/quickmart/internal/domain/model"
	"github.com/polkiloo/quickmart/internal/logger"
	"github.com/polkiloo/quickmart/internal/report"
	"github.com/polkiloo/quickmart/internal/storage/postgres"
	"github.com/polkiloo/quickmart/internal/usecase"
)

const dateLayout = "2006-01-02"

// exporter writes one CSV report.
type exporter interface {
	Export(ctx context.Context, kind string, filter model.OrderFilter, w io.Writer) error
}

// openExporter connects to the database; the returned func releases it.
var openExporter = func(ctx context.Context, dsn string, log *slog.Logger) (exporter, func(), error) {
	storage, err := postgres.New(ctx, dsn, log)
	if err != nil {
		return nil, nil, err
	}
	reports := usecase.NewReportUseCase(storage.Users(), storage.Products(), storage.Orders(), log)
	return reports, storage.Close, nil
}

type options struct {
	dsn    string
	from   string
	to     string
	status string
	output string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(os.LookupEnv).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand(lookup func(string) (string, bool)) *cobra.Command {
	opts := &options{}
	if dsn, ok := lookup("DATABASE_URI"); ok {
		opts.dsn = dsn
	}

	kinds := make([]string, 0, len(report.Kinds))
	for _, k := range report.Kinds {
		kinds = append(kinds, string(k))
	}

	cmd := &cobra.Command{
		Use:           "quickmart-report [kind]",
		Short:         "export storefront data as CSV",
		Long:          "Export one of: " + strings.Join(kinds, ", "),
		Args:          cobra.ExactArgs(1),
		ValidArgs:     kinds,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.dsn, "database", "d", opts.dsn, "PostgreSQL DSN (defaults to DATABASE_URI)")
	flags.StringVar(&opts.from, "from", "", "include orders created on or after this date (YYYY-MM-DD)")
	flags.StringVar(&opts.to, "to", "", "include orders created before this date (YYYY-MM-DD)")
	flags.StringVar(&opts.status, "status", "", "include only orders in this status")
	flags.StringVarP(&opts.output, "output", "o", "", "write CSV to file instead of stdout")
	return cmd
}

func runExport(ctx context.Context, stdout io.Writer, kind string, opts *options) error {
	if _, err := report.ParseKind(kind); err != nil {
		return err
	}
	filter, err := buildFilter(opts)
	if err != nil {
		return err
	}
	if opts.dsn == "" {
		return fmt.Errorf("database DSN must be provided via --database or DATABASE_URI")
	}

	log := logger.NewWithWriter(os.Stderr, slog.LevelWarn)
	reports, closeFn, err := openExporter(ctx, opts.dsn, log)
	if err != nil {
		return err
	}
	defer closeFn()

	out := stdout
	if opts.output != "" {
		file, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer file.Close()
		out = file
	}

	if err := reports.Export(ctx, kind, filter, out); err != nil {
		return fmt.Errorf("export %s: %w", kind, err)
	}
	return nil
}

func buildFilter(opts *options) (model.OrderFilter, error) {
	var filter model.OrderFilter
	if opts.status != "" {
		status, err := model.ParseOrderStatus(opts.status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}
	if opts.from != "" {
		from, err := time.Parse(dateLayout, opts.from)
		if err != nil {
			return filter, fmt.Errorf("invalid --from: %w", err)
		}
		filter.From = &from
	}
	if opts.to != "" {
		to, err := time.Parse(dateLayout, opts.to)
		if err != nil {
			return filter, fmt.Errorf("invalid --to: %w", err)
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return filter, fmt.Errorf("--from must be before --to")
	}
	return filter, nil
}
