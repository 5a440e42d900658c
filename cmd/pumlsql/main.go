package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/tordrt/pumlsql"
	"github.com/tordrt/pumlsql/internal/config"
	"github.com/tordrt/pumlsql/internal/diagram"
	"github.com/tordrt/pumlsql/internal/formatter"
	"github.com/tordrt/pumlsql/internal/logging"
	"github.com/tordrt/pumlsql/internal/output"
	"github.com/tordrt/pumlsql/internal/schema"
	"github.com/tordrt/pumlsql/internal/watch"
)

// cliFlags holds the flags that are not managed by the config package
type cliFlags struct {
	configFile string
	dbURL      string
	mysqlURL   string
	sqlitePath string
	apply      bool
	watch      bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &cliFlags{}

	cmd := &cobra.Command{
		Use:   "pumlsql [diagram-file]",
		Short: "Translate PlantUML class diagrams into SQL",
		Long: `pumlsql reads a PlantUML class diagram and writes one CREATE TABLE statement per class.
Attributes marked with + form the primary key, and associations become foreign keys.
The result can also be rendered as text or markdown documentation, or applied to
PostgreSQL, MySQL, or SQLite. Reads stdin when no file (or -) is given.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, flags)
		},
	}

	// Bound to config keys of the same name
	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringP("output-dir", "d", "", "Output directory for multi-file documentation (text or markdown)")
	cmd.Flags().StringP("format", "f", "sql", "Output format: sql, text or markdown")
	cmd.Flags().Bool("fk-columns", false, "Add a column for every foreign key the class does not declare")
	cmd.Flags().String("fk-policy", "left", "Which side of an association owns the foreign key: left or many")

	cmd.Flags().StringVar(&flags.configFile, "config", "", "Config file (default: .pumlsql.yaml in ., $HOME, $HOME/.config/pumlsql)")
	cmd.Flags().StringVar(&flags.dbURL, "db-url", "", "Apply the DDL to this PostgreSQL database")
	cmd.Flags().StringVar(&flags.mysqlURL, "mysql-url", "", "Apply the DDL to this MySQL database")
	cmd.Flags().StringVar(&flags.sqlitePath, "sqlite", "", "Apply the DDL to this SQLite database file")
	cmd.Flags().BoolVar(&flags.apply, "apply", false, "Apply the DDL to database_url from the config or DATABASE_URL")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "Regenerate whenever the diagram file changes")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log debug output")

	return cmd
}

func run(cmd *cobra.Command, args []string, flags *cliFlags) error {
	cfg, err := config.Load(flags.configFile, cmd.Flags())
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if flags.verbose {
		level = "debug"
	}
	logger := logging.Setup(level, cmd.ErrOrStderr())

	policy, ok := diagram.PolicyByName(cfg.FKPolicy)
	if !ok {
		return fmt.Errorf("invalid fk policy: %s (must be 'left' or 'many')", cfg.FKPolicy)
	}

	switch cfg.Format {
	case formatter.FormatSQL, formatter.FormatText, formatter.FormatMarkdown:
	default:
		return fmt.Errorf("invalid format: %s (must be 'sql', 'text' or 'markdown')", cfg.Format)
	}

	// Validate flag combinations
	if cfg.OutputDir != "" && cfg.Output != "" {
		return fmt.Errorf("cannot use both --output-dir and --output flags")
	}
	if cfg.OutputDir != "" && cfg.Format == formatter.FormatSQL {
		return fmt.Errorf("--output-dir requires --format text or markdown")
	}

	databaseURL, err := resolveDatabaseURL(flags, cfg)
	if err != nil {
		return err
	}

	input := ""
	if len(args) == 1 {
		input = args[0]
	}
	if flags.watch {
		if input == "" || input == "-" {
			return fmt.Errorf("--watch requires a diagram file")
		}
		if databaseURL != "" {
			return fmt.Errorf("--watch cannot be combined with applying to a database")
		}
	}

	g := &generator{
		cfg:         cfg,
		policy:      policy,
		databaseURL: databaseURL,
		logger:      logger,
		stdout:      cmd.OutOrStdout(),
		stderr:      cmd.ErrOrStderr(),
	}

	if !flags.watch {
		text, err := readDiagram(input, cmd.InOrStdin())
		if err != nil {
			return err
		}
		return g.generate(cmd.Context(), text)
	}

	return watchDiagram(cmd.Context(), input, g)
}

// resolveDatabaseURL returns the URL to apply the DDL to, or "" when nothing is applied
func resolveDatabaseURL(flags *cliFlags, cfg *config.Config) (string, error) {
	var urls []string
	if flags.dbURL != "" {
		urls = append(urls, flags.dbURL)
	}
	if flags.mysqlURL != "" {
		urls = append(urls, "mysql://"+strings.TrimPrefix(flags.mysqlURL, "mysql://"))
	}
	if flags.sqlitePath != "" {
		urls = append(urls, "sqlite://"+strings.TrimPrefix(flags.sqlitePath, "sqlite://"))
	}
	if flags.apply {
		if cfg.DatabaseURL == "" {
			return "", fmt.Errorf("--apply requires database_url in the config or DATABASE_URL")
		}
		urls = append(urls, cfg.DatabaseURL)
	}

	if len(urls) > 1 {
		return "", fmt.Errorf("only one of --db-url, --mysql-url, --sqlite, or --apply can be specified")
	}
	if len(urls) == 0 {
		return "", nil
	}
	return urls[0], nil
}

func readDiagram(path string, stdin io.Reader) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := afero.ReadFile(config.AppFs, path)
	if err != nil {
		return "", fmt.Errorf("failed to read diagram: %w", err)
	}
	return string(data), nil
}

// generator runs one translation with the resolved settings
type generator struct {
	cfg         *config.Config
	policy      diagram.OwnershipPolicy
	databaseURL string
	logger      *slog.Logger
	stdout      io.Writer
	stderr      io.Writer
}

func (g *generator) generate(ctx context.Context, text string) error {
	opts := &pumlsql.Options{
		// Applied DDL needs every referenced column to exist
		ForeignKeyColumns: g.cfg.FKColumns || g.databaseURL != "",
		Policy:            g.policy,
	}

	s, failures := pumlsql.TranslateSchema(text, opts)
	g.logger.Debug("diagram translated", "tables", len(s.Tables), "failures", len(failures))
	for _, err := range failures {
		var perr *diagram.ParseError
		if errors.As(err, &perr) {
			g.logger.Warn("class could not be parsed", "class", perr.Class, "detail", perr.Detail)
		}
	}

	var ddl string
	if g.cfg.Format == formatter.FormatSQL {
		ddl = pumlsql.TranslateWithOptions(text, opts)
	}

	if err := g.write(s, ddl); err != nil {
		return err
	}

	if g.databaseURL == "" {
		return nil
	}
	if len(failures) > 0 {
		output.Warning(g.stderr, "%d classes could not be parsed and are not applied", len(failures))
	}
	return g.apply(ctx, pumlsql.TranslateStatements(text, opts))
}

func (g *generator) write(s *schema.Schema, ddl string) error {
	if g.cfg.OutputDir != "" {
		err := pumlsql.FormatSchema(s, &pumlsql.OutputOptions{
			OutputDir: g.cfg.OutputDir,
			Format:    g.cfg.Format,
			Fs:        config.AppFs,
		})
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		output.Success(g.stderr, "Wrote %d tables to %s", len(s.Tables), g.cfg.OutputDir)
		return nil
	}

	var buf bytes.Buffer
	if g.cfg.Format == formatter.FormatSQL {
		buf.WriteString(ddl)
	} else if err := pumlsql.FormatSchema(s, &pumlsql.OutputOptions{Writer: &buf, Format: g.cfg.Format}); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if g.cfg.Output == "" {
		_, err := g.stdout.Write(buf.Bytes())
		return err
	}

	if err := afero.WriteFile(config.AppFs, g.cfg.Output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	output.Success(g.stderr, "Wrote %s", g.cfg.Output)
	return nil
}

func (g *generator) apply(ctx context.Context, statements []string) error {
	g.logger.Debug("applying DDL", "statements", len(statements))

	script := strings.Join(statements, ";\n\n") + ";\n"
	applied, err := pumlsql.ApplyDDL(ctx, g.databaseURL, script)
	if err != nil {
		return err
	}

	output.Section(g.stderr, "Applied schema")
	if err := pumlsql.FormatSchema(applied, &pumlsql.OutputOptions{Writer: g.stderr, Format: formatter.FormatText}); err != nil {
		return fmt.Errorf("failed to format applied schema: %w", err)
	}
	output.Success(g.stderr, "Created %d tables", len(applied.Tables))
	return nil
}

func watchDiagram(ctx context.Context, path string, g *generator) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.NewWatcher(path, func() error {
		text, err := readDiagram(path, nil)
		if err != nil {
			return err
		}
		return g.generate(ctx, text)
	}, g.logger)
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	if err := w.Start(); err != nil {
		return err
	}
	output.Info(g.stderr, "Watching %s (Ctrl+C to stop)", path)

	<-ctx.Done()
	output.Muted(g.stderr, "Stopped watching %s", path)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		output.Error(os.Stderr, "%v", err)
		os.Exit(1)
	}
}
