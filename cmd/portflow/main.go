package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"portflow/internal/codec"
	"portflow/internal/config"
	"portflow/internal/domain"
	"portflow/internal/flow"
	"portflow/internal/repository"
	"portflow/internal/repository/sqlite"
	"portflow/internal/watcher"
)

const usage = `portflow - flowbench measurement analysis

Usage:
  portflow run [-save] [-o out.json] <session-file>
  portflow compare [-o out.json] <before-file> <after-file>
  portflow import-csv -base <session-file> [-o out.json] <lift-table.csv>
  portflow watch [-save] <session-file>
  portflow archive list
  portflow archive show <id>
  portflow archive delete <id>
  portflow init [-path <config-path>]

Session files are JSON or YAML, selected by extension.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, cfgPath, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "portflow: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg)
	if cfgPath != "" {
		slog.Debug("config loaded", "path", cfgPath)
	}

	var cmdErr error
	switch os.Args[1] {
	case "run":
		cmdErr = cmdRun(cfg, os.Args[2:])
	case "compare":
		cmdErr = cmdCompare(cfg, os.Args[2:])
	case "import-csv":
		cmdErr = cmdImportCSV(os.Args[2:])
	case "watch":
		cmdErr = cmdWatch(cfg, os.Args[2:])
	case "archive":
		cmdErr = cmdArchive(cfg, os.Args[2:])
	case "init":
		cmdErr = cmdInit(os.Args[2:])
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "portflow: unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	if cmdErr != nil {
		slog.Error("command failed", "err", cmdErr)
		os.Exit(1)
	}
}

func setupLogging(cfg *config.Config) {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	}
	slog.SetDefault(slog.New(handler))
}

// loadSession reads and validates a session file, format by extension.
func loadSession(path string) (*domain.Session, error) {
	imp, err := codec.ImporterFor(filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open session file: %w", err)
	}
	defer f.Close()

	sess, err := imp.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sess, nil
}

// writeResult writes v to outPath, or stdout when outPath is empty.
// A .yaml/.yml output path selects YAML, anything else indented JSON.
func writeResult(v any, outPath string) error {
	if outPath == "" {
		return codec.ExportJSON(v, os.Stdout)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	switch filepath.Ext(outPath) {
	case ".yaml", ".yml":
		return codec.ExportYAML(v, f)
	default:
		return codec.ExportJSON(v, f)
	}
}

func cmdRun(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	out := fs.String("o", "", "write the report to a file instead of stdout")
	save := fs.Bool("save", false, "store the session and report in the archive")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("run expects exactly one session file")
	}
	path := fs.Arg(0)

	sess, err := loadSession(path)
	if err != nil {
		return err
	}

	report, err := flow.RunAll(*sess, cfg.FlowOptions())
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	slog.Info("session analyzed",
		"file", path,
		"intake_points", len(report.Intake),
		"exhaust_points", len(report.Exhaust),
		"ei_entries", len(report.EI))

	if *save {
		if err := saveToArchive(cfg, path, sess, report); err != nil {
			return err
		}
	}

	return writeResult(report, *out)
}

func saveToArchive(cfg *config.Config, path string, sess *domain.Session, report flow.Report) error {
	archive, err := sqlite.New(cfg.Archive.Path)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archive.Close()

	ctx := context.Background()
	sessRec := &repository.SessionRecord{
		Label:   filepath.Base(path),
		Session: *sess,
	}
	if err := archive.SaveSession(ctx, sessRec); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	repRec := &repository.ReportRecord{SessionID: sessRec.ID, Report: report}
	if err := archive.SaveReport(ctx, repRec); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	slog.Info("archived", "session_id", sessRec.ID, "report_id", repRec.ID, "db", cfg.Archive.Path)
	return nil
}

func cmdCompare(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	out := fs.String("o", "", "write the comparison to a file instead of stdout")
	fs.Parse(args)
	if fs.NArg() != 2 {
		return fmt.Errorf("compare expects a before file and an after file")
	}

	before, err := loadSession(fs.Arg(0))
	if err != nil {
		return err
	}
	after, err := loadSession(fs.Arg(1))
	if err != nil {
		return err
	}

	cmp, err := flow.RunCompare(*before, *after, nil, cfg.FlowOptions())
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	if cmp.Intake != nil {
		slog.Info("intake compared",
			"matched", cmp.Intake.MatchedLifts,
			"unmatched_before", len(cmp.Intake.UnmatchedBefore),
			"unmatched_after", len(cmp.Intake.UnmatchedAfter))
	}
	if cmp.Exhaust != nil {
		slog.Info("exhaust compared",
			"matched", cmp.Exhaust.MatchedLifts,
			"unmatched_before", len(cmp.Exhaust.UnmatchedBefore),
			"unmatched_after", len(cmp.Exhaust.UnmatchedAfter))
	}

	return writeResult(cmp, *out)
}

func cmdImportCSV(args []string) error {
	fs := flag.NewFlagSet("import-csv", flag.ExitOnError)
	basePath := fs.String("base", "", "session file supplying air, engine and geometry")
	out := fs.String("o", "", "write the merged session to a file instead of stdout")
	fs.Parse(args)
	if fs.NArg() != 1 || *basePath == "" {
		return fmt.Errorf("import-csv expects -base <session-file> and one CSV file")
	}

	base, err := loadSession(*basePath)
	if err != nil {
		return err
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("open CSV file: %w", err)
	}
	defer f.Close()

	imp := &codec.CSVImporter{Base: *base}
	sess, err := imp.Parse(f)
	if err != nil {
		return fmt.Errorf("%s: %w", fs.Arg(0), err)
	}
	slog.Info("lift table imported",
		"intake_points", len(sess.Lifts.Intake),
		"exhaust_points", len(sess.Lifts.Exhaust))

	return writeResult(sess, *out)
}

func cmdWatch(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	save := fs.Bool("save", false, "store each analysis in the archive")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("watch expects exactly one session file")
	}
	path := fs.Arg(0)

	analyze := func() {
		sess, err := loadSession(path)
		if err != nil {
			slog.Error("reload failed", "err", err)
			return
		}
		report, err := flow.RunAll(*sess, cfg.FlowOptions())
		if err != nil {
			slog.Error("analysis failed", "err", err)
			return
		}
		if *save {
			if err := saveToArchive(cfg, path, sess, report); err != nil {
				slog.Error("archive failed", "err", err)
			}
		}
		if err := codec.ExportJSON(report, os.Stdout); err != nil {
			slog.Error("report output failed", "err", err)
		}
	}

	// Analyze once up front so the watcher starts from a known-good state.
	analyze()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := watcher.New(path, analyze).WithDebounce(cfg.Watch.Debounce.Duration())
	if err := w.Watch(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func cmdArchive(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("archive expects a subcommand: list, show, delete")
	}

	archive, err := sqlite.New(cfg.Archive.Path)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archive.Close()
	ctx := context.Background()

	switch args[0] {
	case "list":
		sessions, err := archive.ListSessions(ctx)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("archive is empty")
			return nil
		}
		for _, s := range sessions {
			fmt.Printf("%s  %-8s  %-30s  %s\n",
				s.ID, s.Mode, s.Label, s.CreatedAt.Format(time.RFC3339))
		}
		return nil

	case "show":
		if len(args) != 2 {
			return fmt.Errorf("archive show expects a session id")
		}
		rec, err := archive.GetSession(ctx, args[1])
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("no session with id %s", args[1])
		}
		reports, err := archive.ListReports(ctx, rec.ID)
		if err != nil {
			return err
		}
		return codec.ExportJSON(map[string]any{
			"session": rec,
			"reports": reports,
		}, os.Stdout)

	case "delete":
		if len(args) != 2 {
			return fmt.Errorf("archive delete expects a session id")
		}
		if err := archive.DeleteSession(ctx, args[1]); err != nil {
			return err
		}
		slog.Info("session deleted", "id", args[1])
		return nil

	default:
		return fmt.Errorf("unknown archive subcommand %q", args[0])
	}
}

func cmdInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	path := fs.String("path", "", "where to write the config (default: XDG config dir)")
	fs.Parse(args)

	target := *path
	if target == "" {
		target = config.DefaultConfigPath()
	}
	if _, err := os.Stat(target); err == nil {
		return fmt.Errorf("config already exists at %s", target)
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(target); err != nil {
		return err
	}
	slog.Info("config written", "path", target)
	fmt.Println(cfg.Summary())
	return nil
}
