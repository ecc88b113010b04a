package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tdmenu/internal/cleanup"
	"tdmenu/internal/config"
	"tdmenu/internal/feedback"
	"tdmenu/internal/logging"
	"tdmenu/internal/model"
	"tdmenu/internal/search"
	"tdmenu/internal/store"
	"tdmenu/internal/tokens"
	"tdmenu/internal/transcript"
	"tdmenu/internal/watcher"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tdmenu: %v\n", err)
		os.Exit(1)
	}
}

// app carries what every command needs once flags are parsed.
type app struct {
	configPath string
	logLevel   string
	sample     bool

	cfg    config.Config
	logCfg logging.Config
	logger zerolog.Logger
	engine *search.Engine
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "tdmenu",
		Short: "Inspect model session transcripts and save feedback attachments",
		Long: `tdmenu lists, searches and drills into language model session transcripts,
estimates their token usage, and writes feedback attachments with an optional
sentiment for manual submission.

A transcript file is a JSON array of entries, a feedback attachment, or JSONL
with one entry per line. Pass --sample to use a built-in transcript instead.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.init() },
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath(), "config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&a.sample, "sample", false, "use the built-in sample transcript")

	root.AddCommand(
		a.listCmd(),
		a.showCmd(),
		a.tokensCmd(),
		a.feedbackCmd(),
		a.historyCmd(),
		a.watchCmd(),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg

	a.logCfg = logging.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty}
	a.logger = logging.New(a.logCfg)

	tag, err := cfg.Tag()
	if err != nil {
		return err
	}
	a.engine = search.New(tag)
	return nil
}

// --- Transcript input ---

// transcriptArg resolves the transcript named by the first argument, or the
// sample when --sample is set.
func (a *app) transcriptArg(args []string) (model.Transcript, string, error) {
	if a.sample {
		return transcript.Sample(), "sample", nil
	}
	if len(args) == 0 {
		return nil, "", errors.New("no transcript file given (pass a path or --sample)")
	}
	t, err := transcript.Load(args[0])
	if err != nil {
		return nil, "", err
	}
	return t, args[0], nil
}

func fileArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("accepts at most one transcript file, received %d", len(args))
	}
	return nil
}

// --- list ---

func (a *app) listCmd() *cobra.Command {
	var query, scope string

	cmd := &cobra.Command{
		Use:   "list [file]",
		Short: "List transcript entries, filtered by text and kind",
		Args:  fileArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, _, err := a.transcriptArg(args)
			if err != nil {
				return err
			}
			sc, err := model.ParseScope(scope)
			if err != nil {
				return err
			}

			view := search.NewView(a.engine)
			view.Query = query
			view.Scope = sc

			out := cmd.OutOrStdout()
			if empty, reason := view.Empty(t); empty {
				fmt.Fprintln(out, hintStyle.Render(reason))
				return nil
			}
			for _, row := range view.Rows(t) {
				fmt.Fprintln(out, renderRow(row, 100))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive text to match")
	cmd.Flags().StringVarP(&scope, "scope", "s", "all", "entry kind (all, instructions, prompt, response, toolCalls, toolOutput)")
	return cmd
}

// --- show ---

func (a *app) showCmd() *cobra.Command {
	var copyOnly bool

	cmd := &cobra.Command{
		Use:   "show [file] <index>",
		Short: "Show the detail of one entry",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idxArg := args[len(args)-1]
			idx, err := strconv.Atoi(idxArg)
			if err != nil {
				return fmt.Errorf("parse index %q: %w", idxArg, err)
			}

			t, _, err := a.transcriptArg(args[:len(args)-1])
			if err != nil {
				return err
			}
			if idx < 0 || idx >= len(t) {
				return fmt.Errorf("index %d out of range (transcript has %d entries)", idx, len(t))
			}

			out := cmd.OutOrStdout()
			if copyOnly {
				fmt.Fprintln(out, transcript.CopyText(t[idx]))
				return nil
			}
			fmt.Fprint(out, renderDetail(transcript.Detail(t[idx])))
			return nil
		},
	}
	cmd.Flags().BoolVar(&copyOnly, "copy", false, "print only the text a copy action would take")
	return cmd
}

// --- tokens ---

func (a *app) tokensCmd() *cobra.Command {
	var exact bool

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Estimate token usage per entry",
		Args:  fileArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, _, err := a.transcriptArg(args)
			if err != nil {
				return err
			}

			var x *tokens.Exact
			if exact {
				if x, err = tokens.NewExact(); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			for i, e := range t {
				line := fmt.Sprintf("%3d  %-12s %s", i, transcript.Title(e), tokens.Label(tokens.Count(e)))
				if x != nil {
					n, err := x.Count(e)
					if err != nil {
						return fmt.Errorf("count entry %d: %w", i, err)
					}
					line += hintStyle.Render(fmt.Sprintf("  (cl100k: %d)", n))
				}
				fmt.Fprintln(out, line)
			}

			total := fmt.Sprintf("total %s", tokens.Label(tokens.Total(t)))
			if x != nil {
				n, err := x.Total(t)
				if err != nil {
					return err
				}
				total += fmt.Sprintf(" (cl100k: %d)", n)
			}
			fmt.Fprintln(out, headerStyle.Render(total))
			return nil
		},
	}
	cmd.Flags().BoolVar(&exact, "exact", false, "also count with the cl100k tokenizer")
	return cmd
}

// --- feedback ---

func (a *app) feedbackCmd() *cobra.Command {
	var sentiment, dir string
	var noArchive bool

	cmd := &cobra.Command{
		Use:   "feedback [file]",
		Short: "Write a feedback attachment for a transcript",
		Long: `feedback saves the transcript and a sentiment as a JSON attachment in the
feedback directory and prints its path. Each successful save is also recorded
in the archive unless --no-archive is set.`,
		Args: fileArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, source, err := a.transcriptArg(args)
			if err != nil {
				return err
			}
			s, err := model.ParseSentiment(sentiment)
			if err != nil {
				return err
			}
			if dir == "" {
				dir = a.cfg.FeedbackDir
			}

			opts := []feedback.Option{
				feedback.WithDir(dir),
				feedback.WithLogger(logging.NewWithComponent(a.logCfg, "feedback")),
			}
			if !noArchive {
				st, err := a.openArchive()
				if err != nil {
					return err
				}
				defer cleanup.DeferClose(a.logger, st, "Failed to close archive")
				opts = append(opts, feedback.WithObserver(archiveObserver(st, source, logging.NewWithComponent(a.logCfg, "archive"))))
			}

			menu := feedback.NewMenu(feedback.StaticSource(t), opts...)
			defer menu.Close()

			state := menu.Open()
			if s != model.SentimentNone {
				state = menu.ToggleSentiment(s)
			}

			out := cmd.OutOrStdout()
			path, ok := menu.ExportPath()
			if !ok {
				fmt.Fprintln(out, errorStyle.Render("✗ "+state.String()))
				return fmt.Errorf("feedback attachment not saved to %s", menu.Path())
			}
			fmt.Fprintf(out, "%s %s\n", successStyle.Render("✓ "+state.String()), path)
			fmt.Fprintln(out, hintStyle.Render(fmt.Sprintf("sentiment %s, %d entries, %s",
				menu.Sentiment(), len(t), tokens.Label(tokens.Total(t)))))
			return nil
		},
	}
	cmd.Flags().StringVar(&sentiment, "sentiment", "", "positive, negative or none")
	cmd.Flags().StringVar(&dir, "dir", "", "directory for the attachment (default from config)")
	cmd.Flags().BoolVar(&noArchive, "no-archive", false, "do not record the save in the archive")
	return cmd
}

// archiveObserver records successful saves. Archive failures are logged and
// never affect the save state.
func archiveObserver(st *store.Store, source string, logger zerolog.Logger) func(feedback.SaveEvent) {
	return func(ev feedback.SaveEvent) {
		if ev.State != feedback.Saved {
			return
		}
		err := st.RecordSave(store.SaveRecord{
			SessionID: ev.SessionID,
			Path:      ev.Path,
			Sentiment: ev.Sentiment,
			Entries:   ev.Entries,
			Tokens:    ev.Tokens,
			Source:    source,
			SavedAt:   ev.At,
		})
		if err != nil {
			logger.Warn().Err(err).Str("session", ev.SessionID).Msg("Failed to archive feedback save")
		}
	}
}

// --- history ---

func (a *app) historyCmd() *cobra.Command {
	var since, until string
	var limit int
	var sessions bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived feedback saves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := model.ParseWindow(since, until, time.Now())
			if err != nil {
				return err
			}
			if !fileExists(a.cfg.ArchivePath) {
				return fmt.Errorf("no archive found at %s (save feedback first)", a.cfg.ArchivePath)
			}
			st, err := a.openArchive()
			if err != nil {
				return err
			}
			defer cleanup.DeferClose(a.logger, st, "Failed to close archive")

			out := cmd.OutOrStdout()
			if sessions {
				list, err := st.Sessions(limit, w)
				if err != nil {
					return err
				}
				if len(list) == 0 {
					fmt.Fprintln(out, "No sessions.")
					return nil
				}
				for _, s := range list {
					fmt.Fprintln(out, renderSession(s))
				}
				return nil
			}

			records, err := st.History(limit, w)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(out, "No saves.")
				return nil
			}
			for _, r := range records {
				fmt.Fprintln(out, renderSave(r))
			}

			counts, err := st.SentimentCounts(w)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, hintStyle.Render(fmt.Sprintf("sessions: %d positive, %d negative, %d none",
				counts[model.SentimentPositive], counts[model.SentimentNegative], counts[model.SentimentNone])))
			return nil
		},
	}
	cmd.Flags().StringVar(&since, "since", "", "only saves after this time (e.g. 2h, 3d, 2026-01-02)")
	cmd.Flags().StringVar(&until, "until", "", "only saves before this time")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "max results")
	cmd.Flags().BoolVar(&sessions, "sessions", false, "one line per session with its latest sentiment")
	return cmd
}

// --- watch ---

func (a *app) watchCmd() *cobra.Command {
	var query, scope string
	var resume bool

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Follow a JSONL transcript and print matching entries as they arrive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := model.ParseScope(scope)
			if err != nil {
				return err
			}
			path, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve %s: %w", args[0], err)
			}

			f := &follower{
				path:   path,
				query:  query,
				scope:  sc,
				engine: a.engine,
				out:    cmd.OutOrStdout(),
				logger: logging.NewWithComponent(a.logCfg, "watcher"),
			}
			if resume {
				st, err := a.openArchive()
				if err != nil {
					return err
				}
				defer cleanup.DeferClose(a.logger, st, "Failed to close archive")
				f.offsets = st
				if f.offset, err = st.GetOffset(path); err != nil {
					return fmt.Errorf("get offset: %w", err)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return f.run(ctx)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive text to match")
	cmd.Flags().StringVarP(&scope, "scope", "s", "all", "entry kind to show")
	cmd.Flags().BoolVar(&resume, "resume", false, "continue from the offset remembered in the archive")
	return cmd
}

// follower prints new entries of a growing transcript.
type follower struct {
	path    string
	query   string
	scope   model.Scope
	engine  *search.Engine
	out     io.Writer
	logger  zerolog.Logger
	offsets *store.Store

	offset int64
	seen   int
}

func (f *follower) run(ctx context.Context) error {
	changes := make(chan struct{}, 1)
	w, err := watcher.New(f.path, func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}, f.logger)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		_ = w.Stop()
		return err
	}
	defer func() {
		if err := w.Stop(); err != nil {
			f.logger.Warn().Err(err).Msg("Failed to stop watcher")
		}
	}()

	if fileExists(f.path) {
		f.poll()
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			f.poll()
		}
	}
}

// poll harvests entries appended since the last read and prints the ones
// that match. A file that shrank is read again from the start.
func (f *follower) poll() {
	if info, err := os.Stat(f.path); err == nil && info.Size() < f.offset {
		f.logger.Info().Str("path", f.path).Msg("Transcript truncated, reading from start")
		f.offset = 0
		f.seen = 0
	}

	result, err := transcript.Harvest(f.path, f.offset)
	if err != nil {
		f.logger.Warn().Err(err).Str("path", f.path).Msg("Failed to read transcript")
		return
	}
	if result.Skipped > 0 {
		f.logger.Debug().Int("skipped", result.Skipped).Msg("Skipped malformed transcript lines")
	}

	for _, row := range f.engine.Rows(result.Entries, f.query, f.scope) {
		row.Index += f.seen
		fmt.Fprintln(f.out, renderRow(row, 100))
	}
	f.seen += len(result.Entries)
	f.offset = result.NewOffset

	if f.offsets != nil {
		if err := f.offsets.SetOffset(f.path, f.offset); err != nil {
			f.logger.Warn().Err(err).Msg("Failed to remember transcript offset")
		}
	}
}

// --- Helpers ---

func (a *app) openArchive() (*store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(a.cfg.ArchivePath), 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	st, err := store.Open(a.cfg.ArchivePath)
	if err != nil {
		return nil, err
	}
	if err := st.InitSchema(); err != nil {
		cleanup.DeferClose(a.logger, st, "Failed to close archive")
		return nil, err
	}
	return st, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
