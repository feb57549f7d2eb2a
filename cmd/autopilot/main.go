// Command autopilot runs the full pipeline: login, discover postings, filter,
// tailor a resume and walk each application form. Defaults to a dry run.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"handshake-autopilot/internal/bot"
	"handshake-autopilot/internal/browser"
	"handshake-autopilot/internal/config"
	"handshake-autopilot/internal/domain"
	"handshake-autopilot/internal/llm"
	"handshake-autopilot/internal/qa"
	"handshake-autopilot/internal/resume"
	"handshake-autopilot/internal/secrets"
	"handshake-autopilot/internal/store"
)

var (
	lockPath    = "artifacts/run.lock"
	historyPath = "artifacts/history.db"

	// swapped out in tests
	launchBrowser = browser.Launch
)

type options struct {
	configPath      string
	dryRun          bool
	maxApplications int
	headless        bool
	history         int
	savePassword    bool
	forgetPassword  bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "config/application.yaml", "path to the YAML config file")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "stop at each submit button without clicking it")
	flag.IntVar(&opts.maxApplications, "max-applications", -1, "override the application budget")
	flag.BoolVar(&opts.headless, "headless", false, "run the browser without a window")
	logLevel := flag.String("log-level", "INFO", "DEBUG, INFO, WARNING or ERROR")
	flag.IntVar(&opts.history, "history", 0, "print the last N stored results and exit")
	flag.BoolVar(&opts.savePassword, "save-password", false, "store the login password in the OS keychain and exit")
	flag.BoolVar(&opts.forgetPassword, "forget-password", false, "remove the login password from the OS keychain and exit")
	flag.Parse()

	setupLogging(*logLevel)

	// All cleanup hangs off run's defers; the exit-code decision happens
	// only after they have fired.
	if err := run(opts); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func run(opts options) error {
	if opts.history > 0 {
		return printHistory(opts.history)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return errors.Wrapf(err, "config load failed (%s)", opts.configPath)
	}

	if opts.savePassword || opts.forgetPassword {
		return manageKeychain(cfg.Handshake.Email, opts.savePassword)
	}

	overrides := config.Overrides{DryRun: opts.dryRun, Headless: opts.headless}
	if opts.maxApplications >= 0 {
		overrides.MaxApplications = &opts.maxApplications
	}
	cfg.ApplyOverrides(overrides)

	password, err := secrets.LoginPassword(cfg.Handshake.Password, cfg.Handshake.Email)
	if err != nil {
		return errors.Wrap(err, "no password available")
	}
	cfg.Handshake.Password = password

	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return err
	}
	runLock := flock.New(lockPath)
	locked, err := runLock.TryLock()
	if err != nil {
		return errors.Wrap(err, "run lock")
	}
	if !locked {
		return errors.New("another run is already active; wait for it to finish")
	}
	defer func() { _ = runLock.Unlock() }()

	if cfg.Application.IsDryRun() {
		log.Info("dry run: forms will be filled but nothing will be submitted")
	}

	client := llm.New(cfg.LLM)
	answerer, err := qa.New(cfg.QA, client)
	if err != nil {
		return errors.Wrap(err, "answer defaults")
	}
	builder := resume.NewBuilder(cfg.Resume, client)

	session, err := launchBrowser(browser.Options{
		Headless: cfg.Browser.Headless,
		SlowMo:   time.Duration(cfg.Browser.SlowMoMs) * time.Millisecond,
		Timeout:  time.Duration(cfg.Browser.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return errors.Wrap(err, "browser launch")
	}
	defer session.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := bot.New(cfg, session, answerer, builder, baseResumeText(cfg.Resume.BaseResumePath))

	var results []domain.ApplicationResult
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var runErr error
		results, runErr = b.Run(ctx)
		return runErr
	})
	runErr := g.Wait()

	recordRun(results)
	logSummary(results)

	return runErr
}

func manageKeychain(email string, save bool) error {
	if !save {
		if err := secrets.DeleteLoginPassword(email); err != nil {
			return err
		}
		log.WithField("email", email).Info("keychain entry removed")
		return nil
	}

	fmt.Printf("password for %s: ", email)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	if err := secrets.SetLoginPassword(email, strings.TrimSpace(line)); err != nil {
		return err
	}
	log.WithField("email", email).Info("password stored; set handshake.use_keyring and drop it from the config file")
	return nil
}

func setupLogging(level string) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	parsed, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		log.Warnf("unknown log level %q, using info", level)
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)
}

// baseResumeText loads the raw base resume used for tailoring. Only plain
// text formats are readable here; anything else is skipped silently.
func baseResumeText(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
	default:
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}

func recordRun(results []domain.ApplicationResult) {
	if len(results) == 0 {
		return
	}
	db, err := store.Open(historyPath)
	if err != nil {
		log.WithError(err).Warn("run history unavailable")
		return
	}
	defer db.Close()

	runID := time.Now().UTC().Format("20060102-150405")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.RecordRun(ctx, runID, results); err != nil {
		log.WithError(err).Warn("could not record run history")
	}
}

func printHistory(limit int) error {
	db, err := store.Open(historyPath)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	entries, err := db.History(ctx, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no stored results yet")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %-16s  %-40s  %s  %s\n",
			e.RecordedAt, e.Result.Status, e.Result.Title, e.Result.Company, e.Result.Reason)
	}
	return nil
}

func logSummary(results []domain.ApplicationResult) {
	counts := bot.StatusCounts(results)
	log.WithFields(log.Fields{
		"processed":       len(results),
		"applied":         counts[domain.StatusApplied],
		"ready_to_submit": counts[domain.StatusReadyToSubmit],
		"dry_run_ready":   counts[domain.StatusDryRunReady],
		"skipped":         counts[domain.StatusSkipped],
		"failed":          counts[domain.StatusFailed],
	}).Info("run finished")
	log.WithField("path", bot.ResultsPath).Info("results written")
}
