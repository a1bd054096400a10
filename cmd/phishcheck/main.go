package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"phishing_url_analyzer/internal/adaptors"
	"phishing_url_analyzer/internal/application/config"
	ports "phishing_url_analyzer/internal/domain/adaptors"
	"phishing_url_analyzer/internal/domain/models"
	"phishing_url_analyzer/internal/pkg/errors"
	"phishing_url_analyzer/internal/pkg/worker_pool"
	"phishing_url_analyzer/internal/service"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
)

const (
	exitSafe     = 0
	exitFailure  = 1
	exitPhishing = 2

	defaultEndpoint = `http://localhost:5000/analyze`
)

type options struct {
	endpoint string
	timeout  time.Duration
	workers  int
	catalog  string
	logLevel string
	noBanner bool
	urls     []string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitSafe
		}
		fmt.Fprintf(stderr, "[-] Error: %v\n", err)
		return exitFailure
	}

	logger := log.New()
	logger.SetOutput(stderr)
	logger.SetFormatter(&log.TextFormatter{
		TimestampFormat: time.RFC3339,
		FullTimestamp:   true,
	})
	level, _ := log.ParseLevel(opts.logLevel)
	logger.SetLevel(level)

	catalog, err := config.LoadMetricCatalog(opts.catalog, service.DefaultMetricCatalog())
	if err != nil {
		fmt.Fprintf(stderr, "[-] Error: %v\n", err)
		return exitFailure
	}

	if !opts.noBanner {
		printBanner(stdout)
	}

	client := adaptors.NewAnalysisClient(opts.endpoint, opts.timeout, logger)
	reports := analyzeAll(ctx, logger, client, catalog, opts)

	code := exitSafe
	for _, r := range reports {
		if _, err := stdout.Write(r.output); err != nil {
			logger.WithError(err).Error(`failed to write report`)
			return exitFailure
		}
		code = worseExit(code, r.exit)
	}
	return code
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet(`phishcheck`, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, `usage: phishcheck [flags] URL...`)
		fs.PrintDefaults()
	}

	endpoint := os.Getenv(`ANALYSIS_SERVICE_URL`)
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	fs.StringVar(&opts.endpoint, `endpoint`, endpoint, `Analysis service URL`)
	fs.DurationVar(&opts.timeout, `timeout`, 10*time.Second, `Per-request timeout`)
	fs.IntVar(&opts.workers, `workers`, 4, `Concurrent analyses`)
	fs.StringVar(&opts.catalog, `catalog`, os.Getenv(`METRIC_CATALOG_FILE`), `Metric catalog YAML overriding the built in one`)
	fs.StringVar(&opts.logLevel, `log-level`, string(ports.Warn), `Log level (trace, debug, info, warn, error)`)
	fs.BoolVar(&opts.noBanner, `no-banner`, false, `Do not print the banner`)

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.urls = fs.Args()

	if len(opts.urls) == 0 {
		return opts, errors.Sentinel(`at least one URL is required`)
	}
	if opts.workers <= 0 {
		return opts, fmt.Errorf(`-workers must be greater than zero (got %d)`, opts.workers)
	}
	if opts.timeout <= 0 {
		return opts, fmt.Errorf(`-timeout must be > 0 (got %s)`, opts.timeout)
	}
	if _, err := ports.ParseLogLevel(opts.logLevel); err != nil {
		return opts, err
	}
	return opts, nil
}

func printBanner(w io.Writer) {
	banner := figure.NewFigure(`phishcheck`, `doom`, true)
	_, _ = color.New(color.FgCyan).Fprint(w, banner.String())
	_, _ = color.New(color.FgCyan).Fprintln(w, `════════════════════════════════════════════════`)
	_, _ = color.New(color.FgGreen).Fprintln(w, `    Phishing URL Analyzer | terminal client`)
	_, _ = color.New(color.FgCyan).Fprintln(w, `════════════════════════════════════════════════`)
}

type report struct {
	output []byte
	exit   int
}

// analyzeAll runs every URL on the worker pool. Each analysis renders into
// its own terminal view; reports come back in argument order.
func analyzeAll(ctx context.Context, logger *log.Logger, client ports.AnalysisClient, catalog *models.MetricCatalog, opts options) []report {
	reports := make([]report, len(opts.urls))
	pool := worker_pool.NewWorkerPool(ctx, opts.workers, false, logger)

	go func() {
		defer pool.Close()
		for i, target := range opts.urls {
			target := target
			err := pool.Submit(strconv.Itoa(i), func(ctx context.Context) (any, error) {
				return analyzeOne(ctx, logger, client, catalog, target), nil
			})
			if err != nil {
				logger.WithError(err).WithField(`url`, target).Error(`analysis not scheduled`)
				return
			}
		}
	}()

	done := make([]bool, len(opts.urls))
	for res := range pool.ResultsCh {
		i, _ := strconv.Atoi(res.ID)
		if r, ok := res.Result.(report); ok {
			reports[i] = r
			done[i] = true
			continue
		}
		logger.WithError(res.Err).WithField(`url`, opts.urls[i]).Error(`analysis did not run`)
	}

	for i, ok := range done {
		if !ok {
			reports[i] = report{
				output: []byte(fmt.Sprintf("URL: %s\n  error: %s\n", opts.urls[i], service.MsgAnalysisFailed)),
				exit:   exitFailure,
			}
		}
	}
	return reports
}

func analyzeOne(ctx context.Context, logger *log.Logger, client ports.AnalysisClient, catalog *models.MetricCatalog, target string) report {
	view := adaptors.NewTerminalView(target)
	controller := service.NewAnalysisController(logger, client, view, catalog)

	outcome, err := controller.Submit(ctx, target)
	exit := exitSafe
	switch {
	case err != nil:
		exit = exitFailure
	case outcome.Result != nil && !outcome.Result.Prediction.IsSafe():
		exit = exitPhishing
	}
	if outcome != nil && outcome.ConfigErr != nil {
		logger.WithError(outcome.ConfigErr).WithField(`url`, target).Warn(`metric catalog does not cover the response`)
	}

	var buf bytes.Buffer
	if err := view.Render(&buf); err != nil {
		logger.WithError(err).Error(`failed to render report`)
		exit = exitFailure
	}
	buf.WriteString("\n")
	return report{output: buf.Bytes(), exit: exit}
}

// worseExit ranks failures above phishing verdicts above safe ones.
func worseExit(a, b int) int {
	rank := func(code int) int {
		switch code {
		case exitFailure:
			return 2
		case exitPhishing:
			return 1
		default:
			return 0
		}
	}
	if rank(b) > rank(a) {
		return b
	}
	return a
}
