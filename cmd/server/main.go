package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/phonocoach/pkg/api"
	"github.com/hazyhaar/phonocoach/pkg/chassis"
	"github.com/hazyhaar/phonocoach/pkg/dict"
	"github.com/hazyhaar/phonocoach/pkg/importer"
	"github.com/hazyhaar/phonocoach/pkg/ipa"
	"github.com/hazyhaar/phonocoach/pkg/observe"
	"github.com/hazyhaar/phonocoach/pkg/pronounce"
)

var version = "dev"

type config struct {
	Addr          string        `yaml:"addr"`
	DictsDir      string        `yaml:"dicts_dir"`
	SourcesDB     string        `yaml:"sources_db"`
	CheckInterval time.Duration `yaml:"check_interval"`
	LogLevel      string        `yaml:"log_level"`
	PassThreshold float64       `yaml:"pass_threshold"`
	Metrics       bool          `yaml:"metrics"`

	// TLS switches serve to the chassis: HTTPS on TCP and HTTP/3 on UDP,
	// same port. Without cert files a self-signed certificate is used.
	TLS     bool   `yaml:"tls"`
	TLSCert string `yaml:"tls_cert"`
	TLSKey  string `yaml:"tls_key"`
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "mcp":
		cmdMCP(os.Args[2:])
	case "import":
		cmdImport(os.Args[2:])
	case "ipa":
		cmdIPA(os.Args[2:])
	case "diff":
		cmdDiff(os.Args[2:])
	case "version":
		fmt.Println(version)
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: phonocoach <command> [flags]

Commands:
  serve    Start the HTTP server (REST API, /mcp, /metrics)
  mcp      Serve the MCP tools over stdio
  import   Download and build pronunciation dictionaries
           (run 'import --all' once: only a small core dictionary is embedded)
  ipa      Transcribe text to IPA
  diff     Score a transcript against a target phrase
  version  Print the version
`)
}

// app is the wired core shared by every subcommand.
type app struct {
	reg     *dict.Registry
	engine  *ipa.Engine
	svc     *pronounce.Service
	metrics *observe.Metrics
	eps     *api.Endpoints
}

func newApp(cfg config, logger *slog.Logger, mp metric.MeterProvider) (*app, error) {
	reg, err := dict.NewRegistry(cfg.DictsDir)
	if err != nil {
		return nil, fmt.Errorf("embedded dictionary: %w", err)
	}
	if err := reg.Load(); err != nil {
		return nil, fmt.Errorf("load dictionaries: %w", err)
	}
	logger.Info("dictionaries loaded", "count", reg.DictCount(), "entries", reg.TotalEntries())
	if reg.DictCount() == 1 {
		logger.Warn("only the embedded core dictionary is loaded; most words will use spelling rules",
			"hint", "run 'phonocoach import --all' to install the full CMU dictionary", "dicts_dir", cfg.DictsDir)
	}

	engine := ipa.NewEngine(reg.ForLocale(ipa.LocaleEnglish))
	svc := pronounce.New(engine, pronounce.WithPassThreshold(cfg.PassThreshold))

	m, err := observe.NewMetrics(mp)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	if _, err := m.ObserveEngine(engine.Stats); err != nil {
		return nil, fmt.Errorf("engine metrics: %w", err)
	}

	return &app{
		reg:     reg,
		engine:  engine,
		svc:     svc,
		metrics: m,
		eps:     api.NewEndpoints(api.Deps{Service: svc, Registry: reg, Metrics: m, Logger: logger}),
	}, nil
}

// reload re-reads the dictionaries and drops memoized transcriptions
// that may have come from the old set.
func (a *app) reload(logger *slog.Logger) {
	if err := a.reg.Reload(); err != nil {
		logger.Error("reload failed", "error", err)
		return
	}
	a.engine.Reset()
	logger.Info("dictionaries reloaded", "count", a.reg.DictCount(), "entries", a.reg.TotalEntries())
}

func (a *app) mcpServer() *server.MCPServer {
	srv := server.NewMCPServer("phonocoach", version, server.WithToolCapabilities(false))
	api.RegisterMCPTools(srv, a.eps)
	return srv
}

func cmdServe(args []string) {
	fs := newFlagSet("serve")
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	cfg, logger := setup(*cfgPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var mp metric.MeterProvider = noop.NewMeterProvider()
	var provider *observe.Provider
	if cfg.Metrics {
		p, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceVersion: version})
		if err != nil {
			fatal(logger, "init telemetry", err)
		}
		provider = p
		mp = p.MeterProvider
	}

	a, err := newApp(cfg, logger, mp)
	if err != nil {
		fatal(logger, "startup", err)
	}

	opts := []api.RouterOption{
		api.WithHandler("/mcp", server.NewStreamableHTTPServer(a.mcpServer())),
	}
	if provider != nil {
		opts = append(opts, api.WithHandler("GET /metrics", provider.Handler()))
	}

	handler := api.NewRouter(a.eps, a.reg, a.metrics, opts...)

	if cfg.SourcesDB != "" && cfg.CheckInterval > 0 {
		sdb, err := openSources(cfg.SourcesDB)
		if err != nil {
			fatal(logger, "open sources db", err)
		}
		defer sdb.Close()
		go importer.NewChecker(sdb, logger, cfg.CheckInterval).Start(ctx)
	}

	// SIGHUP: hot reload dictionaries.
	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	go func() {
		for range sighup {
			logger.Info("SIGHUP received, reloading dictionaries")
			a.reload(logger)
		}
	}()

	stopServer := listen(ctx, cfg, handler, logger)

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := stopServer(shutdownCtx); err != nil {
		logger.Warn("server shutdown", "error", err)
	}
	if provider != nil {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown", "error", err)
		}
	}
}

// listen starts serving handler in the background, over plain HTTP or
// through the TLS chassis, and returns the matching shutdown function.
func listen(ctx context.Context, cfg config, handler http.Handler, logger *slog.Logger) func(context.Context) error {
	if cfg.TLS {
		cs, err := chassis.New(chassis.Config{
			Addr:     cfg.Addr,
			CertFile: cfg.TLSCert,
			KeyFile:  cfg.TLSKey,
			Handler:  handler,
			Logger:   logger,
		})
		if err != nil {
			fatal(logger, "tls setup", err)
		}
		go func() {
			if err := cs.Start(ctx); err != nil {
				fatal(logger, "server error", err)
			}
		}()
		logger.Info("phonocoach listening", "addr", cfg.Addr, "version", version, "tls", true, "metrics", cfg.Metrics)
		return cs.Stop
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("phonocoach listening", "addr", cfg.Addr, "version", version, "tls", false, "metrics", cfg.Metrics)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(logger, "server error", err)
		}
	}()
	return srv.Shutdown
}

func cmdMCP(args []string) {
	fs := newFlagSet("mcp")
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	cfg, logger := setup(*cfgPath)
	a, err := newApp(cfg, logger, noop.NewMeterProvider())
	if err != nil {
		fatal(logger, "startup", err)
	}
	if err := server.ServeStdio(a.mcpServer()); err != nil {
		fatal(logger, "mcp stdio", err)
	}
}

// setup loads the config and installs the process logger. Logs go to
// stderr so that stdout stays free for command output and MCP stdio.
func setup(cfgPath string) (config, *slog.Logger) {
	boot := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	cfg := loadConfig(cfgPath, boot)

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		boot.Warn("invalid log_level, using info", "log_level", cfg.LogLevel)
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return cfg, logger
}

func defaultConfig() config {
	return config{
		Addr:          ":8421",
		DictsDir:      "dicts",
		SourcesDB:     "dicts/sources.db",
		CheckInterval: 24 * time.Hour,
		LogLevel:      "info",
		PassThreshold: 0.8,
	}
}

func loadConfig(path string, logger *slog.Logger) config {
	cfg, err := readConfig(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Info("no config file, using defaults", "path", path)
	case err != nil:
		fatal(logger, "config", err)
	}
	return cfg
}

// readConfig returns the defaults overlaid with the YAML file at path.
// A missing file yields the defaults and an error wrapping os.ErrNotExist.
func readConfig(path string) (config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
