package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"healthcal/internal/capture"
	"healthcal/internal/config"
	"healthcal/internal/healthlog"
	"healthcal/internal/ics"
	appLog "healthcal/internal/log"
	"healthcal/internal/render"
	"healthcal/internal/web"
)

// flagConfig holds CLI flag values; non-empty path flags override the
// config file.
type flagConfig struct {
	configPath string
	logPath    string
	outPath    string
	listen     string
	preview    string
	exportICS  string
	watch      bool
	renderOnly bool
	verbose    bool
}

func main() {
	flags := parseFlags()
	if flags.verbose {
		appLog.SetLevel(appLog.LevelDebug)
	}

	appLog.Info("healthcal starting", "version", "0.1.0")

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI flags override config file values if provided.
	if flags.logPath != "" {
		conf.LogPath = flags.logPath
	}
	if flags.outPath != "" {
		conf.OutputPDF = flags.outPath
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}
	if flags.exportICS != "" {
		conf.OutputICS = flags.exportICS
	}

	appLog.Info("effective config",
		"log_path", conf.LogPath,
		"output_pdf", conf.OutputPDF,
		"output_ics", conf.OutputICS,
		"week_start", conf.WeekStart,
		"page", conf.Page,
		"watch", flags.watch,
		"render_only", flags.renderOnly,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if flags.listen != "" {
		go func() {
			if err := web.Start(ctx, conf); err != nil {
				appLog.Error("preview server failed", err, "listen", conf.Listen)
			}
		}()
	}

	if err := runPipeline(ctx, conf, flags); err != nil {
		appLog.Error("pipeline failed", err, "log_path", conf.LogPath)
		if !flags.watch {
			os.Exit(1)
		}
	}

	if !flags.watch && flags.listen == "" {
		appLog.Info("healthcal done", "output_pdf", conf.OutputPDF)
		return
	}

	if flags.watch {
		c := cron.New()
		_, err := c.AddFunc(conf.RefreshCron, func() {
			if err := runPipeline(ctx, conf, flags); err != nil {
				appLog.Error("scheduled render failed", err, "log_path", conf.LogPath)
			}
		})
		if err != nil {
			appLog.Error("invalid refresh schedule", err, "refresh", conf.RefreshCron)
			os.Exit(1)
		}
		c.Start()
		appLog.Info("watch mode", "refresh", conf.RefreshCron)
		defer func() { <-c.Stop().Done() }()
	}

	<-ctx.Done()
	appLog.Info("healthcal exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "config.yaml", "Path to config file")
	flag.StringVar(&cfg.logPath, "log", "", "Path to the log document (overrides config if set)")
	flag.StringVar(&cfg.outPath, "out", "", "Output PDF path (overrides config if set)")
	flag.StringVar(&cfg.listen, "listen", "", "Serve a live preview on this address (e.g. 127.0.0.1:8080)")
	flag.StringVar(&cfg.preview, "preview", "", "Also capture a PNG preview at this path")
	flag.StringVar(&cfg.exportICS, "export-ics", "", "Also export marked days as an .ics file at this path")
	flag.BoolVar(&cfg.watch, "watch", false, "Keep running and re-render on the configured cron schedule")
	flag.BoolVar(&cfg.renderOnly, "render-only", false, "Write the HTML only; skip Chromium and PDF output")
	flag.BoolVar(&cfg.verbose, "v", false, "Enable debug logging")

	flag.Parse()

	return cfg
}

// runPipeline performs one full decode -> render -> print cycle.
func runPipeline(ctx context.Context, conf *config.Config, flags flagConfig) error {
	appLog.Info("reading log", "path", conf.LogPath)

	f, err := os.Open(conf.LogPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", conf.LogPath, err)
	}
	log, decodeErr := healthlog.DecodeLog(f)
	f.Close()
	if decodeErr != nil {
		return fmt.Errorf("failed to parse %s: %w", conf.LogPath, decodeErr)
	}

	appLog.Info("log decoded",
		"start_date", log.StartDate().Format("2006-01-02"),
		"days", log.Len(),
		"highlights", len(log.Highlights()),
	)

	htmlPath, cleanup, err := htmlOutputPath(conf)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := render.Options{
		WeekStart: conf.WeekStart,
		Page:      conf.Page,
		Title:     conf.CalendarName,
	}
	if err := render.WriteFile(htmlPath, log, opts); err != nil {
		return err
	}

	if conf.OutputICS != "" {
		if err := ics.WriteFile(conf.OutputICS, log, conf.CalendarName); err != nil {
			return err
		}
		appLog.Info("ics exported", "path", conf.OutputICS)
	}

	if flags.renderOnly {
		appLog.Info("render-only: skipping PDF", "html", htmlPath)
		return nil
	}

	captureOpts := capture.Options{
		HTMLPath: htmlPath,
		Page:     conf.Page,
		Timeout:  conf.ChromeTimeout(),
	}

	appLog.Info("printing PDF", "path", conf.OutputPDF)
	if err := capture.PrintPDF(ctx, captureOpts, conf.OutputPDF); err != nil {
		return err
	}

	if flags.preview != "" {
		if err := capture.CapturePNG(ctx, captureOpts, flags.preview); err != nil {
			return err
		}
		appLog.Info("preview captured", "path", flags.preview)
	}

	return nil
}

// htmlOutputPath decides where the intermediate HTML lives: the
// configured path if set, otherwise a temp file removed after the run.
func htmlOutputPath(conf *config.Config) (string, func(), error) {
	if conf.OutputHTML != "" {
		return conf.OutputHTML, func() {}, nil
	}

	tmp, err := os.CreateTemp("", "healthcal-*.html")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp HTML: %w", err)
	}
	name := tmp.Name()
	if err := tmp.Close(); err != nil {
		return "", nil, errors.Join(err, os.Remove(name))
	}
	return name, func() { _ = os.Remove(name) }, nil
}
