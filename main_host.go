//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"displaywriter/app"
	"displaywriter/beamspring/matrix"
	"displaywriter/beamspring/report"
	"displaywriter/hal"
	"displaywriter/internal/buildinfo"
	"displaywriter/internal/config"
	"displaywriter/internal/logger"
)

func main() {
	var hcfg hal.HeadlessConfig
	var cfgPath, outPath, replayPath, logLevel, logFile, writeCfg string
	var debugMode, demo, async, logEvents bool
	var status uint64
	flag.StringVar(&cfgPath, "config", "", "YAML config file (default: built-in Displaywriter profile).")
	flag.BoolVar(&hcfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&hcfg.Hz, "hz", 0, "Scan rate (default from config).")
	flag.Uint64Var(&hcfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.IntVar(&hcfg.StepBudget, "steps", 1, "Scans per tick in headless mode.")
	flag.BoolVar(&debugMode, "debug", false, "Report raw readings instead of events.")
	flag.StringVar(&outPath, "out", "", "Host stream destination: file, tty or - for stdout.")
	flag.StringVar(&replayPath, "replay", "", "Replay a captured debug stream through the pipeline.")
	flag.BoolVar(&demo, "demo", false, "Press a few keys periodically.")
	flag.BoolVar(&async, "async", false, "Drop records instead of stalling when the consumer is slow.")
	flag.BoolVar(&logEvents, "log-events", false, "Log every key event.")
	flag.Uint64Var(&status, "status", 0, "Log a status line every N scans (0 = never).")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error.")
	flag.StringVar(&logFile, "log-file", "", "Append logs to this file instead of stderr.")
	flag.StringVar(&writeCfg, "write-config", "", "Write the effective config to this file and exit.")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fail(err)
	}
	if debugMode {
		cfg.Report.Mode = report.ModeDebug.String()
	}
	if outPath != "" {
		cfg.Report.Output = outPath
	}
	if async {
		cfg.Report.Async = true
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	if hcfg.Hz <= 0 {
		hcfg.Hz = cfg.Sim.Hz
	}

	logger.SetLevel(cfg.Log.Level)
	if cfg.Log.File != "" {
		if err := logger.SetOutputFile(cfg.Log.File); err != nil {
			fail(err)
		}
		defer logger.CloseLogFile()
	}
	logger.Infof("displaywriter %s", buildinfo.Summary())
	if logger.DebugEnabled() {
		m := cfg.Matrix
		logger.Debugf("profile %s %dx%d: depth %d, default %d+%d, %d missing, %d overrides",
			m.Name, m.Rows, m.Columns, m.DebounceDepth, m.Default.Base, m.Default.Increase,
			len(m.Missing), len(m.Overrides))
	}

	if writeCfg != "" {
		if err := config.Save(writeCfg, cfg); err != nil {
			logger.Errorf("write config %s", err, writeCfg)
			os.Exit(1)
		}
		logger.Infof("config written to %s", writeCfg)
		return
	}

	out, err := hal.OpenOutput(cfg.Report.Output)
	if err != nil {
		fail(err)
	}
	defer out.Close()

	appCfg := app.Config{
		Profile:     cfg.Matrix,
		Mode:        cfg.ReportMode(),
		LogEvents:   logEvents,
		StatusEvery: status,
	}
	var aw *report.AsyncWriter
	if cfg.Report.Async {
		aw = report.NewAsyncWriter(out, report.RecordSize(appCfg.Mode, cfg.Matrix.Positions()))
		appCfg.Out = aw
	}

	var replay *os.File
	if replayPath != "" {
		replay, err = os.Open(replayPath)
		if err != nil {
			fail(err)
		}
		defer replay.Close()
	}

	var kb *app.Keyboard
	newApp := func(h *hal.Sim) (func() error, error) {
		k, err := app.New(h, appCfg)
		if err != nil {
			return nil, err
		}
		kb = k
		if demo {
			n := app.AttachDemo(h.Matrix(), k.Layout(), cfg.Sim.PressVoltage)
			logger.Infof("demo: %d keys pressing periodically", n)
		}
		if replay != nil {
			rp := app.NewReplay(replay, h.Matrix(), k.Layout().Positions())
			logger.Infof("replaying %s", replayPath)
			return rp.Step(k), nil
		}
		return k.Tick, nil
	}

	hostCfg := hal.HostConfig{Rows: cfg.Matrix.Rows, Columns: cfg.Matrix.Columns, Out: out}
	if hcfg.Enabled {
		logger.Debug("headless mode")
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err = hal.RunHeadless(ctx, hostCfg, newApp, hcfg)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
	} else {
		err = hal.RunWindow(hostCfg, hal.WindowConfig{
			TPS:          hcfg.Hz,
			PressVoltage: cfg.Sim.PressVoltage,
			Label: func(row, col int) string {
				k := cfg.Matrix.Index(matrix.Coordinate{Row: row, Column: col})
				if kb != nil && !kb.Layout().Exists(k) {
					return "--"
				}
				return k.String()
			},
			Held: func(row, col int) bool {
				return kb != nil && kb.Held(kb.Layout().Index(row, col))
			},
		}, newApp)
	}

	if aw != nil {
		_ = aw.Close()
		if n := aw.Dropped(); n > 0 {
			logger.Warnf("%d records dropped by a slow consumer", n)
		}
	}
	if kb != nil {
		logger.Infof("%d scans, %d report errors", kb.Cycles(), kb.ReportErrors())
	}
	if err != nil {
		logger.Error("run failed", err)
		os.Exit(1)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
