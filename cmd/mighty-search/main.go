package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/nan-gogh/Mighty-Pokemon-Searchstring-Generator/internal/config"
	"github.com/nan-gogh/Mighty-Pokemon-Searchstring-Generator/internal/engine"
	"github.com/nan-gogh/Mighty-Pokemon-Searchstring-Generator/internal/feed"
	"github.com/nan-gogh/Mighty-Pokemon-Searchstring-Generator/internal/locale"
	"github.com/nan-gogh/Mighty-Pokemon-Searchstring-Generator/internal/notify"
	"github.com/nan-gogh/Mighty-Pokemon-Searchstring-Generator/internal/scheduler"
	"github.com/nan-gogh/Mighty-Pokemon-Searchstring-Generator/internal/server"
)

// main delegates to runMain so deferred cleanup executes before the
// process terminates; os.Exit() does not run defers.
func main() {
	os.Exit(runMain())
}

// runMain manages the application lifecycle, argument parsing, and exit codes.
func runMain() int {
	configPath := flag.String(config.FlagConfig, "", config.FlagDescConfig)
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := flag.Bool(config.FlagDebug, false, config.FlagDescDebug)
	once := flag.Bool(config.FlagOnce, false, config.FlagDescOnce)
	flag.Parse()

	if *showVersion {
		printVersion()
		return config.ExitCodeSuccess
	}

	setupLogging(*debugMode)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	if err := run(ctx, *configPath, *once, *debugMode); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// run wires the dependencies and blocks until the context is cancelled.
func run(ctx context.Context, configPath string, once, debugMode bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// The -debug flag wins over the configured level so startup issues
	// stay visible while debugging a broken config.
	if !debugMode {
		applyLogLevel(cfg.Logging.Level)
	}

	slog.Info(config.MsgConfigLoaded,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyListen, cfg.Listen,
		config.LogKeyBoundary, cfg.RefreshBoundary,
		config.LogKeyLang, cfg.Language,
		config.LogKeyMargin, cfg.SafetyMargin.String(),
	)

	translator, err := locale.New()
	if err != nil {
		return err
	}

	windows, err := engine.WindowsFromConfig(cfg.Events)
	if err != nil {
		return err
	}

	clock := engine.RealClock{}
	gen := &engine.Generator{
		Clock:   clock,
		Windows: windows,
		Keyword: translator.Keyword,
	}

	if once {
		fmt.Println(gen.Build(cfg.Language).Combined)
		return nil
	}

	srv := server.NewSearchServer(cfg.Listen, cfg.Language)

	var notifier *notify.Client
	if cfg.Telegram.Enabled {
		notifier, err = notify.NewClient(
			cfg.Telegram.BotToken,
			cfg.Telegram.ChatID,
			cfg.Telegram.MaxRetries,
			cfg.Telegram.RetryDelayBase,
		)
		if err != nil {
			return err
		}
	} else {
		slog.Debug(config.MsgNotifyDisabled, config.LogKeyComponent, config.CompNotify)
	}

	refresh := makeRefresh(gen, translator, srv, notifier, cfg.Language)

	sched := scheduler.New(clock, cfg.RefreshBoundary, cfg.Location(), cfg.SafetyMargin, refresh)
	go sched.Run(ctx, cfg.InitialRender)

	return srv.Start(ctx)
}

// makeRefresh builds the once-per-cycle rendering callback: regenerate
// every language, swap the HTTP cache, and push the notification.
func makeRefresh(gen *engine.Generator, translator *locale.Translator, srv *server.SearchServer, notifier *notify.Client, defaultLang string) func() {
	return func() {
		start := time.Now()
		log := slog.With(config.LogKeyComponent, config.CompEngine)
		log.Info(config.MsgRefreshStart)

		results := gen.BuildAll(translator.Supported())

		ics, err := feed.Render(gen.Windows, gen.Clock.Now())
		if err != nil {
			log.Error(config.ErrICalEncode, config.LogKeyError, err)
			return
		}

		if err := srv.Update(results, ics); err != nil {
			log.Error(config.ErrAppFailed, config.LogKeyError, err)
			return
		}

		if notifier != nil {
			// Delivery retries block; keep them off the refresh path.
			go func(result engine.Result) {
				if err := notifier.Send(result); err != nil {
					slog.Error(config.ErrNotifySend,
						config.LogKeyComponent, config.CompNotify,
						config.LogKeyError, err,
					)
					return
				}
				slog.Info(config.MsgNotifySent, config.LogKeyComponent, config.CompNotify)
			}(results[defaultLang])
		}

		log.Info(config.MsgRefreshDone,
			config.LogKeyQuery, results[defaultLang].Combined,
			config.LogKeyDuration, time.Since(start).Milliseconds(),
		)
	}
}

// printVersion outputs the build information to stdout.
func printVersion() {
	fmt.Printf(config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// applyLogLevel re-installs the default logger at the configured level.
func applyLogLevel(level string) {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}

// setupLogging configures the default slog logger on stderr.
func setupLogging(debugMode bool) {
	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, opts)))
}
