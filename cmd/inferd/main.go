package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"modelops/internal/config"
	"modelops/internal/handler"
	"modelops/internal/httpapi"
	"modelops/internal/runtime"
)

func main() {
	// Flags with environment variable defaults
	defaultAddr := ":8080"
	if v := os.Getenv("INFERD_ADDR"); v != "" {
		defaultAddr = v
	}
	// The hosting runtime supplies the registered model location through
	// AZUREML_MODEL_DIR.
	defaultModelDir := os.Getenv("AZUREML_MODEL_DIR")

	addr := flag.String("addr", defaultAddr, "HTTP listen address, e.g. :8080")
	modelDir := flag.String("model-dir", defaultModelDir, "Directory holding the registered model files")
	cfgPath := flag.String("config", "", "Optional config file (yaml/json/toml)")
	logLevel := flag.String("log-level", "info", "Log level: debug|info|warn|error")
	maxBody := flag.Int64("max-body-bytes", 0, "Maximum request body size in bytes (0=default 1MiB)")
	ctxSize := flag.Int("ctx-size", 4096, "Model context size in tokens")
	threads := flag.Int("threads", 4, "Threads used for generation")
	flag.Parse()

	var cfg config.ServeConfig
	if *cfgPath != "" {
		if err := config.Load(*cfgPath, &cfg); err != nil {
			fatalf("failed to load config: %v", err)
		}
	}
	// File values fill flags left at their defaults.
	if *addr == defaultAddr && cfg.Addr != "" {
		*addr = cfg.Addr
	}
	if *modelDir == defaultModelDir && cfg.ModelDir != "" {
		*modelDir = cfg.ModelDir
	}
	if cfg.LogLevel != "" && *logLevel == "info" {
		*logLevel = cfg.LogLevel
	}
	if cfg.MaxBodyBytes > 0 && *maxBody == 0 {
		*maxBody = cfg.MaxBodyBytes
	}
	if cfg.CtxSize > 0 && *ctxSize == 4096 {
		*ctxSize = cfg.CtxSize
	}
	if cfg.Threads > 0 && *threads == 4 {
		*threads = cfg.Threads
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if lvl, err := zerolog.ParseLevel(*logLevel); err == nil {
		logger = logger.Level(lvl)
	}
	httpapi.SetLogger(logger)
	httpapi.SetMaxBodyBytes(*maxBody)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSAllowedOrigins, cfg.CORSAllowedMethods, cfg.CORSAllowedHeaders)

	if *modelDir == "" {
		fatalf("model directory not set (use -model-dir or AZUREML_MODEL_DIR)")
	}

	// Load model and tokenizer once; a failed init aborts startup and the
	// endpoint never starts serving.
	rt := runtime.NewLlamaRuntime(*ctxSize, *threads)
	h := handler.New(rt, logger)
	if err := h.Init(*modelDir); err != nil {
		fatalf("initialization failed: %v", err)
	}
	defer func() { _ = h.Close() }()

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	mux := httpapi.NewMux(h)
	srv := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		logger.Info().Str("addr", *addr).Str("model_dir", *modelDir).Msg("inferd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
}

func fatalf(format string, args ...any) {
	l := zerolog.New(os.Stderr).With().Timestamp().Logger()
	l.Fatal().Msgf(format, args...)
}
