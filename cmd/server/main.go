package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"github.com/eBu1171/winona-chat/infrastructure/ws"
	"github.com/eBu1171/winona-chat/internal"
	"github.com/eBu1171/winona-chat/observability"
	"github.com/eBu1171/winona-chat/projection"
	"github.com/eBu1171/winona-chat/runtime"
	"github.com/eBu1171/winona-chat/runtime/workers"
	"github.com/eBu1171/winona-chat/services"
	"github.com/eBu1171/winona-chat/sink"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// This pattern is preferred over calling os.Exit or panic directly because:
// 1. It ensures all 'defer' statements are executed before the program exits.
// 2. It improves testability by decoupling the initialization logic from the main entry point.
// 3. It provides a structured way to handle graceful shutdowns for the HTTP server and background workers.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	complement, err := config.Complement()
	if err != nil {
		return err
	}

	// 2. Engine, supervision & observability
	supervisor := workers.NewSupervisor(log)
	registry := runtime.NewRegistry()
	engine := runtime.NewEngine(log, supervisor, registry, complement, config.BufferSize)
	monitoring := observability.NewMonitor(log, engine.Stats)
	timeline := projection.NewTimeline()
	engine.AddSinks(sink.NewMetricsSink(monitoring), timeline)
	supervisor.Add(workers.NewReporterWorker(log, monitoring, config.MetricInterval))

	// 3. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Start the Engine
	engine.Start(ctx)

	// 5. HTTP / WebSocket surface
	chatService := services.NewChatService(engine)
	server := ws.NewServer(log, chatService, monitoring, timeline, config.ConnectionBufferSize)

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{Addr: address, Handler: server.Routes()}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting server", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	// 6. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 7. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	engine.Stop()
	log.Info("Program stopped cleanly")

	return nil
}
