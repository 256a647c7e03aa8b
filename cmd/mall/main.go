// cmd/mall/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"storefront/internal/adapters/in/http/middleware"
	appcfg "storefront/internal/infra/config"
	mallDI "storefront/internal/platform/di/mall"
	shared "storefront/internal/platform/di/shared"
	"storefront/internal/platform/logger"
)

// atomicHandler allows swapping the underlying handler at runtime safely.
type atomicHandler struct {
	v atomic.Value // stores http.Handler
}

func newAtomicHandler(initial http.Handler) *atomicHandler {
	ah := &atomicHandler{}
	if initial == nil {
		initial = http.NotFoundHandler()
	}
	ah.v.Store(initial)
	return ah
}

func (h *atomicHandler) Store(next http.Handler) {
	if next == nil {
		return
	}
	h.v.Store(next)
}

func (h *atomicHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.v.Load().(http.Handler).ServeHTTP(w, r)
}

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	mode := "dev"
	if cfg.IsProd() {
		mode = "prod"
	}
	log, err := logger.New(mode, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	boot := log.Component("boot")

	// Start listening ASAP with a healthz-only mux (Cloud Run startup check).
	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	switcher := newAtomicHandler(middleware.CORS(cfg.AllowedOrigins())(healthMux))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      switcher,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var infraHolder atomic.Pointer[shared.Infra]

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		boot.Info("listening", "port", cfg.Port, "env", cfg.AppEnv, "store", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	// Heavy DI init in background; then swap to the full router.
	go func() {
		initCtx, cancel := context.WithTimeout(rootCtx, 2*time.Minute)
		defer cancel()

		infra, err := shared.NewInfra(initCtx, cfg, log)
		if err != nil {
			boot.Error("shared infra init failed, serving /healthz only", "err", err)
			return
		}
		cont, err := mallDI.NewContainer(initCtx, infra, log)
		if err != nil {
			_ = infra.Close()
			boot.Error("mall di init failed, serving /healthz only", "err", err)
			return
		}
		if rootCtx.Err() != nil {
			_ = infra.Close()
			return
		}
		infraHolder.Store(infra)

		switcher.Store(mallDI.Handler(cont))
		boot.Info("handler switched to mall router")
	}()

	select {
	case <-rootCtx.Done():
		boot.Info("shutting down")
	case err := <-serveErr:
		boot.Error("server error", "err", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		boot.Error("server shutdown error", "err", err)
	}
	if infra := infraHolder.Load(); infra != nil {
		if err := infra.Close(); err != nil {
			boot.Warn("infra close error", "err", err)
		}
	}
	boot.Info("server stopped")
}
