package internal

import (
	"context"
	"errors"
	"fmt"
	"journald/internal/controllers"
	"journald/internal/providers"
	"journald/internal/schedule/interfaces"
	"journald/internal/structures"
	"net/http"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type App struct {
	WebServer *http.Server
	scheduler interfaces.SchedulerInterface
	logger    providers.Logger
	conf      *structures.Config
}

func NewApp(router providers.RouterProviderInterface, healthController *controllers.HealthController, scheduler interfaces.SchedulerInterface, conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) *App {
	if conf.Metrics.Enabled {
		router.Get("/metrics", promhttp.Handler())
	}
	if conf.WebServer.StaticDir != "" {
		router.NotFound(spaHandler(conf.WebServer.StaticDir))
	} else {
		router.Get("/", http.HandlerFunc(healthController.Root))
	}

	handler := providers.MetricsMiddleware(metrics, router.Handler())
	handler = providers.AccessLog(logger)(handler)
	handler = providers.CORS(handler)
	handler = providers.Recovery(logger)(handler)
	handler = providers.RequestID(handler)

	return &App{
		WebServer: &http.Server{
			Addr:              conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       time.Minute,
			// manual digest runs pause between users
			WriteTimeout: 10 * time.Minute,
			IdleTimeout:  60 * time.Second,
		},
		scheduler: scheduler,
		logger:    logger,
		conf:      conf,
	}
}

// Run serves until SIGINT/SIGTERM or a listener failure, then stops the
// scheduler, drains connections and saves the local user store.
func (a *App) Run() error {
	a.logger.Infof(providers.TypeApp, "Starting %s", a.conf.AppName)
	if err := a.scheduler.Restore(); err != nil {
		a.logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}
	if err := a.scheduler.Init(); err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", a.WebServer.Addr)
		if err := a.WebServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case <-stop:
		a.logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		runErr = fmt.Errorf("server error: %w", err)
	}

	a.scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.WebServer.Shutdown(ctx); err != nil {
		runErr = errors.Join(runErr, err)
	}
	if err := a.scheduler.Persist(); err != nil {
		runErr = errors.Join(runErr, err)
	}
	if runErr == nil {
		a.logger.Infof(providers.TypeApp, "gracefully stopped")
	}
	return runErr
}

// spaHandler serves files from dir and answers unknown GET paths with
// index.html so client-side routes survive a reload.
func spaHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Not Found"}`))
			return
		}
		name := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		if info, err := os.Stat(name); err != nil || info.IsDir() {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		files.ServeHTTP(w, r)
	})
}
