package www

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/icodeforyou/spotprice-go/config"
	"github.com/icodeforyou/spotprice-go/report"
	"github.com/icodeforyou/spotprice-go/types"
)

type ReportBuilder interface {
	Build(ctx context.Context, opts report.Options) (report.Report, error)
}

type PriceHistory interface {
	GetPrices(ctx context.Context, zone types.Zone, date time.Time) ([]types.PriceSample, error)
}

type Server struct {
	logger  *slog.Logger
	config  config.AppConfigApi
	handler http.Handler
}

func NewServer(
	builder ReportBuilder,
	history PriceHistory,
	logs LogSource,
	archiveTask func(),
	config config.AppConfigApi) *Server {

	logger := slog.Default().With("module", "www")
	s := &Server{logger: logger, config: config}

	r := mux.NewRouter()
	r.Use(s.logRequest)

	api := r.PathPrefix("/api").Subrouter()
	api.Handle("/report/{zone}", NewReportHandler(
		logger.With(slog.String("handler", "report")),
		builder)).Methods(http.MethodGet)

	api.Handle("/history/{zone}", NewHistoryHandler(
		logger.With(slog.String("handler", "history")),
		history)).Methods(http.MethodGet)

	api.Handle("/log", NewLogHandler(
		logger.With(slog.String("handler", "log")),
		logs)).Methods(http.MethodGet)

	api.Handle("/tasks/archive", NewTaskHandler(archiveTask)).Methods(http.MethodPost)

	s.handler = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{logger}),
	)(handlers.CompressHandler(r))

	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http request",
			slog.String("method", r.Method),
			slog.String("url", r.URL.String()),
			slog.String("remoteAddr", r.RemoteAddr))
		next.ServeHTTP(w, r)
	})
}

// Run serves the API until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Address, s.config.Port)
	s.logger.Info("starting server...", slog.String("addr", addr))
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErrors := make(chan error, 1)
	go func() {
		srvErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-srvErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	}
}

type recoveryLogger struct {
	logger *slog.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.logger.Error("http handler panic", slog.String("panic", fmt.Sprint(v...)))
}
