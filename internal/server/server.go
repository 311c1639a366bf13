// Package server runs the planner's fasthttp server inside an fx lifecycle.
package server

import (
	"context"
	"fmt"
	"net"

	"github.com/valyala/fasthttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"publisher-planner/internal/config"
	"publisher-planner/internal/handler"
	"publisher-planner/internal/metrics"
	"publisher-planner/internal/store"
)

var Module = fx.Module("http.server",
	fx.Provide(New),
	fx.Invoke(Register),
)

// New builds the server. Requests to the metrics path are answered from m;
// everything else goes through the planner handler.
func New(cfg config.Config, h *handler.Handler, m *metrics.Metrics, log *zap.Logger) *fasthttp.Server {
	app := m.Middleware(h.Handle)
	scrape := m.Handler()
	metricsPath := cfg.Server.MetricsPath

	return &fasthttp.Server{
		Name: cfg.App.Name,
		Handler: handler.RequestLog(func(rc *fasthttp.RequestCtx) {
			if metricsPath != "" && string(rc.Path()) == metricsPath {
				scrape(rc)
				return
			}
			app(rc)
		}, log),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Logger:       zap.NewStdLog(log.Named("fasthttp")),
	}
}

// Register binds srv to the configured address on start and drains it on
// stop, waiting for in-flight scenario hydrations before returning.
func Register(lc fx.Lifecycle, srv *fasthttp.Server, st *store.Store, cfg config.Config, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", cfg.Server.Addr)
			if err != nil {
				return fmt.Errorf("server: listen %s: %w", cfg.Server.Addr, err)
			}
			log.Info("publisher planner listening",
				zap.String("addr", ln.Addr().String()),
				zap.String("api", cfg.API.BaseURL),
				zap.Bool("auth_enforced", cfg.Auth.Enforce),
			)
			go func() {
				if err := srv.Serve(ln); err != nil {
					log.Error("server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			err := srv.ShutdownWithContext(ctx)
			st.Wait()
			_ = log.Sync()
			return err
		},
	})
}
