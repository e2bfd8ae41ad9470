package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"optimagrowth-licensing/pkg/config"
	"optimagrowth-licensing/pkg/errutil"
	"optimagrowth-licensing/pkg/health"
	"optimagrowth-licensing/pkg/middleware"
	"optimagrowth-licensing/pkg/problem"

	"github.com/fsnotify/fsnotify"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(
		ProvideEngine,
		NewHTTPServer,
	),
	fx.Invoke(Run),
)

type EngineParams struct {
	fx.In
	Config  *config.Config
	Builder *problem.Builder
	Health  health.HealthService
}

// ProvideEngine builds the gin engine with the problem-rendering pipeline and
// the health endpoints. Route registration for the domain services happens in
// their own fx modules.
func ProvideEngine(p EngineParams) *gin.Engine {
	if p.Config.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.Problem(p.Builder),
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			_ = c.Error(errutil.Internal(fmt.Sprintf("panic: %v", recovered)))
			c.Abort()
		}),
	)

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		_ = c.Error(errutil.MethodNotAllowed(
			fmt.Sprintf("method %s not allowed for %s", c.Request.Method, c.Request.URL.Path)))
	})
	r.NoRoute(func(c *gin.Context) {
		_ = c.Error(errutil.NotFound(fmt.Sprintf("no route for %s", c.Request.URL.Path)))
	})

	r.GET("/healthz/live", p.Health.Liveness)
	r.GET("/healthz/ready", p.Health.Readiness)

	return r
}

type Server struct {
	server   *http.Server
	tlsMutex sync.RWMutex
	cert     *tls.Certificate
	certPath string
	keyPath  string
}

type Params struct {
	fx.In
	Config *config.Config
	Engine *gin.Engine
}

func NewHTTPServer(p Params) *Server {
	cfg := p.Config
	srv := &Server{
		server: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      p.Engine,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
		certPath: cfg.TLS.CertPath,
		keyPath:  cfg.TLS.KeyPath,
	}

	if cfg.TLS.Enable {
		srv.reloadCert()
		go srv.watchTLSFiles()

		srv.server.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
			GetCertificate: func(info *tls.ClientHelloInfo) (*tls.Certificate, error) {
				srv.tlsMutex.RLock()
				defer srv.tlsMutex.RUnlock()

				if srv.cert == nil {
					return nil, fmt.Errorf("no TLS cert loaded")
				}

				return srv.cert, nil
			},
		}
	}

	return srv
}

func (s *Server) reloadCert() {
	cert, err := tls.LoadX509KeyPair(s.certPath, s.keyPath)
	if err != nil {
		zap.L().Error("failed to reload TLS cert", zap.Error(err))
		return
	}
	s.tlsMutex.Lock()
	s.cert = &cert
	s.tlsMutex.Unlock()
	zap.L().Info("TLS certificate reloaded")
}

func (s *Server) watchTLSFiles() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		zap.L().Error("failed to create fsnotify watcher", zap.Error(err))
		return
	}
	defer watcher.Close()

	_ = watcher.Add(s.certPath)
	_ = watcher.Add(s.keyPath)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				s.reloadCert()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			zap.L().Error("watcher error", zap.Error(err))
		}
	}
}

type RunParams struct {
	fx.In
	Lifecycle fx.Lifecycle
	Config    *config.Config
	Server    *Server
}

func Run(p RunParams) {
	srv := p.Server
	cfg := p.Config

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				zap.L().Info("Starting HTTP server...",
					zap.String("addr", cfg.Server.Addr),
					zap.Bool("tls_enabled", cfg.TLS.Enable),
				)
				var err error
				if cfg.TLS.Enable {
					err = srv.server.ListenAndServeTLS("", "")
				} else {
					err = srv.server.ListenAndServe()
				}
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					zap.L().Fatal("HTTP server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			zap.L().Info("Shutting down HTTP server...", zap.String("addr", cfg.Server.Addr))
			return srv.server.Shutdown(ctx)
		},
	})
}
