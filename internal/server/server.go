package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/alexasparks/6-traits-annotations/internal/api/v1"
	"github.com/alexasparks/6-traits-annotations/internal/config"
	"github.com/alexasparks/6-traits-annotations/internal/logging"
	"github.com/alexasparks/6-traits-annotations/internal/rater"
	"github.com/alexasparks/6-traits-annotations/internal/service/annotate"
	"github.com/alexasparks/6-traits-annotations/internal/service/review"
	"github.com/alexasparks/6-traits-annotations/internal/sheets"
	"github.com/alexasparks/6-traits-annotations/internal/store"
)

const shutdownTimeout = 5 * time.Second

// Server HTTP服务器
type Server struct {
	router *gin.Engine
	store  *store.Store
	logger *zap.Logger
	v1     *v1.Handler
}

// NewServer 按配置创建表格后端与服务器
func NewServer(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*Server, error) {
	backend, err := NewBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return New(cfg, backend, logger)
}

// New 使用给定后端创建服务器
func New(cfg *config.AppConfig, backend sheets.Backend, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// 提交日志（SQLite，可关闭）
	var sqliteStore *store.Store
	var submissions v1.SubmissionLister
	var submissionLog annotate.SubmissionLog
	if cfg.Data.SubmissionLog {
		dataDir, err := config.EnsureDataDir(cfg)
		if err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
		sqliteStore, err = store.New(filepath.Join(dataDir, "annotations.db"))
		if err != nil {
			return nil, fmt.Errorf("initialize database: %w", err)
		}
		submissions = sqliteStore
		submissionLog = sqliteStore
	}

	raters := rater.NewDirectory(cfg)
	handler := v1.NewHandler(
		review.NewService(backend, raters, logger),
		annotate.NewService(backend, raters, submissionLog, logger),
		submissions,
		logger,
	)

	s := &Server{
		router: gin.New(),
		store:  sqliteStore,
		logger: logger,
		v1:     handler,
	}
	s.setupRoutes(cfg.Server.FrontendURL)

	return s, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(frontendURL string) {
	s.router.Use(gin.Recovery(), logging.RequestID(), logging.Middleware(s.logger))

	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, "+logging.RequestIDHeader)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	api := s.router.Group("/api")
	{
		s.v1.RegisterRoutes(api)
	}

	// 标注界面不由本服务提供，非 API 路径重定向到前端
	frontendURL = strings.TrimRight(frontendURL, "/")
	s.router.NoRoute(func(c *gin.Context) {
		if frontendURL == "" || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.Redirect(http.StatusTemporaryRedirect, frontendURL+c.Request.URL.RequestURI())
	})
}

// Handler 返回 HTTP 处理器（用于测试）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务器，ctx 结束时优雅关闭
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close 关闭数据库
func (s *Server) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// GetStore 获取存储（用于测试）
func (s *Server) GetStore() *store.Store {
	return s.store
}
