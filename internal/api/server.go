package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"claude-dashboard/internal/config"
	"claude-dashboard/internal/database"
	"claude-dashboard/internal/logger"
	"claude-dashboard/internal/pool"

	"github.com/gin-gonic/gin"
)

// Server 表示管理面板服务器
type Server struct {
	cfg     *config.Config
	db      *database.DB
	pool    *pool.Pool
	logBuf  *logger.Buffer
	version string

	httpServer *http.Server
}

// NewServer 创建服务器实例
func NewServer(cfg *config.Config, db *database.DB, p *pool.Pool, logBuf *logger.Buffer, version string) *Server {
	return &Server{
		cfg:     cfg,
		db:      db,
		pool:    p,
		logBuf:  logBuf,
		version: version,
	}
}

// Run 启动 HTTP 服务器，阻塞直到 ctx 取消后完成优雅关闭
func (s *Server) Run(ctx context.Context) error {
	if !s.cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogMiddleware())

	s.setupRoutes(r)

	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("管理面板服务器启动: http://%s", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("正在关闭服务器...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("关闭服务器失败: %w", err)
	}
	logger.Info("服务器已关闭")
	return nil
}

// requestLogMiddleware 记录每个请求的概要日志
func (s *Server) requestLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.LogRequest(c.Request.Method, c.Request.URL.Path, c.ClientIP(), c.Writer.Status(), time.Since(start))
	}
}

// requireAPIKey API 密钥鉴权中间件
// 未配置密钥时放行（管理页会展示安全警告横幅）
func (s *Server) requireAPIKey(c *gin.Context) {
	if s.cfg.APIKey == "" {
		c.Next()
		return
	}

	auth := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && auth[:len(prefix)] == prefix && auth[len(prefix):] == s.cfg.APIKey {
		c.Next()
		return
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "无效的 API 密钥"})
}
