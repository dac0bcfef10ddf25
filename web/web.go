// Package web provides the eco-ui web server: routing, middleware wiring
// and background job scheduling.
package web

import (
	"context"
	"io"
	"net"
	"net/http"
	"strconv"

	"eco-ui/config"
	"eco-ui/logger"
	"eco-ui/util/common"
	"eco-ui/web/controller"
	"eco-ui/web/job"
	"eco-ui/web/middleware"
	"eco-ui/web/service"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Server wires the services, controllers and scheduled jobs of the panel
// around an injected database handle.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	db *gorm.DB

	userService       *service.UserService
	ecoService        *service.EcoService
	historyService    *service.HistoryService
	attachmentService *service.AttachmentService
	reportService     *service.ReportService

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a server around the given database handle.
func NewServer(db *gorm.DB) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	userService := service.NewUserService(db)
	ecoService := service.NewEcoService(db, userService)

	return &Server{
		db:                db,
		userService:       userService,
		ecoService:        ecoService,
		historyService:    service.NewHistoryService(db),
		attachmentService: service.NewAttachmentService(db, config.GetAttachmentFolderPath(), userService),
		reportService:     service.NewReportService(ecoService),
		ctx:               ctx,
		cancel:            cancel,
	}
}

func (s *Server) initRouter() *gin.Engine {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	engine.GET("/healthz", func(c *gin.Context) {
		if !s.userService.CheckHealth() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "version": config.GetVersion()})
	})

	public := engine.Group("")
	authed := engine.Group("")
	authed.Use(middleware.TokenAuth(s.userService))

	controller.NewAuthController(public, authed, s.userService)
	controller.NewEcoController(authed, s.ecoService, s.reportService)
	controller.NewAttachmentController(authed, s.attachmentService, config.GetMaxUploadSize())
	controller.NewUserAdminController(authed, s.userService)

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	return engine
}

func (s *Server) startTask() {
	s.cron.AddJob("@hourly", job.NewCheckAttachmentJob(s.attachmentService))
	s.cron.AddJob("@every 10m", job.NewCheckpointJob(s.db))
}

// Start initializes and starts the web server and its scheduled jobs.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	s.cron = cron.New()
	s.cron.Start()

	engine := s.initRouter()

	listenAddr := net.JoinHostPort(config.GetListen(), strconv.Itoa(config.GetPort()))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return common.NewErrorf("listen on %s failed: %v", listenAddr, err)
	}
	logger.Info("web server running on", listener.Addr())

	s.listener = listener
	s.httpServer = &http.Server{Handler: engine}

	go func() {
		defer common.Recover("web server")
		_ = s.httpServer.Serve(listener)
	}()

	s.startTask()

	return nil
}

// Stop gracefully shuts down the web server and its jobs.
func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
	var err1, err2 error
	if s.httpServer != nil {
		err1 = s.httpServer.Shutdown(s.ctx)
	}
	if s.listener != nil {
		err2 = s.listener.Close()
	}
	return common.Combine(err1, err2)
}
