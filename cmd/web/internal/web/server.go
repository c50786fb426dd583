package web

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"greenroom.tools/console/cmd/web/auth"
	"greenroom.tools/console/cmd/web/handlers/content"
	"greenroom.tools/console/cmd/web/templates"
	"greenroom.tools/console/internal/bulk"
	"greenroom.tools/console/internal/config"
	"greenroom.tools/console/internal/db"
	"greenroom.tools/console/internal/dispatch"
	"greenroom.tools/console/internal/longform"
	"greenroom.tools/console/pkg/captions"
	"greenroom.tools/console/pkg/discord"
	"greenroom.tools/console/pkg/drive"
	"greenroom.tools/console/pkg/n8n"

	"greenroom.tools/console/cmd/web/handlers/api/bulk_api"
	"greenroom.tools/console/cmd/web/handlers/api/caption_api"
	"greenroom.tools/console/cmd/web/handlers/api/client_api"
	"greenroom.tools/console/cmd/web/handlers/api/drive_api"
	"greenroom.tools/console/cmd/web/handlers/api/longform_api"
	"greenroom.tools/console/cmd/web/handlers/api/upload_api"
	"greenroom.tools/console/cmd/web/handlers/api/webhook_api"

	staticpkg "greenroom.tools/console/cmd/web/internal/web/utils/static"
)

type Webserver struct {
	*echo.Echo
	baseCtx        context.Context
	sessionManager *auth.SessionManager
	store          *db.Store
	staticCache    *staticpkg.StaticCache

	lock        *longform.Lock
	sequencer   *longform.Sequencer
	rowDispatch *dispatch.RowDispatcher
	bulkJobs    *bulk.Registry
	n8nStore    *n8n.ConfigStore
	n8nClient   *n8n.Client
	discord     *discord.Client
	captionGen  *captions.Generator
	drive       *drive.Client
}

// NewWebserver wires the console's domain services and HTTP surface.
// ctx is the process context; background runs (sequencer, bulk jobs) are
// started against it so they survive the requests that trigger them.
func NewWebserver(ctx context.Context, cfg *config.Config, store *db.Store, sessionManager *auth.SessionManager, driveClient *drive.Client) (*Webserver, error) {
	e := echo.New()

	staticCache, err := staticpkg.NewStaticCache()
	if err != nil {
		return nil, err
	}

	renderer, err := templates.New()
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer

	n8nStore := n8n.NewConfigStore(cfg.N8NConfigPath)
	n8nClient := n8n.NewClient(n8nStore)
	discordClient := discord.NewClient(cfg.DiscordBotToken)

	lock := longform.NewLock()
	dispatcher := &dispatch.RowDispatcher{Media: discordClient, N8N: n8nClient}
	sequencer := longform.NewSequencer(lock, dispatcher, &dispatch.StoreSaver{Store: store})

	webserver := &Webserver{
		Echo:           e,
		baseCtx:        ctx,
		sessionManager: sessionManager,
		store:          store,
		staticCache:    staticCache,
		lock:           lock,
		sequencer:      sequencer,
		rowDispatch:    dispatcher,
		bulkJobs:       bulk.NewRegistry(discordClient, n8nClient),
		n8nStore:       n8nStore,
		n8nClient:      n8nClient,
		discord:        discordClient,
		captionGen:     captions.NewGenerator(cfg.GeminiAPIKey),
		drive:          driveClient,
	}

	webserver.registerRoutes()
	webserver.setupMiddleware()

	return webserver, nil
}

func (s *Webserver) setupMiddleware() {
	s.HideBanner = true
	s.HidePort = true
	s.Use(middleware.BodyLimit("2M"))
	s.Use(middleware.Recover())
	s.Use(middleware.RequestID())
	s.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))
	s.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			// Pollers fire every few seconds and would drown the log.
			switch c.Path() {
			case "/api/longform/job-status",
				"/api/longform/generate/status",
				"/api/discord-bulk-job-status/:id":
				return true
			default:
				return false
			}
		},
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  false,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				fields = append(fields, "error", v.Error)
			}
			slog.Info("request", fields...)
			return nil
		},
	}))
}

func (s *Webserver) registerRoutes() {
	apiGroup := s.Group("/api")

	// Long-form projects and rows
	apiGroup.GET("/longform/projects", longform_api.HandleProjectsIndex(s.store))
	apiGroup.POST("/longform/projects", longform_api.HandleProjectCreate(s.store))
	apiGroup.DELETE("/longform/projects/:id", longform_api.HandleProjectDelete(s.store))
	apiGroup.GET("/longform/projects/:id/rows", longform_api.HandleRowsIndex(s.store))
	apiGroup.PUT("/longform/projects/:id/rows", longform_api.HandleRowsUpdate(s.store))

	// Long-form dispatch and runs
	apiGroup.POST("/longform/dispatch", longform_api.HandleDispatch(s.rowDispatch))
	apiGroup.POST("/longform/start-job", longform_api.HandleJobStart(s.lock))
	apiGroup.GET("/longform/job-status", longform_api.HandleJobStatus(s.lock))
	apiGroup.POST("/longform/compile", longform_api.HandleCompile(s.store, s.n8nClient, s.lock))
	apiGroup.POST("/longform/generate", longform_api.HandleGenerate(s.store, s.sequencer, s.baseCtx))
	apiGroup.GET("/longform/generate/status", longform_api.HandleGenerateStatus(s.sequencer))

	// Clients, channels, quota
	apiGroup.GET("/clients", client_api.HandleClientsIndex(s.store))
	apiGroup.POST("/clients", client_api.HandleClientCreate(s.store))
	apiGroup.DELETE("/clients/:id", client_api.HandleClientDelete(s.store))
	apiGroup.PUT("/clients/:id/tokens", client_api.HandleClientTokensUpdate(s.store))
	apiGroup.POST("/clients/select", client_api.HandleClientSelect(s.store, s.sessionManager))
	apiGroup.GET("/channels", client_api.HandleChannelsIndex(s.store, s.sessionManager, client_api.YouTubeChannelSource))
	apiGroup.POST("/channels/select", client_api.HandleChannelSelect(s.sessionManager))
	apiGroup.GET("/quota", client_api.HandleQuotaStatus(s.store, s.sessionManager))

	// Drive links
	apiGroup.POST("/validate-link", drive_api.HandleValidateLink(s.drive))
	apiGroup.POST("/convert-drive-link", drive_api.HandleConvertLink())

	// Captions
	apiGroup.POST("/generate-content", caption_api.HandleGenerateContent(s.captionGen))

	// Uploads
	apiGroup.POST("/upload/youtube", upload_api.HandleYouTubeUpload(s.store, s.sessionManager))
	apiGroup.POST("/upload/instagram", upload_api.HandleInstagramReel(s.store, s.sessionManager))

	// n8n webhooks
	apiGroup.GET("/n8n/config", webhook_api.HandleConfigGet(s.n8nStore))
	apiGroup.POST("/n8n/config", webhook_api.HandleConfigUpdate(s.n8nStore))
	s.POST("/submitjob", webhook_api.HandleSubmitJob(s.discord, s.n8nClient))
	s.POST("/nocapjob", webhook_api.HandleNocapJob(s.discord, s.n8nClient))

	// Discord bulk jobs
	s.POST("/discord-bulk-job-wizard", bulk_api.HandleWizardCreate(s.bulkJobs, s.baseCtx))
	apiGroup.GET("/discord-bulk-job-status/:id", bulk_api.HandleStatus(s.bulkJobs))
	apiGroup.POST("/discord-bulk-job-cancel/:id", bulk_api.HandleCancel(s.bulkJobs))

	// Health check
	s.GET("/healthz", func(c echo.Context) error {
		return c.String(200, "ok")
	})

	// Static file serving
	s.GET("/static/*", s.staticCache.ServeStaticFile("/static/"))

	// Content routes
	s.GET("/", content.HandleHomePage(s.store, s.sessionManager))
	s.GET("/longform", content.HandleLongformPage(s.store, s.sessionManager))
	s.GET("/n8n", content.HandleN8NPage(s.n8nStore, s.sessionManager))
	s.GET("/discord-bulk", content.HandleBulkPage(s.sessionManager))
}
