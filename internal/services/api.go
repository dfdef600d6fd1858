package services

import (
	"context"
	"fmt"

	"miimaker/config"
	"miimaker/internal/maker"
	"miimaker/internal/preview"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Api struct {
	server   *fiber.App
	gen      maker.Generator
	sessions *Registry
	previews *preview.Store
	hub      *Hub
	// ctx outlives single requests; generation runs under it.
	ctx context.Context

	port           string
	allowedOrigins string
	upload         config.UploadConfig
	menu           config.MenuConfig
}

func NewApi(ctx context.Context, gen maker.Generator, sessions *Registry, config config.Config) *Api {
	if config.Api.AllowedOrigins == "" {
		config.Api.AllowedOrigins = "*"
	}
	if ctx == nil {
		ctx = context.Background()
	}

	return &Api{
		server: fiber.New(fiber.Config{
			BodyLimit:             config.Api.BodyLimit,
			// Multipart bodies past BodyLimit are streamed to the handler,
			// which reads at most one byte beyond the upload cap.
			StreamRequestBody:     true,
			DisableStartupMessage: true,
		}),
		gen:            gen,
		sessions:       sessions,
		previews:       preview.NewStore(),
		hub:            NewHub(),
		ctx:            ctx,
		port:           config.Api.Port,
		allowedOrigins: config.Api.AllowedOrigins,
		upload:         config.Upload,
		menu:           config.Menu,
	}
}

func (a *Api) App() *fiber.App {
	return a.server
}

// Setup installs middleware and routes. Start calls it; tests call it
// directly and drive the app with fiber's Test helper.
func (a *Api) Setup() {
	allowCredentials := a.allowedOrigins != "*"

	a.server.Use(RequestLogger())
	a.server.Use(cors.New(cors.Config{
		AllowOrigins:     a.allowedOrigins,
		AllowCredentials: allowCredentials,
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Content-Type,Authorization,Accept,Origin",
	}))

	a.addRoutes()
}

func (a *Api) Start() error {
	a.Setup()

	log.Info("api listening", "port", a.port)
	return a.server.Listen(fmt.Sprint(":", a.port))
}

func (a *Api) Shutdown() error {
	a.hub.Shutdown()
	return a.server.Shutdown()
}

func (a *Api) addRoutes() {
	a.server.Add("GET", "/health", a.Health())
	a.server.Add("GET", "/api/menu", a.Menu())

	a.server.Add("POST", "/api/sessions", a.CreateSession())
	a.server.Add("GET", "/api/sessions/:id", a.GetSession())
	a.server.Add("DELETE", "/api/sessions/:id", a.DeleteSession())
	a.server.Add("POST", "/api/sessions/:id/image", a.UploadImage())
	a.server.Add("POST", "/api/sessions/:id/drag", a.Drag())
	a.server.Add("POST", "/api/sessions/:id/generate", a.Generate())
	a.server.Add("POST", "/api/sessions/:id/reset", a.Reset())
	a.server.Add("GET", "/api/sessions/:id/download", a.Download())
	a.server.Add("GET", "/api/previews/:handle", a.Preview())

	// websocket connection
	a.server.Use("/ws", a.WsUpgrade())
	a.server.Get("/ws/:id", a.Notifications())

	a.server.Use("/", a.Static())
}
