package services

import (
	"time"

	"miimaker/internal/menu"
	"miimaker/types"
	"miimaker/web"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
)

func (a *Api) Health() fiber.Handler {
	return func(ctx *fiber.Ctx) error {

		return ctx.Status(fiber.StatusOK).JSON(types.HealthResponse{
			Status:    fiber.StatusOK,
			TimeStamp: time.Now().Unix(),
		})
	}
}

func (a *Api) Menu() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(types.MenuResponse{
			Channels: menu.Channels(a.menu),
		})
	}
}

// Static serves the embedded page. Unknown paths fall back to index.html so
// the page can route /miimaker itself.
func (a *Api) Static() fiber.Handler {
	return filesystem.New(filesystem.Config{
		Root:         web.FS(),
		Index:        "index.html",
		NotFoundFile: "index.html",
	})
}
