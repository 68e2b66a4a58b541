package router

import (
	"nexus_chat_service/internal/chat/app"
	"nexus_chat_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes 注册 chat service 路由
// @title Nexus Chat Service API
// @version 1.0
// @description Team chat persistence and realtime change feed
// @host localhost:8082
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func RegisterRoutes(r *fiber.App, chatHTTP *app.ChatHTTPHandler, realtime *app.RealtimeHandler) {
	r.Get("/swagger/*", swagger.HandlerDefault)
	r.Get("/", app.ConnectCheck)
	r.Post("/debug", app.DebugLogFlag)

	auth := middlewares.JWTMiddleware()

	r.Post("/messages", auth, chatHTTP.SendMessage)
	r.Get("/messages", auth, chatHTTP.ListMessages)
	r.Patch("/messages/:id", auth, chatHTTP.EditMessage)
	r.Delete("/messages/:id", auth, chatHTTP.DeleteMessage)
	r.Post("/shared-items", auth, chatHTTP.ShareItems)
	r.Get("/profiles/:id", auth, chatHTTP.GetProfile)
	r.Get("/notifications", auth, chatHTTP.ListNotifications)
	r.Post("/attachments", auth, chatHTTP.UploadAttachment)

	r.Get("/realtime", requireUpgrade, auth, websocket.New(realtime.HandleConnection))
}

func requireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}
