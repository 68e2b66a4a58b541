package main

import (
	"nexus_chat_service/internal/chat/router"

	"github.com/gofiber/fiber/v2"
)

// 此程式只用於 init swagger, handler 不會被呼叫
// swag init -g internal/chat/router/router.go -o ./cmd/chat_service/docs --parseDependency
func main() {
	app := fiber.New()

	router.RegisterRoutes(app, nil, nil)
}
