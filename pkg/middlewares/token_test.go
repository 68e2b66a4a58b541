package middlewares

import (
	"io"
	"net/http/httptest"
	"testing"

	t_token "nexus_chat_service/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(JWTMiddleware())
	app.Get("/me", func(c *fiber.Ctx) error {
		return c.SendString(UserID(c))
	})
	return app
}

func TestJWTMiddleware_Sources(t *testing.T) {
	tok, err := t_token.GenerateJWT("user-a", string(t_token.RoleMember), "test")
	require.NoError(t, err)

	cases := map[string]func() *httptestRequest{
		"query": func() *httptestRequest {
			return &httptestRequest{target: "/me?auth=" + tok}
		},
		"cookie": func() *httptestRequest {
			return &httptestRequest{target: "/me", cookie: tok}
		},
		"bearer": func() *httptestRequest {
			return &httptestRequest{target: "/me", bearer: tok}
		},
	}

	app := newApp()
	for name, build := range cases {
		t.Run(name, func(t *testing.T) {
			r := build()
			req := httptest.NewRequest("GET", r.target, nil)
			if r.cookie != "" {
				req.Header.Set("Cookie", CookieToken+"="+r.cookie)
			}
			if r.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+r.bearer)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, "user-a", string(body))
		})
	}
}

type httptestRequest struct {
	target string
	cookie string
	bearer string
}

func TestJWTMiddleware_Rejects(t *testing.T) {
	app := newApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/me?auth=garbage", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
