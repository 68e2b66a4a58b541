package app

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"nexus_chat_service/internal/chat/domain"
	errprocess "nexus_chat_service/pkg/err"
	"nexus_chat_service/pkg/logger"
	"nexus_chat_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ChatHTTPHandler REST 介面
type ChatHTTPHandler struct {
	messageUC    *MessageUseCase
	attachmentUC *AttachmentUseCase
}

// NewChatHTTPHandler create ChatHTTPHandler
func NewChatHTTPHandler(messageUC *MessageUseCase, attachmentUC *AttachmentUseCase) *ChatHTTPHandler {
	return &ChatHTTPHandler{messageUC: messageUC, attachmentUC: attachmentUC}
}

// ErrorResponse error body
type ErrorResponse struct {
	Error string `json:"error"`
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, errprocess.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, errprocess.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, errprocess.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	status := statusOf(err)
	if status == fiber.StatusInternalServerError {
		logger.Log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(status).JSON(ErrorResponse{Error: "internal error"})
	}
	return c.Status(status).JSON(ErrorResponse{Error: err.Error()})
}

// SendMessage 新增訊息
// @Summary Send a message
// @Description Persist a message and broadcast an INSERT change event to the team channel
// @Tags Messages
// @Accept json
// @Produce json
// @Param body body domain.SendMessageRequest true "message"
// @Success 201 {object} domain.Message
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /messages [post]
func (h *ChatHTTPHandler) SendMessage(c *fiber.Ctx) error {
	var req domain.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid body"})
	}

	msg, err := h.messageUC.SendMessage(c.UserContext(), middlewares.UserID(c), req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// EditMessage 修改訊息
// @Summary Edit a message
// @Tags Messages
// @Accept json
// @Produce json
// @Param id path string true "message id"
// @Param body body domain.EditMessageRequest true "new content"
// @Success 200 {object} domain.Message
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /messages/{id} [patch]
func (h *ChatHTTPHandler) EditMessage(c *fiber.Ctx) error {
	var req domain.EditMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid body"})
	}

	msg, err := h.messageUC.EditMessage(c.UserContext(), middlewares.UserID(c), c.Params("id"), req.Content)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(msg)
}

// DeleteMessage 刪除訊息
// @Summary Delete a message
// @Tags Messages
// @Param id path string true "message id"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /messages/{id} [delete]
func (h *ChatHTTPHandler) DeleteMessage(c *fiber.Ctx) error {
	if err := h.messageUC.DeleteMessage(c.UserContext(), middlewares.UserID(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListMessages 歷史訊息
// @Summary List messages of a scope
// @Description Returns up to limit messages created before `before`, oldest first
// @Tags Messages
// @Produce json
// @Param team_id query string true "team id"
// @Param project_id query string false "project id, empty for team-level"
// @Param before query string false "RFC3339 timestamp"
// @Param limit query int false "page size"
// @Success 200 {array} domain.Message
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /messages [get]
func (h *ChatHTTPHandler) ListMessages(c *fiber.Ctx) error {
	scope := domain.NewScope(c.Query("team_id"), c.Query("project_id"))

	var before time.Time
	if s := c.Query("before"); s != "" {
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "before must be RFC3339"})
		}
		before = t
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	msgs, err := h.messageUC.ListMessages(c.UserContext(), middlewares.UserID(c), scope, before, limit)
	if err != nil {
		return fail(c, err)
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	return c.JSON(msgs)
}

// ShareItems 附件連結
// @Summary Link attachments of a message
// @Tags Messages
// @Accept json
// @Produce json
// @Param body body []domain.SharedItem true "items"
// @Success 201 {object} map[string]int
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /shared-items [post]
func (h *ChatHTTPHandler) ShareItems(c *fiber.Ctx) error {
	var items []domain.SharedItem
	if err := c.BodyParser(&items); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid body"})
	}
	if err := h.messageUC.ShareItems(c.UserContext(), middlewares.UserID(c), items); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"count": len(items)})
}

// GetProfile sender profile
// @Summary Get a display profile
// @Tags Profiles
// @Produce json
// @Param id path string true "user id"
// @Success 200 {object} domain.Profile
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /profiles/{id} [get]
func (h *ChatHTTPHandler) GetProfile(c *fiber.Ctx) error {
	p, err := h.messageUC.GetProfile(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(p)
}

// ListNotifications mention 通知
// @Summary List mention notifications of the current user
// @Tags Notifications
// @Produce json
// @Param limit query int false "max entries"
// @Success 200 {array} domain.Notification
// @Security BearerAuth
// @Router /notifications [get]
func (h *ChatHTTPHandler) ListNotifications(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	list, err := h.messageUC.ListNotifications(c.UserContext(), middlewares.UserID(c), limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

// UploadAttachment 上傳附件
// @Summary Upload an attachment
// @Tags Attachments
// @Accept multipart/form-data
// @Produce json
// @Param team_id formData string true "team id"
// @Param file formData file true "file"
// @Success 201 {object} domain.Attachment
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /attachments [post]
func (h *ChatHTTPHandler) UploadAttachment(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "未檢測到檔案"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return fail(c, err)
	}
	defer file.Close()

	att, err := h.attachmentUC.Upload(
		c.UserContext(),
		middlewares.UserID(c),
		c.FormValue("team_id"),
		fileHeader.Filename,
		fileHeader.Header.Get(fiber.HeaderContentType),
		fileHeader.Size,
		file,
	)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(att)
}

// ConnectCheck check api connect start
// @Summary Check chat service status
// @Tags Shared
// @Success 200 {string} string "chat service start!"
// @Router / [get]
func ConnectCheck(c *fiber.Ctx) error {
	return c.SendString("chat service start!")
}

// DebugLogFlag toggle debug log flag
// @Summary Toggle Debug Log Flag
// @Tags Shared
// @Param status query bool true "Debug status"
// @Success 200 {string} string "debug mode updated"
// @Failure 400 {string} string "Invalid status value"
// @Router /debug [post]
func DebugLogFlag(c *fiber.Ctx) error {
	status, err := strconv.ParseBool(c.Query("status"))
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	logger.Log.SetDebugMode(status)
	return c.SendString(fmt.Sprintf("debug mode is : %t", status))
}
