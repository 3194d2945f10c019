// FILE: internal/controller/nl2sql_controller.go
package controller

import (
	"net/http"

	"chat-budgeting-be/internal/dto"
	"chat-budgeting-be/internal/pkg/logger"
	"chat-budgeting-be/internal/pkg/serverutils"
	"chat-budgeting-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type INL2SQLController interface {
	RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler)
	SQLDataReasoning(ctx *fiber.Ctx) error
	SQLData(ctx *fiber.Ctx) error
	SQLDataReasoningConversation(ctx *fiber.Ctx) error
}

type nl2sqlController struct {
	service service.INL2SQLService
	logger  logger.ILogger
}

func NewNL2SQLController(service service.INL2SQLService, log logger.ILogger) INL2SQLController {
	return &nl2sqlController{service: service, logger: log}
}

func (c *nl2sqlController) RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler) {
	h := api.Group("/nl2sql", jwtMiddleware)
	h.Post("/sql-data-reasoning", c.SQLDataReasoning)
	h.Post("/sql-data", c.SQLData)
	h.Post("/sql-data-reasoning-conversation", c.SQLDataReasoningConversation)
}

func (c *nl2sqlController) SQLDataReasoning(ctx *fiber.Ctx) error {
	return c.run(ctx, service.FlowSingleShotReasoning)
}

func (c *nl2sqlController) SQLData(ctx *fiber.Ctx) error {
	return c.run(ctx, service.FlowSingleShotData)
}

func (c *nl2sqlController) SQLDataReasoningConversation(ctx *fiber.Ctx) error {
	return c.run(ctx, service.FlowConversational)
}

// Pipeline endpoints answer with the bare result body, and errors as {"detail": ...}.
func (c *nl2sqlController) run(ctx *fiber.Ctx, flow service.Flow) error {
	var req dto.NL2SQLRequest
	if err := ctx.BodyParser(&req); err != nil {
		return detail(ctx, fiber.StatusBadRequest, "Body permintaan tidak valid.")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return c.failure(ctx, err)
	}

	res, err := c.service.Run(ctx.UserContext(), flow, &req)
	if err != nil {
		return c.failure(ctx, err)
	}
	return ctx.JSON(res)
}

// failure renders err itself, so 5xx details are logged here rather than by
// the error middleware.
func (c *nl2sqlController) failure(ctx *fiber.Ctx, err error) error {
	code, message := serverutils.Classify(err)
	if code >= http.StatusInternalServerError {
		c.logger.Error("NL2SQL", "Request failed", map[string]interface{}{
			"method": ctx.Method(),
			"path":   ctx.Path(),
			"status": code,
			"error":  err.Error(),
		})
	}
	return detail(ctx, code, message)
}

func detail(ctx *fiber.Ctx, code int, message string) error {
	return ctx.Status(code).JSON(fiber.Map{"detail": message})
}
