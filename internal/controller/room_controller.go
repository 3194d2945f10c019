// FILE: internal/controller/room_controller.go
package controller

import (
	"chat-budgeting-be/internal/dto"
	"chat-budgeting-be/internal/pkg/serverutils"
	"chat-budgeting-be/internal/service"
	"chat-budgeting-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

type IRoomController interface {
	RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	ClearHistory(ctx *fiber.Ctx) error
	ShowRun(ctx *fiber.Ctx) error
}

type roomController struct {
	service service.IRoomService
}

func NewRoomController(service service.IRoomService) IRoomController {
	return &roomController{service: service}
}

func (c *roomController) RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler) {
	rooms := api.Group("/rooms", jwtMiddleware)
	rooms.Post("", c.Create)
	rooms.Get("", c.List)
	rooms.Get("/:roomId/messages", c.History)
	rooms.Delete("/:roomId/messages", c.ClearHistory)

	api.Get("/runs/:messageId", jwtMiddleware, c.ShowRun)
}

func (c *roomController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateRoomRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Body permintaan tidak valid.")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateRoom(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.Response[*dto.RoomResponse]{
		Success: true,
		Code:    fiber.StatusCreated,
		Message: "Success create room",
		Data:    res,
	})
}

func (c *roomController) List(ctx *fiber.Ctx) error {
	nip := ctx.Query("nip")
	if nip == "" {
		return &apperror.ValidationError{Message: "NIP wajib diisi."}
	}

	res, err := c.service.ListRooms(ctx.UserContext(), nip)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get rooms", res))
}

func (c *roomController) History(ctx *fiber.Ctx) error {
	roomId, err := positiveParam(ctx, "roomId")
	if err != nil {
		return err
	}

	nip, err := callerNip(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetHistory(ctx.UserContext(), nip, roomId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get history", res))
}

func (c *roomController) ClearHistory(ctx *fiber.Ctx) error {
	roomId, err := positiveParam(ctx, "roomId")
	if err != nil {
		return err
	}

	nip, err := callerNip(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ClearHistory(ctx.UserContext(), nip, roomId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success clear history", res))
}

func (c *roomController) ShowRun(ctx *fiber.Ctx) error {
	messageId, err := positiveParam(ctx, "messageId")
	if err != nil {
		return err
	}

	res, err := c.service.GetRun(ctx.UserContext(), messageId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get llm run", res))
}

// callerNip prefers the nip from the bearer token over the query string.
func callerNip(ctx *fiber.Ctx) (string, error) {
	if nip, ok := ctx.Locals("nip").(string); ok && nip != "" {
		return nip, nil
	}
	if nip := ctx.Query("nip"); nip != "" {
		return nip, nil
	}
	return "", &apperror.ValidationError{Message: "NIP wajib diisi."}
}

func positiveParam(ctx *fiber.Ctx, name string) (int64, error) {
	id, err := ctx.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, &apperror.ValidationError{Message: name + " harus berupa bilangan bulat positif."}
	}
	return int64(id), nil
}
