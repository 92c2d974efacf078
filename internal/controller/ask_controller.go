package controller

import (
	"ai-bizquery-be/internal/dto"
	"ai-bizquery-be/internal/pkg/serverutils"
	"ai-bizquery-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAskController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	DownloadExport(ctx *fiber.Ctx) error
}

type askController struct {
	service service.IAskService
}

func NewAskController(service service.IAskService) IAskController {
	return &askController{service: service}
}

func (c *askController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ask/v1")
	h.Post("", c.Ask)
	h.Get("export/:id", c.DownloadExport)
}

// Ask returns the pipeline payload as-is: its shape depends on the
// requested output format, so it is not wrapped in the usual envelope.
func (c *askController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Ask(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *askController) DownloadExport(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	artifact, err := c.service.GetExport(id)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+artifact.Filename+`"`)
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return ctx.Send(artifact.Content)
}
