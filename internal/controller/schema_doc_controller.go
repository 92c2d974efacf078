package controller

import (
	"ai-bizquery-be/internal/dto"
	"ai-bizquery-be/internal/pkg/serverutils"
	"ai-bizquery-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISchemaDocController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
}

type schemaDocController struct {
	service service.IIngestService
}

func NewSchemaDocController(service service.IIngestService) ISchemaDocController {
	return &schemaDocController{service: service}
}

func (c *schemaDocController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/schema-doc/v1")
	h.Post("ingest", c.Ingest)
}

func (c *schemaDocController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestSchemaDocRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Ingest(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Schema docs ingested", res))
}
