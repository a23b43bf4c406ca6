package controller

import (
	"ai-helpdesk-be/internal/dto"
	"ai-helpdesk-be/internal/pkg/serverutils"
	"ai-helpdesk-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router)
	IngestDocument(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	ingestService service.IIngestService
}

func NewKnowledgeController(ingestService service.IIngestService) IKnowledgeController {
	return &knowledgeController{
		ingestService: ingestService,
	}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/knowledge/v1")
	h.Post("documents", c.IngestDocument)
}

func (c *knowledgeController) IngestDocument(ctx *fiber.Ctx) error {
	var req dto.IngestDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.ingestService.Enqueue(ctx.Context(), &req); err != nil {
		return err
	}

	namespace := req.Namespace
	if namespace == "" {
		namespace = "default"
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse(
		"Document queued for ingestion",
		dto.IngestDocumentResponse{
			Source:    req.Source,
			Namespace: namespace,
			Queued:    true,
		},
	))
}
