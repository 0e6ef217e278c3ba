package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"kaizen-ideas/internal/domain"
	"kaizen-ideas/internal/middleware"
	"kaizen-ideas/internal/pkg/validate"
	"kaizen-ideas/internal/service/idea"
	"kaizen-ideas/internal/service/media"
)

type IdeaHandler struct {
	ideaService  idea.Service
	mediaService media.Service
}

// NewIdeaHandler accepts a nil mediaService; submissions carrying images are
// then rejected with 503.
func NewIdeaHandler(ideaService idea.Service, mediaService media.Service) *IdeaHandler {
	return &IdeaHandler{ideaService: ideaService, mediaService: mediaService}
}

func (h *IdeaHandler) Submit(c *fiber.Ctx) error {
	var input domain.CreateIdeaInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	input.Tags = splitTags(input.Tags)
	if err := validate.Struct(input); err != nil {
		return err
	}

	var images []domain.IdeaImage
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return middleware.BadRequest("Invalid multipart form")
		}
		if headers := form.File["images"]; len(headers) > 0 {
			if h.mediaService == nil {
				return fiber.NewError(fiber.StatusServiceUnavailable, "Image uploads are unavailable")
			}
			files := make([]media.File, 0, len(headers))
			for _, fh := range headers {
				files = append(files, media.FromMultipart(fh))
			}
			images, err = h.mediaService.UploadIdeaImages(c.UserContext(), files)
			if err != nil {
				return err
			}
		}
	}

	created, err := h.ideaService.Submit(c.UserContext(), input, images, middleware.GetCurrentUserID(c))
	if err != nil {
		if len(images) > 0 {
			h.mediaService.RemoveIdeaImages(c.UserContext(), images)
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *IdeaHandler) List(c *fiber.Ctx) error {
	filter, err := parseIdeaFilter(c)
	if err != nil {
		return err
	}

	result, err := h.ideaService.List(c.UserContext(), filter, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.JSON(result)
}

func (h *IdeaHandler) ListMine(c *fiber.Ctx) error {
	var status *domain.IdeaStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.IdeaStatus(raw)
		if !s.IsValid() {
			return domain.ErrInvalidStatus
		}
		status = &s
	}

	result, err := h.ideaService.ListMine(c.UserContext(), middleware.GetCurrentUserID(c), status, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.JSON(result)
}

func (h *IdeaHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.ideaService.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

func (h *IdeaHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid idea ID")
	}

	found, err := h.ideaService.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(found)
}

func (h *IdeaHandler) ChangeStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid idea ID")
	}

	var input domain.UpdateIdeaStatusInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if err := validate.Struct(input); err != nil {
		return err
	}

	updated, err := h.ideaService.ChangeStatus(c.UserContext(), id, input, middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}

	return c.JSON(updated)
}

func (h *IdeaHandler) Edit(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid idea ID")
	}

	var input domain.UpdateIdeaInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if err := validate.Struct(input); err != nil {
		return err
	}

	updated, err := h.ideaService.Edit(c.UserContext(), id, input, middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}

	return c.JSON(updated)
}

func (h *IdeaHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid idea ID")
	}

	if err := h.ideaService.SoftDelete(c.UserContext(), id, middleware.GetCurrentUserID(c)); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Idea deleted"})
}

func parseIdeaFilter(c *fiber.Ctx) (domain.IdeaFilter, error) {
	filter := domain.IdeaFilter{
		SubmittedByEmployeeNumber: c.Query("submittedBy"),
		Search:                    c.Query("search"),
	}

	if raw := c.Query("status"); raw != "" {
		s := domain.IdeaStatus(raw)
		if !s.IsValid() {
			return filter, domain.ErrInvalidStatus
		}
		filter.Status = &s
	}
	if raw := c.Query("department"); raw != "" {
		d := domain.Department(raw)
		if !d.IsValid() {
			return filter, domain.NewValidationError("department", "unsupported department")
		}
		filter.Department = &d
	}
	if raw := c.Query("benefit"); raw != "" {
		b := domain.Benefit(raw)
		if !b.IsValid() {
			return filter, domain.NewValidationError("benefit", "unsupported benefit")
		}
		filter.Benefit = &b
	}
	return filter, nil
}

// splitTags accepts tags sent either as repeated form fields or as a single
// comma-separated value.
func splitTags(tags []string) []string {
	if len(tags) != 1 || !strings.Contains(tags[0], ",") {
		return tags
	}
	return strings.Split(tags[0], ",")
}
