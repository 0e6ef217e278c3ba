package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"kaizen-ideas/internal/domain"
	"kaizen-ideas/internal/middleware"
	"kaizen-ideas/internal/pkg/validate"
	"kaizen-ideas/internal/service/credit"
	"kaizen-ideas/internal/service/leaderboard"
	"kaizen-ideas/internal/service/user"
)

type UserHandler struct {
	userService        user.Service
	creditService      credit.Service
	leaderboardService leaderboard.Service
}

func NewUserHandler(userService user.Service, creditService credit.Service, leaderboardService leaderboard.Service) *UserHandler {
	return &UserHandler{
		userService:        userService,
		creditService:      creditService,
		leaderboardService: leaderboardService,
	}
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	var input domain.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if err := validate.Struct(input); err != nil {
		return err
	}

	created, err := h.userService.Create(c.UserContext(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	var filter domain.UserFilter
	if raw := c.Query("department"); raw != "" {
		d := domain.Department(raw)
		if !d.IsValid() {
			return domain.NewValidationError("department", "unsupported department")
		}
		filter.Department = &d
	}
	if raw := c.Query("role"); raw != "" {
		r := domain.UserRole(raw)
		if !r.IsValid() {
			return domain.NewValidationError("role", "unsupported role")
		}
		filter.Role = &r
	}

	result, err := h.userService.List(c.UserContext(), filter, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.JSON(result)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid user ID")
	}

	found, err := h.userService.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(found)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid user ID")
	}

	var input domain.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if err := validate.Struct(input); err != nil {
		return err
	}

	updated, err := h.userService.Update(c.UserContext(), middleware.GetCurrentUser(c), id, input)
	if err != nil {
		return err
	}

	return c.JSON(updated)
}

func (h *UserHandler) Deactivate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid user ID")
	}

	if err := h.userService.Deactivate(c.UserContext(), middleware.GetCurrentUser(c), id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "User deactivated"})
}

// Leaderboard serves the individual ranking by default and the department
// ranking for type=department.
func (h *UserHandler) Leaderboard(c *fiber.Ctx) error {
	switch c.Query("type", "individual") {
	case "individual":
		entries, err := h.leaderboardService.Individual(c.UserContext(), c.QueryInt("limit"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"type": "individual", "entries": entries})
	case "department":
		entries, err := h.leaderboardService.Department(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"type": "department", "entries": entries})
	default:
		return middleware.BadRequest("type must be individual or department")
	}
}

func (h *UserHandler) RecalculateAll(c *fiber.Ctx) error {
	actorID := middleware.GetCurrentUserID(c)

	summary, err := h.creditService.RecalculateAll(c.UserContext(), &actorID)
	if err != nil {
		return err
	}

	return c.JSON(summary)
}

func (h *UserHandler) Recalculate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid user ID")
	}
	actorID := middleware.GetCurrentUserID(c)

	result, err := h.creditService.Recalculate(c.UserContext(), id, credit.ReasonManual, &actorID)
	if err != nil {
		return err
	}

	return c.JSON(result)
}
