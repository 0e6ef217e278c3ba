package handler

import (
	"github.com/gofiber/fiber/v2"

	"kaizen-ideas/internal/domain"
)

// getPaginationParams reads page and limit. page_size is accepted as an
// alias for limit.
func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.PaginationParams{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("limit", c.QueryInt("page_size")),
	}
	params.Validate()
	return params
}
