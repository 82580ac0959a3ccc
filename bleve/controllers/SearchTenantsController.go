package controllers

import (
	"github.com/muhammedanshif/rentEase/bleve/repositories"
	"github.com/muhammedanshif/rentEase/utils"

	"github.com/gofiber/fiber/v2"
)

type SearchController struct {
	repo repositories.BleveRepositoryInterface
}

func NewSearchController(repo repositories.BleveRepositoryInterface) *SearchController {
	return &SearchController{repo: repo}
}

func (sc *SearchController) SearchTenantsController(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return utils.RespondError(c, utils.ValidationError("Search query is required"))
	}

	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	hits, err := sc.repo.SearchTenants(query, limit)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Search failed", err))
	}

	return utils.RespondOK(c, fiber.StatusOK, "Search completed", hits)
}
