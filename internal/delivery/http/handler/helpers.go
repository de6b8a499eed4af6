package handler

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/marchon-locator/internal/pkg/errors"
	"github.com/marchon-locator/internal/pkg/utils"
	"github.com/marchon-locator/internal/pkg/validator"
)

// invalidRequest - 400 с описанием нарушенных правил
func invalidRequest(c *fiber.Ctx, err error) error {
	return utils.SendError(c, apperrors.ErrInvalidRequest.WithDetails(validator.Details(err)))
}

func datasetParam(c *fiber.Ctx, name string) (string, bool) {
	ds := c.Params(name)
	if ds == "" {
		ds = c.Query(name)
	}
	if ds != "" && !validator.IsValidDataset(ds) {
		return ds, false
	}
	return ds, true
}
