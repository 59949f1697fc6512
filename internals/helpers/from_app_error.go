package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"sekolahku_backend/internals/helpers/errs"
)

// FromAppError mengubah error hasil service/Transaction menjadi response
// JSON konsisten via helper.Error. *fiber.Error tetap dihormati; selain
// itu kind dari errs menentukan status code, fallback 500.
func FromAppError(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return Error(c, fe.Code, fe.Message)
	}

	var ae *errs.AppError
	if errors.As(err, &ae) {
		return Error(c, statusOf(ae.Kind), ae.Message)
	}
	return Error(c, fiber.StatusInternalServerError, err.Error())
}

func statusOf(kind errs.Kind) int {
	switch kind {
	case errs.KindValidation:
		return fiber.StatusBadRequest
	case errs.KindNotFound:
		return fiber.StatusNotFound
	case errs.KindConflict:
		return fiber.StatusConflict
	case errs.KindPermission:
		return fiber.StatusForbidden
	case errs.KindState:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
