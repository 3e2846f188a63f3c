package handlers

import (
	"bytes"
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/flowbit/flowbit-api/pkg/util"
)

// decodeBody parses a JSON request body into dst, rejecting unknown fields
// so client payloads cannot smuggle values past the typed request structs.
func decodeBody(c *fiber.Ctx, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if dec.More() {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}
