package handler

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/centralms/lms-api/internal/utils"
)

// BlobOpener reads back a previously stored material blob by key.
type BlobOpener interface {
	Open(key string) (io.ReadCloser, error)
}

// MaterialHandler streams stored material documents to authenticated users.
type MaterialHandler struct {
	blobs  BlobOpener
	logger zerolog.Logger
}

// NewMaterialHandler builds a material download handler.
func NewMaterialHandler(blobs BlobOpener, logger zerolog.Logger) *MaterialHandler {
	return &MaterialHandler{
		blobs:  blobs,
		logger: logger.With().Str("component", "material_handler").Logger(),
	}
}

// Register attaches the download route. The wildcard captures the storage
// key, e.g. /materials/notes/intro_1700000000.pdf.
func (h *MaterialHandler) Register(router fiber.Router) {
	router.Get("/materials/*", h.download)
}

func (h *MaterialHandler) download(c *fiber.Ctx) error {
	key := strings.TrimPrefix(c.Params("*"), "/")
	if key == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "material key is required")
	}

	blob, err := h.blobs.Open(key)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			h.logger.Error().Err(err).Str("key", key).Msg("failed to open material")
		}
		return utils.SendError(c, fiber.StatusNotFound, "material not found")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")

	return c.SendStream(blob)
}
