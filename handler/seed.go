package handler

import (
	"io"
	"net/http"

	"github.com/HeyBatlle1/tos-salad/pkg/logger"
	"github.com/HeyBatlle1/tos-salad/service"
	"github.com/gin-gonic/gin"
)

// Seed files are small YAML documents; cap uploads well below the general
// file limit.
const maxSeedBytes = 4 << 20

type SeedHandler struct {
	loader *service.Loader
}

func NewSeedHandler(loader *service.Loader) *SeedHandler {
	return &SeedHandler{loader: loader}
}

// Load ingests an uploaded YAML seed file through the content loader.
// Admin only.
func (h *SeedHandler) Load(c *gin.Context) {
	file, header, err := c.Request.FormFile("seed")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No seed file provided"})
		return
	}
	defer file.Close()

	if header.Size > maxSeedBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Seed file too large"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxSeedBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read seed file"})
		return
	}

	seed, err := service.ParseSeed(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.loader.Run(c.Request.Context(), seed)
	if err != nil {
		logger.Error(c.Request.Context(), "seed load failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Seed load failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}
