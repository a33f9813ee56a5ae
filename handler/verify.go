package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/HeyBatlle1/tos-salad/model"
	"github.com/HeyBatlle1/tos-salad/verifier"
	"github.com/gin-gonic/gin"
)

// Pipeline is what the verify endpoint needs from the verifier.
type Pipeline interface {
	Verify(ctx context.Context, in verifier.Input) *model.VerificationReport
}

type VerifyHandler struct {
	pipeline    Pipeline
	maxUploadMB int
}

func NewVerifyHandler(pipeline Pipeline, maxUploadMB int) *VerifyHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &VerifyHandler{pipeline: pipeline, maxUploadMB: maxUploadMB}
}

type verifyURLRequest struct {
	URL string `json:"url" binding:"required"`
}

// Verify accepts either a multipart file upload or a JSON {"url": ...}
// body and returns a full verification report. The upload buffer is wiped
// on every exit path; raw content never outlives the request.
func (h *VerifyHandler) Verify(c *gin.Context) {
	contentType := c.ContentType()

	if contentType == "application/json" {
		var req verifyURLRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A url field is required"})
			return
		}
		report := h.pipeline.Verify(c.Request.Context(), verifier.Input{
			Type: model.InputURL,
			URL:  req.URL,
		})
		c.JSON(http.StatusOK, report)
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide a file upload or a JSON body with a url field"})
		return
	}
	defer file.Close()

	maxBytes := int64(h.maxUploadMB) << 20
	if header.Size > maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}
	defer verifier.Wipe(data)

	if int64(len(data)) > maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return
	}

	report := h.pipeline.Verify(c.Request.Context(), verifier.Input{
		Type:     model.InputFile,
		Filename: header.Filename,
		Data:     data,
	})
	c.JSON(http.StatusOK, report)
}
