package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/benzenoid/nomenclator/internal/application/naming"
	"github.com/benzenoid/nomenclator/pkg/errors"
)

type handler struct {
	svc *naming.Service
}

type nameRequest struct {
	SMILES string `json:"smiles" binding:"required"`
}

type batchRequest struct {
	SMILES []string `json:"smiles" binding:"required,min=1"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), errorResponse{
		Code:    errors.GetCode(err).String(),
		Message: err.Error(),
	})
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) name(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.Wrap(err, errors.CodeInvalidParam, "invalid request body"))
		return
	}

	result, err := h.svc.Name(c.Request.Context(), req.SMILES)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handler) batch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.Wrap(err, errors.CodeInvalidParam, "invalid request body"))
		return
	}

	items, err := h.svc.NameBatch(c.Request.Context(), req.SMILES)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
