package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	academyapp "github.com/u2204125/fee-management-system-sub000/internal/application/academy"
)

// BatchHandler handles batch API endpoints
type BatchHandler struct {
	BaseHandler
	batchService *academyapp.BatchService
}

// NewBatchHandler creates a new BatchHandler
func NewBatchHandler(batchService *academyapp.BatchService) *BatchHandler {
	return &BatchHandler{
		batchService: batchService,
	}
}

// CreateBatchRequest represents a request to create a batch
type CreateBatchRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// RenameBatchRequest represents a request to rename a batch
type RenameBatchRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// Create creates a new batch.
func (h *BatchHandler) Create(c *gin.Context) {
	var req CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	batch, err := h.batchService.Create(c.Request.Context(), academyapp.CreateBatchRequest{
		Name: req.Name,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, batch)
}

// GetByID returns a single batch.
func (h *BatchHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	batch, err := h.batchService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, batch)
}

// List returns a paginated list of batches.
func (h *BatchHandler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	batches, total, err := h.batchService.List(c.Request.Context(), q.toFilter())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, batches, total, q.Page, q.PageSize)
}

// Rename renames a batch.
func (h *BatchHandler) Rename(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	var req RenameBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	batch, err := h.batchService.Rename(c.Request.Context(), id, req.Name)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, batch)
}

// Delete removes a batch. Batches with courses or students cannot be
// deleted.
func (h *BatchHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	if err := h.batchService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
