package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/sku_console/internal/filter"
	"github.com/GTDGit/sku_console/internal/service"
	"github.com/GTDGit/sku_console/internal/utils"
)

// InventoryHandler exposes the inventory controller to a UI.
type InventoryHandler struct {
	inventory *service.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(inventory *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// GetView returns the current view.
func (h *InventoryHandler) GetView(c *gin.Context) {
	utils.Success(c, http.StatusOK, "OK", h.inventory.View())
}

// Reload re-fetches records and categories.
func (h *InventoryHandler) Reload(c *gin.Context) {
	if err := h.inventory.Load(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Inventory reloaded", h.inventory.View())
}

// SetFilters replaces the filter state. Omitted selectors mean all.
func (h *InventoryHandler) SetFilters(c *gin.Context) {
	var req filter.State
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	h.inventory.SetFilters(req)
	utils.Success(c, http.StatusOK, "Filters updated", h.inventory.View())
}

// ResetFilters clears the search and every selector.
func (h *InventoryHandler) ResetFilters(c *gin.Context) {
	h.inventory.ResetFilters()
	utils.Success(c, http.StatusOK, "Filters reset", h.inventory.View())
}

// BeginAdd opens an empty draft.
func (h *InventoryHandler) BeginAdd(c *gin.Context) {
	ec, err := h.inventory.BeginAdd()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Editing new SKU", ec)
}

// BeginEdit opens a draft pre-filled from the record with the path id.
func (h *InventoryHandler) BeginEdit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ec, err := h.inventory.BeginEdit(id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Editing SKU", ec)
}

// UpdateDraft replaces the open draft.
func (h *InventoryHandler) UpdateDraft(c *gin.Context) {
	var req service.Draft
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	ec, err := h.inventory.UpdateDraft(req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Draft updated", ec)
}

// Save submits the open draft.
func (h *InventoryHandler) Save(c *gin.Context) {
	if err := h.inventory.Save(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "SKU saved", h.inventory.View())
}

// CancelEdit closes the draft.
func (h *InventoryHandler) CancelEdit(c *gin.Context) {
	h.inventory.CancelEdit()
	utils.Success(c, http.StatusOK, "Edit cancelled", nil)
}

// RequestDelete asks for confirmation before deleting the record with the path id.
func (h *InventoryHandler) RequestDelete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	conf, err := h.inventory.RequestDelete(id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, conf.Prompt, conf)
}

// ConfirmDelete deletes the record awaiting confirmation.
func (h *InventoryHandler) ConfirmDelete(c *gin.Context) {
	if err := h.inventory.ConfirmDelete(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "SKU deleted", h.inventory.View())
}

// CancelDelete dismisses the confirmation.
func (h *InventoryHandler) CancelDelete(c *gin.Context) {
	h.inventory.CancelDelete()
	utils.Success(c, http.StatusOK, "Delete cancelled", nil)
}

// DismissNotice clears the last message shown to the user.
func (h *InventoryHandler) DismissNotice(c *gin.Context) {
	h.inventory.DismissNotice()
	utils.Success(c, http.StatusOK, "Notice dismissed", nil)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		utils.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid SKU id")
		return 0, false
	}
	return id, true
}
