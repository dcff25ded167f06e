package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/sku_console/internal/service"
	"github.com/GTDGit/sku_console/internal/utils"
	"github.com/GTDGit/sku_console/pkg/skuapi"
)

// respondError maps controller errors onto the response envelope.
func respondError(c *gin.Context, err error) {
	var missing *service.MissingFieldsError
	var invalid *service.InvalidFieldError
	var failure *service.FailureError

	switch {
	case errors.Is(err, utils.ErrSessionExpired):
		utils.Error(c, http.StatusUnauthorized, "SESSION_EXPIRED", service.MsgSessionExpired)
	case errors.Is(err, utils.ErrNotAuthenticated):
		utils.Error(c, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Please sign in first")
	case errors.Is(err, utils.ErrBusy):
		utils.Error(c, http.StatusConflict, "OPERATION_IN_PROGRESS", "Another operation is still running")
	case errors.Is(err, utils.ErrNoEditContext):
		utils.Error(c, http.StatusConflict, "NO_EDIT_CONTEXT", "No SKU is being edited")
	case errors.Is(err, utils.ErrNoPendingDelete):
		utils.Error(c, http.StatusConflict, "NO_PENDING_DELETE", "No delete is awaiting confirmation")
	case errors.Is(err, utils.ErrSKUNotFound):
		utils.Error(c, http.StatusNotFound, "SKU_NOT_FOUND", "SKU not found")
	case errors.As(err, &missing):
		utils.ErrorWithFields(c, http.StatusBadRequest, "MISSING_FIELDS", missing.Error(), missing.Fields)
	case errors.As(err, &invalid):
		utils.ErrorWithFields(c, http.StatusBadRequest, "INVALID_FIELD", invalid.Error(), []string{invalid.Field})
	case errors.As(err, &failure):
		respondFailure(c, failure)
	default:
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

func respondFailure(c *gin.Context, f *service.FailureError) {
	if skuapi.IsUnauthorized(f.Err) {
		utils.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", f.Message)
		return
	}
	if v, ok := skuapi.AsValidation(f.Err); ok {
		status := v.Status
		if status < 400 || status > 499 {
			status = http.StatusUnprocessableEntity
		}
		utils.Error(c, status, "REJECTED", f.Message)
		return
	}
	utils.Error(c, http.StatusBadGateway, "BACKEND_ERROR", f.Message)
}
