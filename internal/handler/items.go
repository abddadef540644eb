package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zayar/cashflow-pwa-sub000/internal/apierror"
	"github.com/zayar/cashflow-pwa-sub000/internal/dto"
	"github.com/zayar/cashflow-pwa-sub000/internal/middleware"
	"github.com/zayar/cashflow-pwa-sub000/internal/service"
)

type ItemsHandler struct{ svc service.ItemService }

func NewItemsHandler(svc service.ItemService) *ItemsHandler {
	return &ItemsHandler{svc: svc}
}

// List godoc
// @Summary      List catalog items
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        search           query string false "Name substring"
// @Param        include_inactive query bool   false "Include deactivated items"
// @Param        page             query int    false "Page (default 1)"
// @Param        limit            query int    false "Rows per page (default 50)"
// @Success      200 {object} dto.ItemListResponse
// @Router       /v1/items [get]
func (h *ItemsHandler) List(c *gin.Context) {
	var filter dto.ItemFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list items"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Recent godoc
// @Summary      Recently picked items
// @Description  The caller's last picked items, most recent first. Backs the item picker's shortcut row.
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.ItemResponse
// @Router       /v1/items/recent [get]
func (h *ItemsHandler) Recent(c *gin.Context) {
	claims := middleware.GetClaims(c)
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("malformed token"))
		return
	}
	resp, err := h.svc.RecentlyPicked(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to load recent items"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Item detail
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Item UUID"
// @Success      200 {object} dto.ItemResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/items/{id} [get]
func (h *ItemsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary      Create catalog item
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateItemRequest true "Item data"
// @Success      201 {object} dto.ItemResponse
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/items [post]
func (h *ItemsHandler) Create(c *gin.Context) {
	var req dto.CreateItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update godoc
// @Summary      Update catalog item
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                true "Item UUID"
// @Param        body body dto.UpdateItemRequest true "Fields to change"
// @Success      200 {object} dto.ItemResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/items/{id} [put]
func (h *ItemsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.UpdateItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Deactivate godoc
// @Summary      Deactivate catalog item
// @Tags         items
// @Security     BearerAuth
// @Param        id path string true "Item UUID"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Router       /v1/items/{id} [delete]
func (h *ItemsHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
