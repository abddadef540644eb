package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zayar/cashflow-pwa-sub000/internal/apierror"
	"github.com/zayar/cashflow-pwa-sub000/internal/draft"
	"github.com/zayar/cashflow-pwa-sub000/internal/dto"
	"github.com/zayar/cashflow-pwa-sub000/internal/middleware"
	"github.com/zayar/cashflow-pwa-sub000/internal/service"
)

// DraftsHandler exposes the per-session invoice draft editor. Every route is
// scoped to the authenticated user: the JWT user id doubles as the session id.
type DraftsHandler struct {
	svc   service.DraftService
	items service.ItemService
}

func NewDraftsHandler(svc service.DraftService, items service.ItemService) *DraftsHandler {
	return &DraftsHandler{svc: svc, items: items}
}

func sessionID(c *gin.Context) string {
	return middleware.GetClaims(c).UserID
}

// Start godoc
// @Summary      Start a new invoice draft
// @Description  Provisions the session's draft store and resets it to a fresh draft with today's date and one empty line.
// @Tags         draft
// @Produce      json
// @Security     BearerAuth
// @Success      201 {object} dto.DraftResponse
// @Router       /v1/draft [post]
func (h *DraftsHandler) Start(c *gin.Context) {
	d := h.svc.Start(sessionID(c))
	c.JSON(http.StatusCreated, dto.NewDraftResponse(d))
}

// Get godoc
// @Summary      Current draft snapshot
// @Tags         draft
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.DraftResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/draft [get]
func (h *DraftsHandler) Get(c *gin.Context) {
	d, err := h.svc.Get(sessionID(c))
	if err != nil {
		c.JSON(http.StatusConflict, apierror.New("no draft in progress"))
		return
	}
	c.JSON(http.StatusOK, dto.NewDraftResponse(d))
}

// Apply godoc
// @Summary      Apply a draft action
// @Description  Dispatches one typed action against the session's draft and returns the new snapshot. Unknown line ids are no-ops by design.
// @Tags         draft
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.DraftActionRequest true "Action envelope"
// @Success      200 {object} dto.DraftResponse
// @Failure      400 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /v1/draft/actions [post]
func (h *DraftsHandler) Apply(c *gin.Context) {
	var req dto.DraftActionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	action, err := req.ToAction()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}

	d, err := h.svc.Apply(sessionID(c), action)
	if err != nil {
		if errors.Is(err, draft.ErrNoSession) {
			c.JSON(http.StatusConflict, apierror.New("no draft in progress"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("failed to apply action"))
		return
	}

	// Feed the picker's recently-used list when an item was assigned to a line
	if req.Type == dto.ActionSetLineItem && h.items != nil {
		if itemID, err := uuid.Parse(req.ProductID); err == nil {
			if userID, err := uuid.Parse(sessionID(c)); err == nil {
				h.items.MarkPicked(c.Request.Context(), userID, itemID)
			}
		}
	}

	c.JSON(http.StatusOK, dto.NewDraftResponse(d))
}

// Discard godoc
// @Summary      Discard the current draft
// @Tags         draft
// @Security     BearerAuth
// @Success      204
// @Router       /v1/draft [delete]
func (h *DraftsHandler) Discard(c *gin.Context) {
	h.svc.Discard(sessionID(c))
	c.Status(http.StatusNoContent)
}
