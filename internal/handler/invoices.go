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

type InvoicesHandler struct{ svc service.InvoiceService }

func NewInvoicesHandler(svc service.InvoiceService) *InvoicesHandler {
	return &InvoicesHandler{svc: svc}
}

// Submit godoc
// @Summary      Persist the current draft as an invoice
// @Description  Validates and saves the session's draft. confirm=true issues the invoice and enqueues PDF rendering; the draft keeps the assigned id and number for re-submission.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.SubmitDraftRequest true "Submit options"
// @Success      201 {object} dto.InvoiceResponse
// @Failure      400 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /v1/invoices [post]
func (h *InvoicesHandler) Submit(c *gin.Context) {
	var req dto.SubmitDraftRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("malformed token"))
		return
	}

	resp, err := h.svc.SubmitDraft(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, draft.ErrNoSession) {
			c.JSON(http.StatusConflict, apierror.New("no draft in progress"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        status      query string false "Draft | Confirmed | Void | all"
// @Param        customer_id query string false "Customer UUID"
// @Param        date_from   query string false "YYYY-MM-DD"
// @Param        date_to     query string false "YYYY-MM-DD"
// @Param        page        query int    false "Page (default 1)"
// @Param        limit       query int    false "Rows per page (default 50)"
// @Success      200 {object} dto.InvoiceListResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/invoices [get]
func (h *InvoicesHandler) List(c *gin.Context) {
	var filter dto.InvoiceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list invoices"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Invoice detail
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Invoice UUID"
// @Success      200 {object} dto.InvoiceResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/invoices/{id} [get]
func (h *InvoicesHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.GetInvoice(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PDF godoc
// @Summary      Download the rendered invoice PDF
// @Description  Serves the PDF produced by the async render worker. 409 while rendering is still pending.
// @Tags         invoices
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "Invoice UUID"
// @Success      200
// @Failure      404 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /v1/invoices/{id}/pdf [get]
func (h *InvoicesHandler) PDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	path, err := h.svc.InvoicePDF(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.FileAttachment(path, "invoice.pdf")
}

// Void godoc
// @Summary      Void an invoice
// @Description  Marks the invoice Void and records the reason. Admin only.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "Invoice UUID"
// @Param        body body dto.VoidInvoiceRequest true "Void reason"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Router       /v1/invoices/{id} [delete]
func (h *InvoicesHandler) Void(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.VoidInvoiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.VoidInvoice(c.Request.Context(), id, req.Reason); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
