package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	. "bookingapp/internal/adapter/http/helper"
	. "bookingapp/internal/adapter/http/validation"
	"bookingapp/internal/core/model/request"
	"bookingapp/internal/core/port"
)

type PropertyHandler struct {
	svc port.PropertyService
}

func NewPropertyHandler(svc port.PropertyService) *PropertyHandler {
	return &PropertyHandler{svc: svc}
}

func (h *PropertyHandler) CreateProperty(c *gin.Context) {
	span := startSpan(c, "handler.property.Create")

	var params request.PropertyCreationRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		err = BindError(err, "body")
		endSpan(span, err)
		SendError(c, err)
		return
	}

	if err := ValidateStruct(params); err != nil {
		endSpan(span, err)
		SendError(c, err)
		return
	}

	property, err := h.svc.Create(c.Request.Context(), params)
	endSpan(span, err)

	if err != nil {
		SendError(c, err)
		return
	}

	SendSuccess(c, http.StatusCreated, property)
}

func (h *PropertyHandler) GetProperty(c *gin.Context) {
	id, err := pathUUID(c, "id")

	if err != nil {
		SendError(c, err)
		return
	}

	property, err := h.svc.GetByID(c.Request.Context(), id)

	if err != nil {
		SendError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, property)
}

func (h *PropertyHandler) PatchProperty(c *gin.Context) {
	id, err := pathUUID(c, "id")

	if err != nil {
		SendError(c, err)
		return
	}

	var params request.PropertyPatchRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		SendError(c, BindError(err, "body"))
		return
	}

	if err := ValidateStruct(params); err != nil {
		SendError(c, err)
		return
	}

	property, err := h.svc.Patch(c.Request.Context(), id, params)

	if err != nil {
		SendError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, property)
}

func (h *PropertyHandler) ListProperties(c *gin.Context) {
	var page request.PageRequest

	if err := c.ShouldBindQuery(&page); err != nil {
		SendError(c, BindError(err, "page"))
		return
	}

	if err := ValidateStruct(page); err != nil {
		SendError(c, err)
		return
	}

	properties, err := h.svc.GetAll(c.Request.Context(), page.Page, page.Size)

	if err != nil {
		SendError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, properties)
}

func (h *PropertyHandler) GetPropertiesByOwner(c *gin.Context) {
	ownerID, err := pathUUID(c, "ownerId")

	if err != nil {
		SendError(c, err)
		return
	}

	properties, err := h.svc.GetByOwner(c.Request.Context(), ownerID)

	if err != nil {
		SendError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, properties)
}

func (h *PropertyHandler) GetPropertiesByIDs(c *gin.Context) {
	span := startSpan(c, "handler.property.GetByIDs")

	var batch request.BatchRequest

	if err := c.ShouldBindJSON(&batch); err != nil {
		err = BindError(err, "ids")
		endSpan(span, err)
		SendError(c, err)
		return
	}

	ids := batch.Distinct()

	if err := ValidateBatch(ids); err != nil {
		endSpan(span, err)
		SendError(c, err)
		return
	}

	properties, err := h.svc.GetByIDs(c.Request.Context(), ids)
	endSpan(span, err)

	if err != nil {
		SendError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, properties)
}

func (h *PropertyHandler) SetPropertyStatus(c *gin.Context) {
	id, err := pathUUID(c, "id")

	if err != nil {
		SendError(c, err)
		return
	}

	active, err := queryBool(c, "active")

	if err != nil {
		SendError(c, err)
		return
	}

	property, err := h.svc.SetActive(c.Request.Context(), id, active)

	if err != nil {
		SendError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, property)
}
