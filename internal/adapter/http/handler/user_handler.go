package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	. "bookingapp/internal/adapter/http/helper"
	. "bookingapp/internal/adapter/http/validation"
	"bookingapp/internal/core/domain"
	"bookingapp/internal/core/model/request"
	"bookingapp/internal/core/port"
)

type UserHandler struct {
	svc port.UserService
}

func NewUserHandler(svc port.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var params request.UserCreationRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		SendError(c, BindError(err, "body"))
		return
	}

	if err := ValidateStruct(params); err != nil {
		SendError(c, err)
		return
	}

	user, err := h.svc.Create(c.Request.Context(), params)

	if err != nil {
		SendError(c, err)
		return
	}

	SendSuccess(c, http.StatusCreated, user)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := pathUUID(c, "id")

	if err != nil {
		SendError(c, err)
		return
	}

	user, err := h.svc.GetByID(c.Request.Context(), id)

	if err != nil {
		SendError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, user)
}

func (h *UserHandler) GetUserByEmail(c *gin.Context) {
	email := c.Param("email")

	if err := Validator.Var(email, "required,email"); err != nil {
		SendError(c, domain.NewValidationError(map[string]string{"email": "email must be a valid email address"}))
		return
	}

	user, err := h.svc.GetByEmail(c.Request.Context(), email)

	if err != nil {
		SendError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, user)
}

func (h *UserHandler) GetUsersByIDs(c *gin.Context) {
	var batch request.BatchRequest

	if err := c.ShouldBindJSON(&batch); err != nil {
		SendError(c, BindError(err, "ids"))
		return
	}

	ids := batch.Distinct()

	if err := ValidateBatch(ids); err != nil {
		SendError(c, err)
		return
	}

	users, err := h.svc.GetByIDs(c.Request.Context(), ids)

	if err != nil {
		SendError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, users)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	var page request.PageRequest

	if err := c.ShouldBindQuery(&page); err != nil {
		SendError(c, BindError(err, "page"))
		return
	}

	if err := ValidateStruct(page); err != nil {
		SendError(c, err)
		return
	}

	users, err := h.svc.GetAll(c.Request.Context(), page.Page, page.Size)

	if err != nil {
		SendError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, users)
}

func (h *UserHandler) PatchUser(c *gin.Context) {
	id, err := pathUUID(c, "id")

	if err != nil {
		SendError(c, err)
		return
	}

	var params request.UserPatchRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		SendError(c, BindError(err, "body"))
		return
	}

	if err := ValidateStruct(params); err != nil {
		SendError(c, err)
		return
	}

	user, err := h.svc.Patch(c.Request.Context(), id, params)

	if err != nil {
		SendError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, user)
}

func (h *UserHandler) SetUserDeleted(c *gin.Context) {
	id, err := pathUUID(c, "id")

	if err != nil {
		SendError(c, err)
		return
	}

	deleted, err := queryBool(c, "deleted")

	if err != nil {
		SendError(c, err)
		return
	}

	user, err := h.svc.SetDeleted(c.Request.Context(), id, deleted)

	if err != nil {
		SendError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, user)
}
