package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/inventory-ledger/internal/api_gateway/service"
	"github.com/inventory-ledger/internal/domain/normalize"
)

// UserHandler handles HTTP requests for transaction owners
type UserHandler struct {
	userService service.UserService
	paging      Paging
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(logger *slog.Logger, userService service.UserService, paging Paging) *UserHandler {
	return &UserHandler{
		userService: userService,
		paging:      paging,
		logger:      logger,
	}
}

// Create registers a user; a taken email yields 409
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	u, err := h.userService.CreateUser(c.Request.Context(), req.Email, req.FullName)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	RespondCreated(c, mapUserToResponse(u))
}

func (h *UserHandler) List(c *gin.Context) {
	offset, limit, err := normalize.Page(c.Query("offset"), c.Query("limit"), h.paging.DefaultLimit, h.paging.MaxLimit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), offset, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = mapUserToResponse(u)
	}
	RespondWithList(c, out, offset, limit, len(out))
}

func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	u, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	RespondOK(c, mapUserToResponse(u))
}

// Delete removes a user and, through the foreign key, all of their transactions
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	u, err := h.userService.DeleteUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	RespondOK(c, mapUserToResponse(u))
}
