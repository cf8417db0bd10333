package handlers

import (
	"net/http"

	portssvc "github.com/daftarhq/daftar/internal/core/ports/services"
	"github.com/daftarhq/daftar/internal/dto"
	"github.com/gin-gonic/gin"
)

// userHandler manages operator accounts. Authorization is enforced in the
// service layer; these handlers only shape requests and responses.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

// newUserHandler creates a new userHandler.
func newUserHandler(userService portssvc.UserSvcFacade) *userHandler {
	return &userHandler{userService: userService}
}

// createUser adds an operator account.
func (h *userHandler) createUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, dto.ToUserResponse(*user))
}

// listUsers returns every operator account.
func (h *userHandler) listUsers(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to list users")
		return
	}
	responses := make([]dto.UserResponse, len(users))
	for i, user := range users {
		responses[i] = dto.ToUserResponse(user)
	}
	c.JSON(http.StatusOK, gin.H{"users": responses})
}

// deactivateUser disables an operator account.
func (h *userHandler) deactivateUser(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	if err := h.userService.DeactivateUser(c.Request.Context(), actor, c.Param("userID")); err != nil {
		respondError(c, err, "Failed to deactivate user")
		return
	}
	c.Status(http.StatusNoContent)
}

// registerUserRoutes registers operator account routes.
func registerUserRoutes(group *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)

	users := group.Group("/users")
	{
		users.POST("", h.createUser)
		users.GET("", h.listUsers)
		users.DELETE("/:userID", h.deactivateUser)
	}
}
