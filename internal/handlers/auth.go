package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vuelas/api/internal/apperr"
	"vuelas/api/internal/middleware"
	"vuelas/api/internal/models"
	"vuelas/api/internal/service"
)

type registerRequest struct {
	Email    string  `json:"email"`
	Name     string  `json:"nombre"`
	Phone    *string `json:"telefono"`
	Password string  `json:"password"`
	Role     *string `json:"rol"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Name  string  `json:"nombre"`
	Phone *string `json:"telefono"`
	Role  string  `json:"rol"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"usuario"`
}

func newUserResponse(user models.User) userResponse {
	return userResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Phone: user.Phone,
		Role:  string(user.Role),
	}
}

func (h HandlerSet) RegisterUser(c *gin.Context) {
	var req registerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	input := service.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     req.Role,
	}

	result, err := h.authService.Register(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, authResponse{Token: result.Token, User: newUserResponse(result.User)})
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, authResponse{Token: result.Token, User: newUserResponse(result.User)})
}

func (h HandlerSet) Me(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		h.respondError(c, apperr.Unauthorized("No autorizado"))
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), claims.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}
