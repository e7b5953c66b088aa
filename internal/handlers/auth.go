package handlers

import (
	"errors"
	"net/http"

	"smart_temperature/internal/service"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// @Summary      Log in with the shared password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "message, success, token"
// @Failure      401  {object}  map[string]interface{}
// @Router       /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input loginRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	token, err := h.services.Login(c.Request.Context(), input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPassword) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "incorrect password",
				"success": false,
			})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "login failed", "auth_login_failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"success": true,
		"token":   token,
	})
}

// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /auth/logout [post]
func (h *Handler) logout(c *gin.Context) {
	// Tokens are stateless; the client discards its copy. The endpoint stays
	// for compatibility with the original surface.
	c.JSON(http.StatusOK, gin.H{
		"message": "logout successful",
		"success": true,
	})
}

// @Summary      Change the shared password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /auth/change-password [post]
func (h *Handler) changePassword(c *gin.Context) {
	var input changePasswordRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	err := h.services.ChangePassword(c.Request.Context(), input.OldPassword, input.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPassword):
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "old password incorrect",
				"success": false,
			})
		case errors.Is(err, service.ErrPasswordTooShort):
			c.JSON(http.StatusBadRequest, gin.H{
				"message": err.Error(),
				"success": false,
			})
		default:
			h.logAndJSONError(c, http.StatusInternalServerError, "failed to change password", "auth_change_password_failed", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "password changed successfully",
		"success": true,
	})
}
