package handlers

import (
	"reviewradar/internal/models"
	"reviewradar/pkg/database"
	"reviewradar/pkg/response"
	"reviewradar/pkg/utils"

	"github.com/gin-gonic/gin"
)

func GetProfile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, "not logged in")
		return
	}

	var user models.User
	err := database.DB.First(&user, userID).Error
	if err != nil {
		response.InternalServerError(c, "failed to load profile")
		return
	}

	// Clear password
	user.Password = ""
	response.Success(c, user)
}

func UpdateProfile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, "not logged in")
		return
	}

	var req struct {
		Email       string `json:"email" binding:"omitempty,email"`
		OldPassword string `json:"old_password" binding:"omitempty,min=6"`
		NewPassword string `json:"new_password" binding:"omitempty,min=6"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var user models.User
	err := database.DB.First(&user, userID).Error
	if err != nil {
		response.InternalServerError(c, "failed to load profile")
		return
	}

	if req.Email != "" {
		user.Email = req.Email
	}

	if req.NewPassword != "" {
		if !utils.CheckPassword(req.OldPassword, user.Password) {
			response.Unauthorized(c, "old password is incorrect")
			return
		}
		hashed, err := utils.HashPassword(req.NewPassword)
		if err != nil {
			response.InternalServerError(c, "failed to hash password")
			return
		}
		user.Password = hashed
	}

	if err := database.DB.Save(&user).Error; err != nil {
		response.InternalServerError(c, "failed to update profile")
		return
	}

	user.Password = ""
	response.SuccessWithMessage(c, "profile updated", user)
}
