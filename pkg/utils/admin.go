package utils

import (
	"reviewradar/internal/models"
	"reviewradar/pkg/database"
)

// IsAdmin checks if the user with given ID is an admin user
func IsAdmin(userID uint) bool {
	var user models.User
	err := database.DB.First(&user, userID).Error
	if err != nil {
		return false
	}
	return user.Username == "admin"
}

// HasPermissionOnTarget checks if user has permission on a target (owner or admin)
func HasPermissionOnTarget(userID uint, targetID uint) bool {
	if IsAdmin(userID) {
		return true
	}

	var target models.Target
	err := database.DB.Where("id = ? AND user_id = ? AND status = ?", targetID, userID, 1).First(&target).Error
	return err == nil
}

// HasPermissionOnRun checks if user has permission on a crawl run (run owner, target owner, or admin)
func HasPermissionOnRun(userID uint, runID uint) bool {
	if IsAdmin(userID) {
		return true
	}

	var run models.CrawlRun
	err := database.DB.Preload("Target").First(&run, runID).Error
	if err != nil {
		return false
	}

	return run.UserID == userID || run.Target.UserID == userID
}
