package handlers

import (
	"strconv"

	"reviewradar/internal/models"
	"reviewradar/internal/services"
	"reviewradar/pkg/database"
	"reviewradar/pkg/response"
	"reviewradar/pkg/utils"

	"github.com/gin-gonic/gin"
)

func GetTargets(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 10
	}

	var targets []models.Target
	var total int64

	database.DB.Model(&models.Target{}).Where("status = ?", 1).Count(&total)

	offset := (page - 1) * pageSize
	err := database.DB.Preload("User").Where("status = ?", 1).
		Offset(offset).Limit(pageSize).Find(&targets).Error
	if err != nil {
		response.InternalServerError(c, "failed to list targets")
		return
	}

	for i := range targets {
		targets[i].User.Password = ""
	}

	response.Page(c, targets, total, page, pageSize)
}

func CreateTarget(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, "not logged in")
		return
	}

	var req struct {
		Name           string `json:"name" binding:"required,min=1,max=200"`
		URL            string `json:"url" binding:"required,url"`
		SiteProfile    string `json:"site_profile" binding:"max=100"`
		CronExpression string `json:"cron_expression" binding:"max=100"`
		SolverConfig   string `json:"solver_config"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var existing models.Target
	err := database.DB.Where("name = ? AND user_id = ? AND status = ?", req.Name, userID, 1).
		First(&existing).Error
	if err == nil {
		response.BadRequest(c, "target name already exists")
		return
	}

	if req.SiteProfile == "" {
		req.SiteProfile = "generic"
	}

	target := models.Target{
		Name:           req.Name,
		URL:            req.URL,
		SiteProfile:    req.SiteProfile,
		CronExpression: req.CronExpression,
		SolverConfig:   req.SolverConfig,
		UserID:         userID.(uint),
		Status:         1,
	}

	if target.SolverConfig != "" {
		if _, err := target.SolverOverrides(); err != nil {
			response.BadRequest(c, "solver_config is not valid JSON")
			return
		}
	}

	err = database.DB.Create(&target).Error
	if err != nil {
		response.InternalServerError(c, "failed to create target")
		return
	}

	if target.CronExpression != "" && services.GlobalScheduler != nil {
		if err := services.GlobalScheduler.AddTargetSchedule(target); err != nil {
			response.BadRequest(c, "invalid cron expression: "+err.Error())
			return
		}
	}

	database.DB.Preload("User").First(&target, target.ID)
	target.User.Password = ""

	response.SuccessWithMessage(c, "target created", target)
}

func GetTarget(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid target id")
		return
	}

	var target models.Target
	err = database.DB.Preload("User").Where("status = ?", 1).First(&target, id).Error
	if err != nil {
		response.NotFound(c, "target not found")
		return
	}

	target.User.Password = ""
	response.Success(c, target)
}

func UpdateTarget(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid target id")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, "not logged in")
		return
	}

	if !utils.HasPermissionOnTarget(userID.(uint), uint(id)) {
		response.Forbidden(c, "no permission on this target")
		return
	}

	var req struct {
		Name           string  `json:"name" binding:"omitempty,min=1,max=200"`
		URL            string  `json:"url" binding:"omitempty,url"`
		SiteProfile    string  `json:"site_profile" binding:"max=100"`
		CronExpression *string `json:"cron_expression"`
		SolverConfig   *string `json:"solver_config"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var target models.Target
	err = database.DB.Where("id = ? AND status = ?", id, 1).First(&target).Error
	if err != nil {
		response.NotFound(c, "target not found")
		return
	}

	if req.Name != "" {
		target.Name = req.Name
	}
	if req.URL != "" {
		target.URL = req.URL
	}
	if req.SiteProfile != "" {
		target.SiteProfile = req.SiteProfile
	}
	if req.SolverConfig != nil {
		target.SolverConfig = *req.SolverConfig
		if target.SolverConfig != "" {
			if _, err := target.SolverOverrides(); err != nil {
				response.BadRequest(c, "solver_config is not valid JSON")
				return
			}
		}
	}

	scheduleChanged := false
	if req.CronExpression != nil && *req.CronExpression != target.CronExpression {
		target.CronExpression = *req.CronExpression
		scheduleChanged = true
	}

	err = database.DB.Save(&target).Error
	if err != nil {
		response.InternalServerError(c, "failed to update target")
		return
	}

	if scheduleChanged && services.GlobalScheduler != nil {
		services.GlobalScheduler.RemoveTargetSchedule(target.ID)
		if target.CronExpression != "" {
			if err := services.GlobalScheduler.AddTargetSchedule(target); err != nil {
				response.BadRequest(c, "invalid cron expression: "+err.Error())
				return
			}
		}
	}

	database.DB.Preload("User").First(&target, target.ID)
	target.User.Password = ""

	response.SuccessWithMessage(c, "target updated", target)
}

func DeleteTarget(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid target id")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, "not logged in")
		return
	}

	if !utils.HasPermissionOnTarget(userID.(uint), uint(id)) {
		response.Forbidden(c, "no permission on this target")
		return
	}

	var target models.Target
	err = database.DB.Where("id = ? AND status = ?", id, 1).First(&target).Error
	if err != nil {
		response.NotFound(c, "target not found")
		return
	}

	// Soft delete by setting status to 0
	target.Status = 0
	err = database.DB.Save(&target).Error
	if err != nil {
		response.InternalServerError(c, "failed to delete target")
		return
	}

	if services.GlobalScheduler != nil {
		services.GlobalScheduler.RemoveTargetSchedule(target.ID)
	}

	response.SuccessWithMessage(c, "target deleted", nil)
}

// ExecuteTarget kicks off an on-demand crawl run.
func ExecuteTarget(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid target id")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, "not logged in")
		return
	}

	if !utils.HasPermissionOnTarget(userID.(uint), uint(id)) {
		response.Forbidden(c, "no permission on this target")
		return
	}

	var target models.Target
	err = database.DB.Where("id = ? AND status = ?", id, 1).First(&target).Error
	if err != nil {
		response.NotFound(c, "target not found")
		return
	}

	if services.GlobalCrawl == nil {
		response.InternalServerError(c, "crawl service not available")
		return
	}

	run, err := services.GlobalCrawl.StartRun(&target, userID.(uint))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "crawl started", run)
}
