package handlers

import (
	"strconv"

	"reviewradar/internal/models"
	"reviewradar/pkg/database"
	"reviewradar/pkg/response"
	"reviewradar/pkg/utils"

	"github.com/gin-gonic/gin"
)

func GetRuns(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 10
	}

	query := database.DB.Model(&models.CrawlRun{})

	if targetID := c.Query("target_id"); targetID != "" {
		query = query.Where("target_id = ?", targetID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var runs []models.CrawlRun
	var total int64

	query.Count(&total)

	offset := (page - 1) * pageSize
	err := query.Preload("Target").Order("id DESC").
		Offset(offset).Limit(pageSize).Find(&runs).Error
	if err != nil {
		response.InternalServerError(c, "failed to list runs")
		return
	}

	response.Page(c, runs, total, page, pageSize)
}

func GetRun(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid run id")
		return
	}

	var run models.CrawlRun
	err = database.DB.Preload("Target").First(&run, id).Error
	if err != nil {
		response.NotFound(c, "run not found")
		return
	}

	response.Success(c, run)
}

// GetRunAttempts returns the per-attempt solver diagnostics of a run.
func GetRunAttempts(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid run id")
		return
	}

	var attempts []models.SolveAttempt
	err = database.DB.Where("crawl_run_id = ?", id).
		Order("attempt_index ASC").Find(&attempts).Error
	if err != nil {
		response.InternalServerError(c, "failed to load solve attempts")
		return
	}

	response.Success(c, attempts)
}

func GetRunReviews(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid run id")
		return
	}

	var reviews []models.Review
	err = database.DB.Where("crawl_run_id = ?", id).Find(&reviews).Error
	if err != nil {
		response.InternalServerError(c, "failed to load reviews")
		return
	}

	response.Success(c, reviews)
}

func DeleteRun(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid run id")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, "not logged in")
		return
	}

	if !utils.HasPermissionOnRun(userID.(uint), uint(id)) {
		response.Forbidden(c, "no permission on this run")
		return
	}

	var run models.CrawlRun
	if err = database.DB.First(&run, id).Error; err != nil {
		response.NotFound(c, "run not found")
		return
	}

	if run.Status == models.RunStatusRunning {
		response.BadRequest(c, "cannot delete a running crawl")
		return
	}

	database.DB.Where("crawl_run_id = ?", id).Delete(&models.SolveAttempt{})
	database.DB.Where("crawl_run_id = ?", id).Delete(&models.Review{})
	database.DB.Where("crawl_run_id = ?", id).Delete(&models.PricingPlan{})

	if err = database.DB.Delete(&run).Error; err != nil {
		response.InternalServerError(c, "failed to delete run")
		return
	}

	response.SuccessWithMessage(c, "run deleted", nil)
}

// GetRunStatistics summarizes solver effectiveness across all runs.
func GetRunStatistics(c *gin.Context) {
	var total, challenged, solved, blocked int64

	database.DB.Model(&models.CrawlRun{}).Count(&total)
	database.DB.Model(&models.CrawlRun{}).Where("challenge_seen = ?", true).Count(&challenged)
	database.DB.Model(&models.CrawlRun{}).Where("solve_status = ?", "solved").Count(&solved)
	database.DB.Model(&models.CrawlRun{}).Where("status = ?", models.RunStatusBlocked).Count(&blocked)

	var avgAttempts float64
	database.DB.Model(&models.CrawlRun{}).Where("challenge_seen = ?", true).
		Select("COALESCE(AVG(solve_attempts), 0)").Scan(&avgAttempts)

	response.Success(c, gin.H{
		"total_runs":         total,
		"challenged_runs":    challenged,
		"solved_runs":        solved,
		"blocked_runs":       blocked,
		"avg_solve_attempts": avgAttempts,
	})
}
