package handler

import (
	"net/http"

	"job-board/internal/usecase/job"
	"job-board/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type JobHandler struct {
	service *job.Service
}

func NewJobHandler(service *job.Service) *JobHandler {
	return &JobHandler{service: service}
}

func (h *JobHandler) RegisterRoutes(router *gin.RouterGroup) {
	jobs := router.Group("/jobs")
	{
		jobs.GET("", h.ListJobs)
		jobs.GET("/:job_id", h.GetJob)
		jobs.GET("/user/:user_id", h.ListJobsByUser)
	}
}

// RegisterRecruiterRoutes expects router to carry the auth and recruiter guards.
func (h *JobHandler) RegisterRecruiterRoutes(router *gin.RouterGroup) {
	jobs := router.Group("/jobs")
	{
		jobs.POST("", h.CreateJob)
		jobs.PUT("/:job_id", h.UpdateJob)
		jobs.DELETE("/:job_id", h.DeleteJob)
		jobs.PATCH("/:job_id/status", h.ToggleStatus)
	}
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req job.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.service.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "job posted successfully", created)
}

func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, ok := parseUUIDParam(c, "job_id", "Invalid job ID")
	if !ok {
		return
	}

	found, err := h.service.Get(c.Request.Context(), jobID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Job retrieved successfully", found)
}

func (h *JobHandler) ListJobs(c *gin.Context) {
	var req job.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	jobs, err := h.service.List(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "get all jobs here", jobs)
}

func (h *JobHandler) ListJobsByUser(c *gin.Context) {
	posterID, ok := parseUUIDParam(c, "user_id", "Invalid user ID")
	if !ok {
		return
	}

	var req job.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	jobs, err := h.service.ListByPoster(c.Request.Context(), posterID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Jobs created by user retrieved successfully", jobs)
}

func (h *JobHandler) UpdateJob(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	jobID, ok := parseUUIDParam(c, "job_id", "Invalid job ID")
	if !ok {
		return
	}

	var req job.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.service.Update(c.Request.Context(), userID, jobID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "job updated successfully", updated)
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	jobID, ok := parseUUIDParam(c, "job_id", "Invalid job ID")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, jobID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Job successfully deleted", nil)
}

func (h *JobHandler) ToggleStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	jobID, ok := parseUUIDParam(c, "job_id", "Invalid job ID")
	if !ok {
		return
	}

	updated, err := h.service.ToggleStatus(c.Request.Context(), userID, jobID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Job status updated successfully", updated)
}

func parseUUIDParam(c *gin.Context, name, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, message)
		return uuid.Nil, false
	}
	return id, true
}
