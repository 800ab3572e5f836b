package job

import (
	"context"
	"time"

	"job-board/internal/domain/event"
	domainJob "job-board/internal/domain/job"
	"job-board/internal/logger"
	appErrors "job-board/pkg/errors"
	"job-board/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements job posting use cases
type Service struct {
	jobRepo   domainJob.Repository
	publisher event.Publisher
	now       func() time.Time
}

func NewService(jobRepo domainJob.Repository, publisher event.Publisher) *Service {
	if publisher == nil {
		publisher = event.NoopPublisher{}
	}
	return &Service{
		jobRepo:   jobRepo,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *Service) Create(ctx context.Context, posterID uuid.UUID, req *CreateJobRequest) (*JobResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}
	if err := ValidateSalaryRange(req.SalaryRange); err != nil {
		return nil, err
	}

	j := &domainJob.Job{
		Title:           utils.SanitizeString(req.Title),
		Description:     utils.SanitizeText(req.Description),
		CompanyName:     utils.SanitizeString(req.CompanyName),
		Location:        utils.SanitizeString(req.Location),
		EmploymentType:  utils.SanitizeString(req.EmploymentType),
		JobType:         utils.SanitizeString(req.JobType),
		ExperienceLevel: utils.SanitizeString(req.ExperienceLevel),
		Skills:          utils.SanitizeList(req.Skills),

		PostedBy:            posterID,
		PostedDate:          s.now().UTC(),
		ApplicationDeadline: req.ApplicationDeadline.UTC(),
		IsActive:            true,

		RequiredEducation:       utils.SanitizeString(req.RequiredEducation),
		RequiredLanguages:       utils.SanitizeList(req.RequiredLanguages),
		NumberOfOpenings:        1,
		ApplicationLink:         req.ApplicationLink,
		ContactEmail:            utils.SanitizeEmail(req.ContactEmail),
		ApplicationInstructions: utils.SanitizeText(req.ApplicationInstructions),
		Benefits:                utils.SanitizeList(req.Benefits),
		WorkHours:               utils.SanitizeString(req.WorkHours),
	}

	if req.Remote != nil {
		j.Remote = *req.Remote
	}
	if req.SalaryRange != nil {
		j.SalaryRange = domainJob.SalaryRange(*req.SalaryRange)
	}
	if req.PostedDate != nil {
		j.PostedDate = req.PostedDate.UTC()
	}
	if req.IsActive != nil {
		j.IsActive = *req.IsActive
	}
	if req.NumberOfOpenings != nil {
		j.NumberOfOpenings = *req.NumberOfOpenings
	}

	if err := s.jobRepo.Create(ctx, j); err != nil {
		return nil, err
	}

	logger.Info("Job posted",
		zap.String("job_id", j.ID.String()),
		zap.String("posted_by", posterID.String()),
		zap.String("event", "job_created"),
	)

	resp := ToJobResponse(j)
	s.publish(ctx, event.New(event.JobCreated, j.ID, posterID, resp))
	return resp, nil
}

func (s *Service) Get(ctx context.Context, jobID uuid.UUID) (*JobResponse, error) {
	j, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return ToJobResponse(j), nil
}

func (s *Service) List(ctx context.Context, req *ListJobsRequest) (*JobListResponse, error) {
	return s.list(ctx, req, nil)
}

func (s *Service) ListByPoster(ctx context.Context, posterID uuid.UUID, req *ListJobsRequest) (*JobListResponse, error) {
	return s.list(ctx, req, &posterID)
}

func (s *Service) Update(ctx context.Context, callerID, jobID uuid.UUID, req *UpdateJobRequest) (*JobResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	j, err := s.owned(ctx, callerID, jobID)
	if err != nil {
		return nil, err
	}

	applyUpdate(j, req)
	if err := ValidateSalaryRange((*SalaryRangeDTO)(&j.SalaryRange)); err != nil {
		return nil, err
	}

	if err := s.jobRepo.Update(ctx, j); err != nil {
		return nil, err
	}

	logger.Info("Job updated",
		zap.String("job_id", j.ID.String()),
		zap.String("updated_by", callerID.String()),
		zap.String("event", "job_updated"),
	)

	resp := ToJobResponse(j)
	s.publish(ctx, event.New(event.JobUpdated, j.ID, callerID, resp))
	return resp, nil
}

func (s *Service) Delete(ctx context.Context, callerID, jobID uuid.UUID) error {
	if _, err := s.owned(ctx, callerID, jobID); err != nil {
		return err
	}

	if err := s.jobRepo.Delete(ctx, jobID); err != nil {
		return err
	}

	logger.Info("Job deleted",
		zap.String("job_id", jobID.String()),
		zap.String("deleted_by", callerID.String()),
		zap.String("event", "job_deleted"),
	)

	s.publish(ctx, event.New(event.JobDeleted, jobID, callerID, nil))
	return nil
}

// ToggleStatus flips IsActive.
func (s *Service) ToggleStatus(ctx context.Context, callerID, jobID uuid.UUID) (*JobResponse, error) {
	j, err := s.owned(ctx, callerID, jobID)
	if err != nil {
		return nil, err
	}

	j.IsActive = !j.IsActive
	if err := s.jobRepo.Update(ctx, j); err != nil {
		return nil, err
	}

	logger.Info("Job status changed",
		zap.String("job_id", j.ID.String()),
		zap.Bool("is_active", j.IsActive),
		zap.String("event", "job_status_changed"),
	)

	resp := ToJobResponse(j)
	s.publish(ctx, event.New(event.JobStatusChanged, j.ID, callerID, resp))
	return resp, nil
}

func (s *Service) list(ctx context.Context, req *ListJobsRequest, postedBy *uuid.UUID) (*JobListResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	filter := &domainJob.Filter{
		Keyword:        req.Keyword,
		Location:       req.Location,
		JobType:        req.JobType,
		EmploymentType: req.EmploymentType,
		PostedBy:       postedBy,
		Page:           req.Page,
		Limit:          req.Limit,
		SortBy:         req.SortBy,
		SortOrder:      req.Order,
	}
	filter.Normalize()

	jobs, total, err := s.jobRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*JobResponse, 0, len(jobs))
	for _, j := range jobs {
		items = append(items, ToJobResponse(j))
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))

	return &JobListResponse{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *Service) owned(ctx context.Context, callerID, jobID uuid.UUID) (*domainJob.Job, error) {
	j, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !j.OwnedBy(callerID) {
		logger.Warn("Job modification by non-owner",
			zap.String("job_id", jobID.String()),
			zap.String("user_id", callerID.String()),
			zap.String("event", "job_forbidden"),
		)
		return nil, appErrors.ErrForbidden
	}
	return j, nil
}

func (s *Service) publish(ctx context.Context, evt event.Event) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		logger.Warn("Failed to publish event",
			zap.String("type", string(evt.Type)),
			zap.String("event", "event_publish_failed"),
			zap.Error(err),
		)
	}
}

// applyUpdate copies the provided fields. PostedBy is never touched.
func applyUpdate(j *domainJob.Job, req *UpdateJobRequest) {
	if req.Title != nil {
		j.Title = utils.SanitizeString(*req.Title)
	}
	if req.Description != nil {
		j.Description = utils.SanitizeText(*req.Description)
	}
	if req.CompanyName != nil {
		j.CompanyName = utils.SanitizeString(*req.CompanyName)
	}
	if req.Location != nil {
		j.Location = utils.SanitizeString(*req.Location)
	}
	if req.EmploymentType != nil {
		j.EmploymentType = utils.SanitizeString(*req.EmploymentType)
	}
	if req.JobType != nil {
		j.JobType = utils.SanitizeString(*req.JobType)
	}
	if req.Remote != nil {
		j.Remote = *req.Remote
	}
	if req.SalaryRange != nil {
		j.SalaryRange = domainJob.SalaryRange(*req.SalaryRange)
	}
	if req.ExperienceLevel != nil {
		j.ExperienceLevel = utils.SanitizeString(*req.ExperienceLevel)
	}
	if req.Skills != nil {
		j.Skills = utils.SanitizeList(req.Skills)
	}
	if req.PostedDate != nil {
		j.PostedDate = req.PostedDate.UTC()
	}
	if req.ApplicationDeadline != nil {
		j.ApplicationDeadline = req.ApplicationDeadline.UTC()
	}
	if req.IsActive != nil {
		j.IsActive = *req.IsActive
	}
	if req.RequiredEducation != nil {
		j.RequiredEducation = utils.SanitizeString(*req.RequiredEducation)
	}
	if req.RequiredLanguages != nil {
		j.RequiredLanguages = utils.SanitizeList(req.RequiredLanguages)
	}
	if req.NumberOfOpenings != nil {
		j.NumberOfOpenings = *req.NumberOfOpenings
	}
	if req.ApplicationLink != nil {
		j.ApplicationLink = *req.ApplicationLink
	}
	if req.ContactEmail != nil {
		j.ContactEmail = utils.SanitizeEmail(*req.ContactEmail)
	}
	if req.ApplicationInstructions != nil {
		j.ApplicationInstructions = utils.SanitizeText(*req.ApplicationInstructions)
	}
	if req.Benefits != nil {
		j.Benefits = utils.SanitizeList(req.Benefits)
	}
	if req.WorkHours != nil {
		j.WorkHours = utils.SanitizeString(*req.WorkHours)
	}
}
