package job

import (
	"context"
	"testing"
	"time"

	"job-board/internal/domain/event"
	domainJob "job-board/internal/domain/job"
	"job-board/internal/infrastructure/database/memory"
	appErrors "job-board/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockJobRepository struct {
	mock.Mock
}

func (m *mockJobRepository) Create(ctx context.Context, j *domainJob.Job) error {
	args := m.Called(ctx, j)
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockJobRepository) GetByID(ctx context.Context, jobID uuid.UUID) (*domainJob.Job, error) {
	args := m.Called(ctx, jobID)
	j, _ := args.Get(0).(*domainJob.Job)
	return j, args.Error(1)
}

func (m *mockJobRepository) Update(ctx context.Context, j *domainJob.Job) error {
	return m.Called(ctx, j).Error(0)
}

func (m *mockJobRepository) Delete(ctx context.Context, jobID uuid.UUID) error {
	return m.Called(ctx, jobID).Error(0)
}

func (m *mockJobRepository) List(ctx context.Context, filter *domainJob.Filter) ([]*domainJob.Job, int64, error) {
	args := m.Called(ctx, filter)
	jobs, _ := args.Get(0).([]*domainJob.Job)
	return jobs, args.Get(1).(int64), args.Error(2)
}

type recordingPublisher struct {
	events []event.Event
}

func (p *recordingPublisher) Publish(_ context.Context, evt event.Event) error {
	p.events = append(p.events, evt)
	return nil
}

func validCreateRequest() *CreateJobRequest {
	deadline := time.Now().Add(30 * 24 * time.Hour)
	return &CreateJobRequest{
		Title:               "Backend Engineer",
		Description:         "Build APIs",
		CompanyName:         "Acme",
		Location:            "Berlin",
		EmploymentType:      "full-time",
		JobType:             "engineering",
		Skills:              []string{"go", " sql "},
		ApplicationDeadline: &deadline,
		ContactEmail:        "Jobs@Acme.io",
	}
}

func TestCreate_AppliesDefaults(t *testing.T) {
	repo := &mockJobRepository{}
	pub := &recordingPublisher{}
	svc := NewService(repo, pub)
	poster := uuid.New()

	repo.On("Create", mock.Anything, mock.MatchedBy(func(j *domainJob.Job) bool {
		return j.PostedBy == poster &&
			j.IsActive &&
			!j.Remote &&
			j.NumberOfOpenings == 1 &&
			!j.PostedDate.IsZero() &&
			j.ContactEmail == "jobs@acme.io"
	})).Return(nil).Once()

	resp, err := svc.Create(context.Background(), poster, validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "sql"}, resp.Skills)
	assert.Equal(t, poster, resp.PostedBy)

	require.Len(t, pub.events, 1)
	assert.Equal(t, event.JobCreated, pub.events[0].Type)
	repo.AssertExpectations(t)
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(&mockJobRepository{}, nil)

	missing := validCreateRequest()
	missing.Skills = nil
	missing.Title = ""
	_, err := svc.Create(context.Background(), uuid.New(), missing)
	var appErr *appErrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Please fill in all the required fields", appErr.Message)

	badEmail := validCreateRequest()
	badEmail.ContactEmail = "not-an-email"
	_, err = svc.Create(context.Background(), uuid.New(), badEmail)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "contact_email must be a valid email", appErr.Message)

	lo, hi := 5000.0, 1000.0
	badSalary := validCreateRequest()
	badSalary.SalaryRange = &SalaryRangeDTO{Min: &lo, Max: &hi}
	_, err = svc.Create(context.Background(), uuid.New(), badSalary)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.CodeValidation, appErr.Code)
}

func TestUpdate_PartialAndOwnerOnly(t *testing.T) {
	repo := &mockJobRepository{}
	svc := NewService(repo, nil)
	owner := uuid.New()
	existing := &domainJob.Job{
		ID:       uuid.New(),
		Title:    "Old title",
		Location: "Berlin",
		PostedBy: owner,
		IsActive: true,
		Skills:   []string{"go"},
	}

	repo.On("GetByID", mock.Anything, existing.ID).Return(existing.Clone(), nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(j *domainJob.Job) bool {
		return j.Title == "New title" && j.Location == "Berlin" && j.PostedBy == owner
	})).Return(nil).Once()

	title := "New title"
	resp, err := svc.Update(context.Background(), owner, existing.ID, &UpdateJobRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "New title", resp.Title)
	assert.Equal(t, "Berlin", resp.Location)

	_, err = svc.Update(context.Background(), uuid.New(), existing.ID, &UpdateJobRequest{Title: &title})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
	repo.AssertExpectations(t)
}

func TestDelete(t *testing.T) {
	repo := &mockJobRepository{}
	svc := NewService(repo, nil)
	owner := uuid.New()
	jobID := uuid.New()
	missing := uuid.New()

	repo.On("GetByID", mock.Anything, jobID).Return(&domainJob.Job{ID: jobID, PostedBy: owner}, nil)
	repo.On("GetByID", mock.Anything, missing).Return(nil, domainJob.ErrJobNotFound)
	repo.On("Delete", mock.Anything, jobID).Return(nil).Once()

	assert.ErrorIs(t, svc.Delete(context.Background(), uuid.New(), jobID), appErrors.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(context.Background(), owner, missing), appErrors.ErrJobNotFound)
	assert.NoError(t, svc.Delete(context.Background(), owner, jobID))
	repo.AssertExpectations(t)
}

func TestToggleStatus(t *testing.T) {
	repo := &mockJobRepository{}
	pub := &recordingPublisher{}
	svc := NewService(repo, pub)
	owner := uuid.New()
	jobID := uuid.New()

	repo.On("GetByID", mock.Anything, jobID).Return(&domainJob.Job{ID: jobID, PostedBy: owner, IsActive: true}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(j *domainJob.Job) bool { return !j.IsActive })).Return(nil).Once()

	resp, err := svc.ToggleStatus(context.Background(), owner, jobID)
	require.NoError(t, err)
	assert.False(t, resp.IsActive)
	require.Len(t, pub.events, 1)
	assert.Equal(t, event.JobStatusChanged, pub.events[0].Type)
}

func TestList_NormalizesFilterAndPages(t *testing.T) {
	repo := &mockJobRepository{}
	svc := NewService(repo, nil)
	poster := uuid.New()

	repo.On("List", mock.Anything, mock.MatchedBy(func(f *domainJob.Filter) bool {
		return f.Page == 2 && f.Limit == 10 && f.SortBy == domainJob.SortPostedDate &&
			f.SortOrder == domainJob.OrderAsc && f.PostedBy != nil && *f.PostedBy == poster &&
			f.Keyword == "go"
	})).Return([]*domainJob.Job{{ID: uuid.New(), PostedBy: poster}}, int64(21), nil).Once()

	resp, err := svc.ListByPoster(context.Background(), poster, &ListJobsRequest{Keyword: "go", Page: 2, Order: "ASC"})
	require.NoError(t, err)
	assert.EqualValues(t, 21, resp.Total)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Len(t, resp.Items, 1)
	repo.AssertExpectations(t)
}

func TestList_RejectsUnknownSort(t *testing.T) {
	svc := NewService(&mockJobRepository{}, nil)

	_, err := svc.List(context.Background(), &ListJobsRequest{SortBy: "password_hash"})
	var appErr *appErrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "sort_by is invalid", appErr.Message)

	_, err = svc.List(context.Background(), &ListJobsRequest{Limit: 500})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "limit must be at most 100", appErr.Message)
}

func TestCreate_StoresPlainTextThatSearchFinds(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewJobRepository(), nil)
	poster := uuid.New()

	req := validCreateRequest()
	req.Title = " R&D Engineer "
	req.Location = "Köln & Bonn"
	created, err := svc.Create(ctx, poster, req)
	require.NoError(t, err)
	assert.Equal(t, "R&D Engineer", created.Title)

	list, err := svc.List(ctx, &ListJobsRequest{Keyword: "R&D", Location: "köln & bonn"})
	require.NoError(t, err)
	require.EqualValues(t, 1, list.Total)
	assert.Equal(t, created.ID, list.Items[0].ID)

	title := created.Title
	updated, err := svc.Update(ctx, poster, created.ID, &UpdateJobRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "R&D Engineer", updated.Title)
}
