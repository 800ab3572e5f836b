package mongo

import (
	"testing"

	"job-board/internal/domain/job"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildJobFilter(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	got := buildJobFilter(&job.Filter{
		Keyword:        "go (senior)",
		Location:       "Berlin",
		JobType:        "engineering",
		EmploymentType: "full-time",
		PostedBy:       &owner,
	})

	assert.Equal(t, bson.D{
		{Key: "title", Value: primitive.Regex{Pattern: `go \(senior\)`, Options: "i"}},
		{Key: "location", Value: primitive.Regex{Pattern: "Berlin", Options: "i"}},
		{Key: "job_type", Value: "engineering"},
		{Key: "employment_type", Value: "full-time"},
		{Key: "posted_by", Value: owner.String()},
	}, got)
}

func TestBuildJobFilter_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, buildJobFilter(&job.Filter{}))
}

func TestJobFindOptions(t *testing.T) {
	t.Parallel()

	f := &job.Filter{Page: 3, Limit: 20, SortBy: job.SortTitle, SortOrder: job.OrderAsc}
	opts := jobFindOptions(f)

	assert.Equal(t, bson.D{{Key: "title", Value: 1}, {Key: "_id", Value: 1}}, opts.Sort)
	assert.EqualValues(t, 40, *opts.Skip)
	assert.EqualValues(t, 20, *opts.Limit)

	f.SortOrder = job.OrderDesc
	assert.Equal(t, bson.D{{Key: "title", Value: -1}, {Key: "_id", Value: 1}}, jobFindOptions(f).Sort)
}
