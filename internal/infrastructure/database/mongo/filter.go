package mongo

import (
	"regexp"

	"job-board/internal/domain/job"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func buildJobFilter(f *job.Filter) bson.D {
	filter := bson.D{}

	if f.Keyword != "" {
		filter = append(filter, bson.E{Key: "title", Value: containsRegex(f.Keyword)})
	}
	if f.Location != "" {
		filter = append(filter, bson.E{Key: "location", Value: containsRegex(f.Location)})
	}
	if f.JobType != "" {
		filter = append(filter, bson.E{Key: "job_type", Value: f.JobType})
	}
	if f.EmploymentType != "" {
		filter = append(filter, bson.E{Key: "employment_type", Value: f.EmploymentType})
	}
	if f.PostedBy != nil {
		filter = append(filter, bson.E{Key: "posted_by", Value: f.PostedBy.String()})
	}

	return filter
}

// containsRegex matches s literally, case-insensitive.
func containsRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

// jobFindOptions expects a normalized filter. _id breaks ties so pages are stable.
func jobFindOptions(f *job.Filter) *options.FindOptions {
	direction := -1
	if f.SortOrder == job.OrderAsc {
		direction = 1
	}

	return options.Find().
		SetSort(bson.D{{Key: f.SortBy, Value: direction}, {Key: "_id", Value: 1}}).
		SetSkip(int64(f.Offset())).
		SetLimit(int64(f.Limit))
}
