package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"job-board/internal/domain/job"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type JobRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewJobRepository(coll *mongo.Collection, timeout time.Duration) *JobRepository {
	return &JobRepository{coll: coll, timeout: timeout}
}

func (r *JobRepository) Create(ctx context.Context, j *job.Job) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	now := time.Now().UTC()
	j.CreatedAt = now
	j.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, toJobDocument(j)); err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

func (r *JobRepository) GetByID(ctx context.Context, jobID uuid.UUID) (*job.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var doc jobDocument
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: jobID.String()}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, job.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return toJobEntity(&doc)
}

func (r *JobRepository) Update(ctx context.Context, j *job.Job) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	j.UpdatedAt = time.Now().UTC()
	doc := toJobDocument(j)

	result, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: doc.ID}}, doc)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	if result.MatchedCount == 0 {
		return job.ErrJobNotFound
	}
	return nil
}

func (r *JobRepository) Delete(ctx context.Context, jobID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: jobID.String()}})
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if result.DeletedCount == 0 {
		return job.ErrJobNotFound
	}
	return nil
}

func (r *JobRepository) List(ctx context.Context, filter *job.Filter) ([]*job.Job, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	f := *filter
	f.Normalize()
	query := buildJobFilter(&f)

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	cursor, err := r.coll.Find(ctx, query, jobFindOptions(&f))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []jobDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode jobs: %w", err)
	}

	jobs := make([]*job.Job, 0, len(docs))
	for i := range docs {
		j, err := toJobEntity(&docs[i])
		if err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, j)
	}
	return jobs, total, nil
}
