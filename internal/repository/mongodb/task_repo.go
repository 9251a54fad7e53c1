package mongodb

import (
	"context"
	"errors"
	"regexp"

	"github.com/vedran77/taskly/internal/domain"
	"github.com/vedran77/taskly/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TaskRepo struct {
	coll *mongo.Collection
}

func NewTaskRepo(db *mongo.Database) *TaskRepo {
	return &TaskRepo{coll: db.Collection(tasksCollection)}
}

func (r *TaskRepo) Create(ctx context.Context, task *domain.Task) error {
	doc, err := newTaskDoc(task)
	if err != nil {
		return err
	}
	_, err = r.coll.InsertOne(ctx, doc)
	return translateError(err)
}

func (r *TaskRepo) GetByOwner(ctx context.Context, id, ownerID string) (*domain.Task, error) {
	filter, err := ownedFilter(id, ownerID)
	if err != nil {
		return nil, err
	}

	var doc taskDoc
	err = r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	t := doc.toDomain()
	return &t, nil
}

func (r *TaskRepo) List(ctx context.Context, ownerID string, f repository.TaskFilter) ([]domain.Task, error) {
	owner, err := objectID(ownerID)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(sortSpec(f))
	cur, err := r.coll.Find(ctx, listFilter(owner, f), opts)
	if err != nil {
		return nil, translateError(err)
	}
	defer cur.Close(ctx)

	tasks := []domain.Task{}
	for cur.Next(ctx) {
		var doc taskDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, translateError(err)
		}
		tasks = append(tasks, doc.toDomain())
	}
	return tasks, translateError(cur.Err())
}

func (r *TaskRepo) Update(ctx context.Context, task *domain.Task) error {
	filter, err := ownedFilter(task.ID, task.UserID)
	if err != nil {
		return err
	}

	tags := task.Tags
	if tags == nil {
		tags = []string{}
	}
	update := bson.M{"$set": bson.M{
		"title":       task.Title,
		"description": task.Description,
		"status":      task.Status,
		"completed":   task.Completed,
		"priority":    task.Priority,
		"dueDate":     task.DueDate,
		"completedAt": task.CompletedAt,
		"tags":        tags,
		"updatedAt":   task.UpdatedAt,
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return translateError(err)
	}
	if res.MatchedCount == 0 {
		return domain.NotFound("Task not found")
	}
	return nil
}

func (r *TaskRepo) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	filter, err := ownedFilter(id, ownerID)
	if err != nil {
		return false, err
	}
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return false, translateError(err)
	}
	return res.DeletedCount > 0, nil
}

func (r *TaskRepo) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	owner, err := objectID(ownerID)
	if err != nil {
		return 0, err
	}
	res, err := r.coll.DeleteMany(ctx, bson.M{"user": owner})
	if err != nil {
		return 0, translateError(err)
	}
	return res.DeletedCount, nil
}

func (r *TaskRepo) Stats(ctx context.Context, ownerID string) (*domain.TaskStats, error) {
	owner, err := objectID(ownerID)
	if err != nil {
		return nil, err
	}

	cur, err := r.coll.Aggregate(ctx, statsPipeline(owner))
	if err != nil {
		return nil, translateError(err)
	}
	defer cur.Close(ctx)

	stats := &domain.TaskStats{}
	if cur.Next(ctx) {
		var row struct {
			Total          int64 `bson:"total"`
			Pending        int64 `bson:"pending"`
			InProgress     int64 `bson:"inProgress"`
			Completed      int64 `bson:"completed"`
			HighPriority   int64 `bson:"highPriority"`
			MediumPriority int64 `bson:"mediumPriority"`
			LowPriority    int64 `bson:"lowPriority"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, translateError(err)
		}
		*stats = domain.TaskStats(row)
	}
	return stats, translateError(cur.Err())
}

func ownedFilter(id, ownerID string) (bson.M, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	owner, err := objectID(ownerID)
	if err != nil {
		return nil, err
	}
	return bson.M{"_id": oid, "user": owner}, nil
}

func listFilter(owner primitive.ObjectID, f repository.TaskFilter) bson.M {
	filter := bson.M{"user": owner}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Priority != "" {
		filter["priority"] = f.Priority
	}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}
	return filter
}

// sortSpec orders by the requested key with _id as a tiebreaker. Sort keys
// are validated upstream and equal the document field names.
func sortSpec(f repository.TaskFilter) bson.D {
	dir := 1
	if f.Desc {
		dir = -1
	}
	return bson.D{
		{Key: f.SortKeyOrDefault(), Value: dir},
		{Key: "_id", Value: dir},
	}
}

func statsPipeline(owner primitive.ObjectID) mongo.Pipeline {
	countIf := func(field, value string) bson.M {
		return bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$" + field, value}}, 1, 0}}}
	}
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user": owner}}},
		{{Key: "$group", Value: bson.M{
			"_id":            nil,
			"total":          bson.M{"$sum": 1},
			"pending":        countIf("status", domain.StatusPending),
			"inProgress":     countIf("status", domain.StatusInProgress),
			"completed":      countIf("status", domain.StatusCompleted),
			"highPriority":   countIf("priority", domain.PriorityHigh),
			"mediumPriority": countIf("priority", domain.PriorityMedium),
			"lowPriority":    countIf("priority", domain.PriorityLow),
		}}},
	}
}
