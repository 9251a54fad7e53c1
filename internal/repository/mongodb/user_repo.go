package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/vedran77/taskly/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepo struct {
	coll *mongo.Collection
}

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{coll: db.Collection(usersCollection)}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	doc, err := newUserDoc(user)
	if err != nil {
		return err
	}
	_, err = r.coll.InsertOne(ctx, doc)
	return translateError(err)
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, translateError(err)
	}
	defer cur.Close(ctx)

	users := []domain.User{}
	for cur.Next(ctx) {
		var doc userDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, translateError(err)
		}
		users = append(users, *doc.toDomain())
	}
	return users, translateError(cur.Err())
}

func (r *UserRepo) Update(ctx context.Context, user *domain.User) error {
	oid, err := objectID(user.ID)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"name":      user.Name,
		"email":     user.Email,
		"password":  user.PasswordHash,
		"avatar":    user.Avatar,
		"bio":       user.Bio,
		"role":      user.Role,
		"isActive":  user.IsActive,
		"updatedAt": user.UpdatedAt,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return translateError(err)
	}
	if res.MatchedCount == 0 {
		return domain.NotFound("User not found")
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := objectID(id)
	if err != nil {
		return false, err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, translateError(err)
	}
	return res.DeletedCount > 0, nil
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDoc
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates the unique email index and the per-owner task index.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(tasksCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}
