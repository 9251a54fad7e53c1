package mongodb

import (
	"errors"
	"time"

	"github.com/vedran77/taskly/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	usersCollection = "users"
	tasksCollection = "tasks"
)

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Avatar    *string            `bson:"avatar,omitempty"`
	Bio       *string            `bson:"bio,omitempty"`
	Role      string             `bson:"role"`
	IsActive  bool               `bson:"isActive"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type taskDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	User        primitive.ObjectID `bson:"user"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Status      string             `bson:"status"`
	Completed   bool               `bson:"completed"`
	Priority    string             `bson:"priority"`
	DueDate     *time.Time         `bson:"dueDate"`
	CompletedAt *time.Time         `bson:"completedAt"`
	Tags        []string           `bson:"tags"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.BadRequest("Invalid id: " + id)
	}
	return oid, nil
}

func newUserDoc(u *domain.User) (*userDoc, error) {
	if u.ID == "" {
		u.ID = domain.NewID()
	}
	oid, err := objectID(u.ID)
	if err != nil {
		return nil, err
	}
	return &userDoc{
		ID:        oid,
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.PasswordHash,
		Avatar:    u.Avatar,
		Bio:       u.Bio,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}, nil
}

func (d *userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		Avatar:       d.Avatar,
		Bio:          d.Bio,
		Role:         d.Role,
		IsActive:     d.IsActive,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func newTaskDoc(t *domain.Task) (*taskDoc, error) {
	if t.ID == "" {
		t.ID = domain.NewID()
	}
	oid, err := objectID(t.ID)
	if err != nil {
		return nil, err
	}
	owner, err := objectID(t.UserID)
	if err != nil {
		return nil, err
	}
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return &taskDoc{
		ID:          oid,
		User:        owner,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Completed:   t.Completed,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		CompletedAt: t.CompletedAt,
		Tags:        tags,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}, nil
}

func (d *taskDoc) toDomain() domain.Task {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return domain.Task{
		ID:          d.ID.Hex(),
		UserID:      d.User.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Status:      d.Status,
		Completed:   d.Completed,
		Priority:    d.Priority,
		DueDate:     d.DueDate,
		CompletedAt: d.CompletedAt,
		Tags:        tags,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// translateError maps driver errors onto the domain error kinds.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	if mongo.IsDuplicateKeyError(err) {
		return domain.Conflict("Duplicate field value entered", "email already exists")
	}
	return domain.Internal(err)
}
