package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hamza-nafasat/todo-mobile-app-server/internal/models"
)

type mongoUserRepo struct {
	col *mongo.Collection
}

func NewMongoUserRepo(db *mongo.Database, collection string) UserRepository {
	col := db.Collection(collection)
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return &mongoUserRepo{col: col}
}

// noPassword excludes the credential hash from default reads.
var noPassword = options.FindOne().SetProjection(bson.M{"password": 0})

func (r *mongoUserRepo) Create(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Tasks == nil {
		u.Tasks = []models.Task{}
	}
	res, err := r.col.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

func (r *mongoUserRepo) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, filter, opts...).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *mongoUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id}, noPassword)
}

func (r *mongoUserRepo) FindByIDWithPassword(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, noPassword)
}

func (r *mongoUserRepo) FindByEmailWithPassword(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepo) FindByResetOTP(ctx context.Context, otp int64, now time.Time) (*models.User, error) {
	return r.findOne(ctx, bson.M{
		"reset_password_otp":        otp,
		"reset_password_otp_expiry": bson.M{"$gt": now},
	}, noPassword)
}

func (r *mongoUserRepo) updateByID(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	set["updated_at"] = time.Now().UTC()
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *mongoUserRepo) SetVerified(ctx context.Context, id primitive.ObjectID) error {
	return r.updateByID(ctx, id, bson.M{"verified": true, "otp": nil, "otp_expiry": nil})
}

func (r *mongoUserRepo) SetOTP(ctx context.Context, id primitive.ObjectID, otp int64, expiry time.Time) error {
	return r.updateByID(ctx, id, bson.M{"otp": otp, "otp_expiry": expiry})
}

func (r *mongoUserRepo) SetResetOTP(ctx context.Context, id primitive.ObjectID, otp int64, expiry time.Time) error {
	return r.updateByID(ctx, id, bson.M{"reset_password_otp": otp, "reset_password_otp_expiry": expiry})
}

func (r *mongoUserRepo) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	return r.updateByID(ctx, id, bson.M{"password": hash})
}

func (r *mongoUserRepo) ResetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	return r.updateByID(ctx, id, bson.M{
		"password":                  hash,
		"reset_password_otp":        nil,
		"reset_password_otp_expiry": nil,
	})
}

func (r *mongoUserRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, name string, avatar *models.Avatar) error {
	set := bson.M{}
	if name != "" {
		set["name"] = name
	}
	if avatar != nil {
		set["avatar"] = avatar
	}
	if len(set) == 0 {
		return nil
	}
	return r.updateByID(ctx, id, set)
}

func (r *mongoUserRepo) AddTask(ctx context.Context, id primitive.ObjectID, task models.Task) error {
	res, err := r.col.UpdateByID(ctx, id, bson.M{
		"$push": bson.M{"tasks": task},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// RemoveTask pulls the matching element. A taskID with no match leaves the
// document untouched and reports no error.
func (r *mongoUserRepo) RemoveTask(ctx context.Context, id, taskID primitive.ObjectID) error {
	res, err := r.col.UpdateByID(ctx, id, bson.M{
		"$pull": bson.M{"tasks": bson.M{"_id": taskID}},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ToggleTask flips completed on one embedded task with a conditional update:
// the filter pins the value we read, so a concurrent flip makes the write a
// no-op and we retry against the fresh state instead of losing it.
func (r *mongoUserRepo) ToggleTask(ctx context.Context, id, taskID primitive.ObjectID) error {
	const attempts = 3
	for i := 0; i < attempts; i++ {
		u, err := r.FindByID(ctx, id)
		if err != nil {
			return err
		}
		task := u.TaskByID(taskID)
		if task == nil {
			return ErrTaskNotFound
		}

		res, err := r.col.UpdateOne(ctx,
			bson.M{
				"_id": id,
				"tasks": bson.M{"$elemMatch": bson.M{
					"_id":       taskID,
					"completed": task.Completed,
				}},
			},
			bson.M{"$set": bson.M{
				"tasks.$.completed": !task.Completed,
				"updated_at":        time.Now().UTC(),
			}},
		)
		if err != nil {
			return err
		}
		if res.ModifiedCount == 1 {
			return nil
		}
		// lost the race, re-read and try again
	}
	return errors.New("toggle task: too many concurrent updates")
}
