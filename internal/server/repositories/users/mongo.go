package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/devmatch/internal/common"
	"github.com/dmitrijs2005/devmatch/internal/server/models"
	"github.com/dmitrijs2005/devmatch/internal/server/pagination"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "users"

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName)}
}

func mongoError(err error) error {
	return fmt.Errorf("mongo error: %w: %w", common.ErrUnavailable, err)
}

var miniProjection = bson.M{"email": 0, "password_hash": 0, "updated_at": 0}

func (r *MongoRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Skills == nil {
		user.Skills = []string{}
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	user.CreatedAt, user.UpdatedAt = now, now
	user.Email = strings.ToLower(user.Email)

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, mongoError(err)
	}
	return user, nil
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	u := &models.User{}
	if err := r.coll.FindOne(ctx, filter).Decode(u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, mongoError(err)
	}
	return u, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *MongoRepository) Exists(ctx context.Context, id string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, mongoError(err)
	}
	return n > 0, nil
}

// mongoFilter translates a directory filter into a query document.
func mongoFilter(filter models.UserFilter) bson.M {
	exclude := filter.ExcludeIDs
	if exclude == nil {
		exclude = []string{}
	}
	q := bson.M{"_id": bson.M{"$nin": exclude}}
	if filter.Gender != "" {
		q["gender"] = filter.Gender
	}
	if filter.Skill != "" {
		q["skills"] = filter.Skill
	}
	return q
}

func (r *MongoRepository) FindMany(ctx context.Context, filter models.UserFilter, skip, limit int64) ([]models.UserMini, error) {
	if err := pagination.CheckWindow(skip, limit); err != nil {
		return nil, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit).
		SetProjection(miniProjection)

	cursor, err := r.coll.Find(ctx, mongoFilter(filter), opts)
	if err != nil {
		return nil, mongoError(err)
	}
	defer cursor.Close(ctx)

	items := []models.UserMini{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, mongoError(err)
	}
	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context, filter models.UserFilter) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, mongoFilter(filter))
	if err != nil {
		return 0, mongoError(err)
	}
	return n, nil
}

func (r *MongoRepository) FindMiniByIDs(ctx context.Context, ids []string) (map[string]models.UserMini, error) {
	out := make(map[string]models.UserMini, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(miniProjection))
	if err != nil {
		return nil, mongoError(err)
	}
	defer cursor.Close(ctx)

	var items []models.UserMini
	if err := cursor.All(ctx, &items); err != nil {
		return nil, mongoError(err)
	}
	for _, m := range items {
		out[m.ID] = m
	}
	return out, nil
}

// profileSet builds the $set document for a profile update.
func profileSet(upd models.ProfileUpdate, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	if upd.FirstName != nil {
		set["first_name"] = *upd.FirstName
	}
	if upd.LastName != nil {
		set["last_name"] = *upd.LastName
	}
	if upd.PasswordHash != nil {
		set["password_hash"] = upd.PasswordHash
	}
	if upd.ProfilePic != nil {
		set["profile_pic"] = *upd.ProfilePic
	}
	if upd.About != nil {
		set["about"] = *upd.About
	}
	if upd.Skills != nil {
		set["skills"] = *upd.Skills
	}
	return set
}

func (r *MongoRepository) UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) (*models.User, error) {
	update := bson.M{"$set": profileSet(upd, time.Now().UTC().Truncate(time.Millisecond))}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	u := &models.User{}
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, mongoError(err)
	}
	return u, nil
}

func (r *MongoRepository) SetPhotoKey(ctx context.Context, id, key string) error {
	update := bson.M{"$set": bson.M{"photo_key": key, "updated_at": time.Now().UTC()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return mongoError(err)
	}
	if res.MatchedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mongoError(err)
	}
	if res.DeletedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes the repository relies on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(CollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("users_email_uniq")},
		{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}, Options: options.Index().SetName("users_created_at_id")},
	})
	if err != nil {
		return mongoError(err)
	}
	return nil
}
