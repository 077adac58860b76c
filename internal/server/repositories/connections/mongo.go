package connections

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/devmatch/internal/common"
	"github.com/dmitrijs2005/devmatch/internal/server/models"
	"github.com/dmitrijs2005/devmatch/internal/server/pagination"
	"github.com/dmitrijs2005/devmatch/internal/server/statemachine"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "connection_requests"

// requestDoc is the stored shape: the request plus its canonical pair key,
// which carries the unique index.
type requestDoc struct {
	models.ConnectionRequest `bson:",inline"`
	PairKey                  string `bson:"pair_key"`
}

type MongoRepository struct {
	coll  *mongo.Collection
	users UserChecker
}

func NewMongoRepository(db *mongo.Database, users UserChecker) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName), users: users}
}

func mongoError(err error) error {
	return fmt.Errorf("mongo error: %w: %w", common.ErrUnavailable, err)
}

func (m *MongoRepository) Create(ctx context.Context, r *models.ConnectionRequest) (*models.ConnectionRequest, error) {
	if r.FromUserID == r.ToUserID {
		return nil, common.ErrSelfReference
	}
	if err := checkUsers(ctx, m.users, r.FromUserID, r.ToUserID); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	r.ID = uuid.NewString()
	r.CreatedAt, r.UpdatedAt = now, now

	doc := requestDoc{ConnectionRequest: *r, PairKey: PairKey(r.FromUserID, r.ToUserID)}
	if _, err := m.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, common.ErrDuplicateRelationship
		}
		return nil, mongoError(err)
	}
	return r, nil
}

func (m *MongoRepository) findOne(ctx context.Context, filter bson.M) (*models.ConnectionRequest, error) {
	var doc requestDoc
	if err := m.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, mongoError(err)
	}
	return &doc.ConnectionRequest, nil
}

func (m *MongoRepository) FindByUnorderedPair(ctx context.Context, a, b string) (*models.ConnectionRequest, error) {
	return m.findOne(ctx, bson.M{"pair_key": PairKey(a, b)})
}

func (m *MongoRepository) FindByID(ctx context.Context, id string) (*models.ConnectionRequest, error) {
	return m.findOne(ctx, bson.M{"_id": id})
}

func (m *MongoRepository) UpdateStatus(ctx context.Context, id string, status models.ConnectionStatus, actor string, now time.Time) (*models.ConnectionRequest, error) {
	if statemachine.ValidateDecision(status) == nil {
		filter := bson.M{"_id": id, "to_user_id": actor, "status": models.StatusInterested}
		update := bson.M{"$set": bson.M{"status": status, "updated_at": now.UTC()}}
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

		var doc requestDoc
		err := m.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
		if err == nil {
			return &doc.ConnectionRequest, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongoError(err)
		}
	}

	current, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return nil, rejectionReason(current, actor, status)
}

// listFilter translates a ListFilter into a query document.
func listFilter(userID string, filter models.ListFilter) (bson.M, error) {
	var q bson.M
	switch filter.Direction {
	case models.DirectionFrom:
		q = bson.M{"from_user_id": userID}
	case models.DirectionTo:
		q = bson.M{"to_user_id": userID}
	case models.DirectionAny, "":
		q = bson.M{"$or": bson.A{bson.M{"from_user_id": userID}, bson.M{"to_user_id": userID}}}
	default:
		return nil, fmt.Errorf("%w: unknown direction %q", common.ErrValidation, filter.Direction)
	}
	if filter.Status != "" {
		q["status"] = filter.Status
	}
	return q, nil
}

func (m *MongoRepository) ListForUser(ctx context.Context, userID string, filter models.ListFilter) ([]*models.ConnectionRequest, error) {
	q, err := listFilter(userID, filter)
	if err != nil {
		return nil, err
	}
	if err := pagination.CheckWindow(filter.Skip, filter.Limit); err != nil {
		return nil, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(filter.Skip).
		SetLimit(filter.Limit)

	cursor, err := m.coll.Find(ctx, q, opts)
	if err != nil {
		return nil, mongoError(err)
	}
	defer cursor.Close(ctx)

	var docs []requestDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mongoError(err)
	}
	out := make([]*models.ConnectionRequest, 0, len(docs))
	for i := range docs {
		out = append(out, &docs[i].ConnectionRequest)
	}
	return out, nil
}

func (m *MongoRepository) CountForUser(ctx context.Context, userID string, filter models.ListFilter) (int64, error) {
	q, err := listFilter(userID, filter)
	if err != nil {
		return 0, err
	}
	n, err := m.coll.CountDocuments(ctx, q)
	if err != nil {
		return 0, mongoError(err)
	}
	return n, nil
}

func (m *MongoRepository) DistinctCounterparts(ctx context.Context, userID string, role models.Direction) ([]string, error) {
	if err := checkRole(role); err != nil {
		return nil, err
	}

	field, match := "to_user_id", "from_user_id"
	if role == models.DirectionTo {
		field, match = "from_user_id", "to_user_id"
	}

	values, err := m.coll.Distinct(ctx, field, bson.M{match: userID})
	if err != nil {
		return nil, mongoError(err)
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MongoRepository) DeleteForUser(ctx context.Context, userID string) (int64, error) {
	res, err := m.coll.DeleteMany(ctx, bson.M{"$or": bson.A{bson.M{"from_user_id": userID}, bson.M{"to_user_id": userID}}})
	if err != nil {
		return 0, mongoError(err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the pair-key unique index and the lookup indexes
// used by listing and counterpart queries.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(CollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "pair_key", Value: 1}}, Options: options.Index().SetUnique(true).SetName("connection_requests_pair_uniq")},
		{Keys: bson.D{{Key: "to_user_id", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: -1}}, Options: options.Index().SetName("connection_requests_to_status")},
		{Keys: bson.D{{Key: "from_user_id", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: -1}}, Options: options.Index().SetName("connection_requests_from_status")},
	})
	if err != nil {
		return mongoError(err)
	}
	return nil
}
