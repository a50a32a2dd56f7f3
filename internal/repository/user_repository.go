package repository

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pegasus-hq/support-core/internal/domain"
)

var objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// UserUpdate describes a partial identity mutation.
type UserUpdate struct {
	Set   map[string]any
	Unset []string
}

// IsZero reports whether the update carries no changes.
func (u UserUpdate) IsZero() bool {
	return len(u.Set) == 0 && len(u.Unset) == 0
}

// UserRepository encapsulates identity persistence. Identity records carry
// two identifier forms: the store-native _id and an opaque string id field.
// Every lookup and update tries the native form first, then falls back to
// the string field, so both work transparently.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByRef(ctx context.Context, ref string) (*domain.User, error)
	ResolveAndUpdate(ctx context.Context, ref string, update UserUpdate) (int64, error)
}

type userRepository struct {
	coll *mongo.Collection
}

// NewUserRepository instantiates repository.
func NewUserRepository(coll *mongo.Collection) UserRepository {
	return &userRepository{coll: coll}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByRef resolves a user by native id when the ref is ObjectID-shaped,
// falling back to the string id field. Returns nil when neither form matches.
func (r *userRepository) GetByRef(ctx context.Context, ref string) (*domain.User, error) {
	if objectIDPattern.MatchString(ref) {
		oid, err := primitive.ObjectIDFromHex(ref)
		if err == nil {
			var user domain.User
			err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
			if err == nil {
				return &user, nil
			}
			if err != mongo.ErrNoDocuments {
				return nil, err
			}
		}
	}

	var user domain.User
	err := r.coll.FindOne(ctx, bson.M{"id": ref}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ResolveAndUpdate applies the update through the same two-step fallback and
// reports how many documents matched (0 or 1).
func (r *userRepository) ResolveAndUpdate(ctx context.Context, ref string, update UserUpdate) (int64, error) {
	if update.IsZero() {
		return 0, nil
	}

	doc := bson.M{}
	if len(update.Set) > 0 {
		fields := bson.M{}
		for key, value := range update.Set {
			fields[key] = value
		}
		doc["$set"] = fields
	}
	if len(update.Unset) > 0 {
		fields := bson.M{}
		for _, field := range update.Unset {
			fields[field] = ""
		}
		doc["$unset"] = fields
	}

	if objectIDPattern.MatchString(ref) {
		oid, err := primitive.ObjectIDFromHex(ref)
		if err == nil {
			res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, doc)
			if err != nil {
				return 0, err
			}
			if res.MatchedCount > 0 {
				return res.MatchedCount, nil
			}
		}
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": ref}, doc)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}
