// File: database/repository/user/userMongoCrud.go
package userRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// UpdatePushToken sets the push address of a user. An empty token removes it.
func (r *MongoUserRepo) UpdatePushToken(ctx context.Context, id, token string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id}
	var update bson.M
	if token == "" {
		update = bson.M{
			"$unset": bson.M{"pushToken": ""},
			"$set":   bson.M{"updatedAt": time.Now()},
		}
	} else {
		update = bson.M{"$set": bson.M{"pushToken": token, "updatedAt": time.Now()}}
	}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update push token for user %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user with id %s: %w", id, ErrUserNotFound)
	}
	return nil
}
