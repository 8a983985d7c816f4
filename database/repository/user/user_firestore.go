package userRepo

import (
	"context"
	"fmt"
	"time"

	"sitetrack/models"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreUserRepo implements UserRepository on a Firestore collection keyed by user id.
type FirestoreUserRepo struct {
	coll *firestore.CollectionRef
}

// NewFirestoreUserRepo creates a UserRepository backed by Firestore.
func NewFirestoreUserRepo(client *firestore.Client) UserRepository {
	return &FirestoreUserRepo{coll: client.Collection(usersCollection)}
}

func (r *FirestoreUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	snap, err := r.coll.Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user with id %s: %w", id, err)
	}
	return decodeSnapshot(snap)
}

func (r *FirestoreUserRepo) GetByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	iter := r.coll.Where("role", "==", string(role)).Documents(ctx)
	defer iter.Stop()

	users := []models.User{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve users with role %s: %w", role, err)
		}
		u, err := decodeSnapshot(snap)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, nil
}

func (r *FirestoreUserRepo) UpdatePushToken(ctx context.Context, id, token string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var value interface{} = token
	if token == "" {
		value = firestore.Delete
	}
	_, err := r.coll.Doc(id).Update(ctx, []firestore.Update{
		{Path: "pushToken", Value: value},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("user with id %s: %w", id, ErrUserNotFound)
		}
		return fmt.Errorf("failed to update push token for user %s: %w", id, err)
	}
	return nil
}

// decodeSnapshot maps a document onto models.User, falling back to the document id.
func decodeSnapshot(snap *firestore.DocumentSnapshot) (*models.User, error) {
	var u models.User
	if err := snap.DataTo(&u); err != nil {
		return nil, fmt.Errorf("failed to decode user %s: %w", snap.Ref.ID, err)
	}
	if u.ID == "" {
		u.ID = snap.Ref.ID
	}
	return &u, nil
}
