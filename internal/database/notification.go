package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/thereayou/barber-booking/internal/config"
	"github.com/thereayou/barber-booking/internal/models"
)

const notificationsCollection = "notifications"

// ConnectMongo dials and pings the notification store.
func ConnectMongo(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}
	return client, nil
}

type NotificationStore struct {
	coll *mongo.Collection
}

func NewNotificationStore(db *mongo.Database) *NotificationStore {
	return &NotificationStore{coll: db.Collection(notificationsCollection)}
}

// EnsureIndexes creates the (user, created_at) index used by the inbox query.
func (s *NotificationStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

func (s *NotificationStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	now := time.Now()
	n.CreatedAt = now
	n.UpdatedAt = now

	res, err := s.coll.InsertOne(ctx, n)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		n.ID = id
	}
	return nil
}

// ListNotifications returns the newest notifications addressed to userID.
func (s *NotificationStore) ListNotifications(ctx context.Context, userID uint, limit int64) ([]models.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.coll.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notifications := make([]models.Notification, 0)
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead flags the notification as read. It returns mongo.ErrNoDocuments
// when the id does not exist or belongs to another user.
func (s *NotificationStore) MarkRead(ctx context.Context, id primitive.ObjectID, userID uint) (*models.Notification, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"read": true, "updated_at": time.Now()}}

	var n models.Notification
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id, "user": userID}, update, opts).Decode(&n)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
