package database

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shopdesk/internal/storage"
)

// EnsureStorageIndexes creates the secondary indexes of the key-value collection.
func EnsureStorageIndexes(db *mongo.Database, logger *logrus.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection(storage.CollectionName).Indexes()

	updatedAtIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "updatedAt", Value: -1}},
		Options: options.Index().SetName("updatedAt_index"),
	}

	logger.Info("EnsureStorageIndexes: creating updatedAt_index index")
	_, err := indexes.CreateOne(ctx, updatedAtIndex)
	if err != nil {
		logger.WithError(err).Error("EnsureStorageIndexes: updatedAt index error")
		return err
	}
	logger.Info("EnsureStorageIndexes: updatedAt_index index created")
	return nil
}
