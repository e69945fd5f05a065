package infra

import (
	"context"
	"log"
	"time"

	"github.com/tnqbao/gau-video-service/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	AccountCollection = "users"
	VideoCollection   = "videos"
)

type MongoClient struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func InitMongoClient(cfg *config.EnvConfig) *MongoClient {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		log.Fatalf("MongoDB connection failed: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("MongoDB ping failed: %v", err)
	}

	db := client.Database(cfg.Mongo.Database)

	_, err = db.Collection(AccountCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Fatalf("MongoDB index creation failed: %v", err)
	}

	log.Println("Connected to MongoDB:", cfg.Mongo.Database)

	return &MongoClient{Client: client, Database: db}
}

func (m *MongoClient) Disconnect(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
