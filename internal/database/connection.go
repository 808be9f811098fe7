package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/cognitive-core/agent-gateway/internal/logger"
)

// Connection holds the MongoDB connection and configuration. It is
// constructed once at startup and passed to whoever needs it; there is no
// package-level singleton.
type Connection struct {
	Client   *mongo.Client
	Database *mongo.Database
	Config   *Config
}

// NewConnection creates a new MongoDB connection
func NewConnection(ctx context.Context, config *Config) (*Connection, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(config.URI)
	if config.AppName != "" {
		clientOptions.SetAppName(config.AppName)
	}

	logger.Info("Connecting to MongoDB",
		"database", config.DatabaseName,
		"uri", config.MaskedURI(),
	)

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	conn := &Connection{
		Client:   client,
		Database: client.Database(config.DatabaseName),
		Config:   config,
	}

	if err := conn.createIndexes(connectCtx); err != nil {
		// The audit log still works without indexes, just slower
		logger.Warn("Failed to create database indexes", "error", err)
	}

	logger.Info("Connected to MongoDB", "database", config.DatabaseName)
	return conn, nil
}

// Disconnect closes the MongoDB connection
func (c *Connection) Disconnect() error {
	if c.Client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return c.Client.Disconnect(ctx)
}

// GetCollection returns a MongoDB collection
func (c *Connection) GetCollection(name string) *mongo.Collection {
	return c.Database.Collection(name)
}

// HealthCheck performs a health check on the MongoDB connection
func (c *Connection) HealthCheck() error {
	if c.Client == nil {
		return fmt.Errorf("MongoDB client is nil")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := c.Client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("MongoDB ping failed: %w", err)
	}

	return nil
}

// createIndexes creates database indexes for the delegations collection
func (c *Connection) createIndexes(ctx context.Context) error {
	delegations := c.GetCollection(delegationsCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_at_desc"),
		},
		{
			Keys:    bson.D{{Key: "target_agent", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("target_agent_created_at_desc"),
		},
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().SetName("session_id"),
		},
		{
			Keys:    bson.D{{Key: "request_id", Value: 1}},
			Options: options.Index().SetName("request_id"),
		},
	}

	if _, err := delegations.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create delegation indexes: %w", err)
	}

	return nil
}
