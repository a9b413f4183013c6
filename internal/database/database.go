package database

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"

	"studentapi/internal/config"
)

const appName = "studentapi"

var mongoConnect = mongo.Connect

// BuildClientOptions constructs driver options for a single MongoDB host with
// challenge-response authentication against the configured auth database.
func BuildClientOptions(c config.MongoConfig) (*options.ClientOptions, error) {
	if c.Host == "" || c.Port <= 0 {
		return nil, fmt.Errorf("invalid mongo config: host and port are required")
	}
	if c.Database == "" || c.Collection == "" {
		return nil, fmt.Errorf("invalid mongo config: database and collection are required")
	}

	opts := options.Client().
		SetHosts([]string{net.JoinHostPort(c.Host, strconv.Itoa(c.Port))}).
		SetAppName(appName).
		SetMonitor(otelmongo.NewMonitor())

	if c.ConnectTimeoutSec > 0 {
		timeout := time.Duration(c.ConnectTimeoutSec) * time.Second
		opts.SetConnectTimeout(timeout).SetServerSelectionTimeout(timeout)
	}

	// Credentials are optional so a local unauthenticated mongod still works.
	if c.User != "" {
		opts.SetAuth(options.Credential{
			AuthMechanism: c.AuthMechanism,
			AuthSource:    c.AuthDB,
			Username:      c.User,
			Password:      c.Password,
		})
	}

	return opts, nil
}

// NewMongo connects to MongoDB and verifies the session with a ping.
// The returned client is meant to live for the whole process.
func NewMongo(ctx context.Context, c config.MongoConfig) (*mongo.Client, error) {
	opts, err := BuildClientOptions(c)
	if err != nil {
		return nil, err
	}

	client, err := mongoConnect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, nil
}

// Collection returns the configured student collection handle.
func Collection(client *mongo.Client, c config.MongoConfig) *mongo.Collection {
	return client.Database(c.Database).Collection(c.Collection)
}
