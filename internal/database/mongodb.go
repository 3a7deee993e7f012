package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/captiveportal/portal-cms/internal/config"
	"github.com/captiveportal/portal-cms/pkg/logger"
)

// ContentCollection holds the single portal content document.
const ContentCollection = "content"

type connectOptions struct {
	attempts int
	backoff  time.Duration
}

type Option func(*connectOptions)

// WithRetry sets how many connection attempts are made and the initial delay
// between them. The delay doubles after each failure.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(o *connectOptions) {
		if attempts > 0 {
			o.attempts = attempts
		}
		o.backoff = backoff
	}
}

// Connect dials MongoDB and pings it, retrying while the server comes up.
// Caller should call client.Disconnect(ctx).
func Connect(ctx context.Context, cfg config.MongoDBConfig, opts ...Option) (*mongo.Client, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo: no URI configured")
	}
	o := connectOptions{attempts: 5, backoff: time.Second}
	for _, fn := range opts {
		fn(&o)
	}

	var lastErr error
	backoff := o.backoff
	for attempt := 1; attempt <= o.attempts; attempt++ {
		client, err := connectOnce(ctx, cfg)
		if err == nil {
			return client, nil
		}
		lastErr = err
		logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, o.attempts, err)
		if attempt == o.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return nil, fmt.Errorf("mongo: giving up after %d attempts: %w", o.attempts, lastErr)
}

func connectOnce(ctx context.Context, cfg config.MongoDBConfig) (*mongo.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI).SetAppName("portal-cms"))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// Content returns the collection the content store writes to.
func Content(client *mongo.Client, cfg config.MongoDBConfig) *mongo.Collection {
	return client.Database(cfg.Database).Collection(ContentCollection)
}
