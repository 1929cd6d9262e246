package tenant

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
)

// ErrStorageUnavailable signals that a client for the tenant's cluster could
// not be constructed. It leads to a "500 Internal Server Error" response and
// is not retried.
var ErrStorageUnavailable = errors.New("storage unavailable")

const pingTimeout = 5 * time.Second

// DialFunc constructs a client for a connection string.
type DialFunc func(ctx context.Context, uri string) (*mongo.Client, error)

// PingFunc probes a freshly dialed client.
type PingFunc func(ctx context.Context, client *mongo.Client) error

// Pool caches one MongoDB client per tenant key for the lifetime of the
// process. There is no eviction and no health check after creation: a handle
// that goes dead stays cached until restart. Entries are only ever added, so
// the map stays small (one per distinct credential set seen).
//
// Two concurrent Acquire calls for the same cold key may both dial. Both
// handles are valid; the one cached last wins and the other is left to the
// garbage collector. That waste is accepted in exchange for never holding the
// lock across a network dial.
type Pool struct {
	mu      sync.RWMutex
	clients map[string]*mongo.Client
	dial    DialFunc
	ping    PingFunc
	logger  *zap.Logger
}

// NewPool creates a pool that dials real MongoDB clients.
func NewPool(logger *zap.Logger) *Pool {
	return &Pool{
		clients: map[string]*mongo.Client{},
		dial:    dialMongo,
		ping:    pingMongo,
		logger:  logger,
	}
}

// NewPoolWithDialer creates a pool with custom dial and ping functions.
func NewPoolWithDialer(logger *zap.Logger, dial DialFunc, ping PingFunc) *Pool {
	return &Pool{
		clients: map[string]*mongo.Client{},
		dial:    dial,
		ping:    ping,
		logger:  logger,
	}
}

// Acquire returns the cached client for key, dialing a new one on first use.
func (p *Pool) Acquire(ctx context.Context, key string) (*mongo.Client, error) {
	p.mu.RLock()
	client, ok := p.clients[key]
	p.mu.RUnlock()
	if ok {
		return client, nil
	}

	client, err := p.dial(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	// Best-effort liveness probe. A failure here is diagnostic only: the
	// client dials lazily and may well recover by the first real operation.
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := p.ping(pingCtx, client); err != nil {
		p.logger.Warn("Ping of new tenant client failed", zap.Error(err))
	}

	p.mu.Lock()
	if cached, ok := p.clients[key]; ok {
		// Lost the race against another request for the same cold key.
		p.mu.Unlock()
		go func() {
			if err := client.Disconnect(context.Background()); err != nil {
				p.logger.Debug("Couldn't disconnect duplicate tenant client", zap.Error(err))
			}
		}()
		return cached, nil
	}
	p.clients[key] = client
	p.mu.Unlock()

	p.logger.Info("Cached new tenant client", zap.Int("tenants", p.Size()))
	return client, nil
}

// Size returns the number of cached tenant clients.
func (p *Pool) Size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.clients)
}

// Close disconnects all cached clients. Used on shutdown.
func (p *Pool) Close(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for key, client := range p.clients {
		if err := client.Disconnect(ctx); err != nil {
			p.logger.Warn("Couldn't disconnect tenant client", zap.Error(err))
		}
		delete(p.clients, key)
	}
}

// dialMongo constructs a client pinned to MongoDB's Stable API v1 in strict
// mode with deprecation errors surfaced, matching Atlas' recommended setup.
func dialMongo(_ context.Context, uri string) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)
	return mongo.Connect(options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI))
}

func pingMongo(ctx context.Context, client *mongo.Client) error {
	return client.Ping(ctx, readpref.Primary())
}
