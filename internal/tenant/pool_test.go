package tenant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
)

func TestPoolReusesClients(t *testing.T) {
	dials := 0
	client := &mongo.Client{}
	pool := NewPoolWithDialer(zap.NewNop(),
		func(_ context.Context, _ string) (*mongo.Client, error) {
			dials++
			return client, nil
		},
		func(_ context.Context, _ *mongo.Client) error { return nil },
	)

	first, err := pool.Acquire(context.Background(), "mongodb+srv://a:b@c.mongodb.net")
	require.NoError(t, err)
	second, err := pool.Acquire(context.Background(), "mongodb+srv://a:b@c.mongodb.net")
	require.NoError(t, err)

	require.Same(t, first, second)
	require.Equal(t, 1, dials)
	require.Equal(t, 1, pool.Size())
}

func TestPoolSeparatesTenants(t *testing.T) {
	pool := NewPoolWithDialer(zap.NewNop(),
		func(_ context.Context, _ string) (*mongo.Client, error) {
			return &mongo.Client{}, nil
		},
		func(_ context.Context, _ *mongo.Client) error { return nil },
	)

	first, err := pool.Acquire(context.Background(), "mongodb+srv://a:b@c.mongodb.net")
	require.NoError(t, err)
	second, err := pool.Acquire(context.Background(), "mongodb+srv://a:b@other.mongodb.net")
	require.NoError(t, err)

	require.NotSame(t, first, second)
	require.Equal(t, 2, pool.Size())
}

func TestPoolDialFailure(t *testing.T) {
	dialErr := errors.New("no route to cluster")
	pool := NewPoolWithDialer(zap.NewNop(),
		func(_ context.Context, _ string) (*mongo.Client, error) {
			return nil, dialErr
		},
		func(_ context.Context, _ *mongo.Client) error { return nil },
	)

	_, err := pool.Acquire(context.Background(), "mongodb+srv://a:b@c.mongodb.net")
	require.ErrorIs(t, err, ErrStorageUnavailable)
	// A failed dial must not poison the cache.
	require.Equal(t, 0, pool.Size())
}

// The liveness probe is best-effort diagnostics: its failure must not stop
// the handle from being cached and returned.
func TestPoolPingFailureIsSwallowed(t *testing.T) {
	client := &mongo.Client{}
	pool := NewPoolWithDialer(zap.NewNop(),
		func(_ context.Context, _ string) (*mongo.Client, error) {
			return client, nil
		},
		func(_ context.Context, _ *mongo.Client) error {
			return errors.New("ping timeout")
		},
	)

	got, err := pool.Acquire(context.Background(), "mongodb+srv://a:b@c.mongodb.net")
	require.NoError(t, err)
	require.Same(t, client, got)
	require.Equal(t, 1, pool.Size())
}
