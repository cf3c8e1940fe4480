package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellarforge/stellarforge-go/internal/catalog"
	"github.com/stellarforge/stellarforge-go/pkg/types"
)

func testStar(id string) *types.Star {
	name, observedBy, registeredAt := "Vega", "Lick", "2025-01-02T03:04:05Z"
	ra, dec := 18.6, 38.78
	return types.NewStar(&types.RegistrationResponse{
		StarID:       &id,
		Name:         &name,
		Coordinates:  &types.ResponseCoordinates{RA: &ra, Dec: &dec},
		ObservedBy:   &observedBy,
		RegisteredAt: &registeredAt,
	})
}

func TestStore_PutGet(t *testing.T) {
	s := New(0)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, testStar("SF-1234-5678")))

	got, err := s.Get(ctx, "SF-1234-5678")
	require.NoError(t, err)
	assert.Equal(t, "Vega", got.Name())
	assert.Equal(t, 1, s.Len())

	_, err = s.Get(ctx, "SF-0000-0000")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestStore_RejectsUnkeyedStars(t *testing.T) {
	s := New(0)
	assert.Error(t, s.Put(context.Background(), nil))
	assert.Error(t, s.Put(context.Background(), types.NewStar(&types.RegistrationResponse{})))
}

func TestStore_Expiry(t *testing.T) {
	s := New(20 * time.Millisecond)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, testStar("SF-1111-2222")))

	time.Sleep(50 * time.Millisecond)

	_, err := s.Get(ctx, "SF-1111-2222")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestStore_CloseFlushes(t *testing.T) {
	s := New(0)
	require.NoError(t, s.Put(context.Background(), testStar("SF-1111-2222")))
	require.NoError(t, s.Close())
	assert.Zero(t, s.Len())
}
