package realm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Exists(ctx context.Context, realm string) (bool, error) {
	args := m.Called(ctx, realm)
	return args.Bool(0), args.Error(1)
}

func TestStaticResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("allow-list", func(t *testing.T) {
		r := NewStaticResolver("guild-1", " guild-2 ", "")
		ok, err := r.Exists(ctx, "guild-2")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, _ = r.Exists(ctx, "guild-3")
		assert.False(t, ok)
	})

	t.Run("empty list allows all", func(t *testing.T) {
		ok, err := NewStaticResolver().Exists(ctx, "anything")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestCachedResolver_CachesAnswers(t *testing.T) {
	ctx := context.Background()
	inner := new(MockResolver)
	inner.On("Exists", ctx, "guild").Return(false, nil).Once()

	c := NewCachedResolver(inner, 16, time.Minute)
	for i := 0; i < 3; i++ {
		ok, err := c.Exists(ctx, "guild")
		require.NoError(t, err)
		assert.False(t, ok)
	}
	inner.AssertNumberOfCalls(t, "Exists", 1)

	c.Invalidate("guild")
	inner.On("Exists", ctx, "guild").Return(true, nil).Once()
	ok, err := c.Exists(ctx, "guild")
	require.NoError(t, err)
	assert.True(t, ok)
	inner.AssertExpectations(t)
}

func TestCachedResolver_DoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	inner := new(MockResolver)
	inner.On("Exists", ctx, "guild").Return(false, errors.New("gateway down")).Once()
	inner.On("Exists", ctx, "guild").Return(true, nil).Once()

	c := NewCachedResolver(inner, 16, time.Minute)
	_, err := c.Exists(ctx, "guild")
	require.Error(t, err)

	ok, err := c.Exists(ctx, "guild")
	require.NoError(t, err)
	assert.True(t, ok)
	inner.AssertExpectations(t)
}

func TestCachedResolver_Expires(t *testing.T) {
	ctx := context.Background()
	calls := 0
	inner := ResolverFunc(func(context.Context, string) (bool, error) {
		calls++
		return true, nil
	})

	c := NewCachedResolver(inner, 16, 20*time.Millisecond)
	_, _ = c.Exists(ctx, "guild")
	time.Sleep(60 * time.Millisecond)
	_, _ = c.Exists(ctx, "guild")
	assert.Equal(t, 2, calls)
}

func TestAllowAll(t *testing.T) {
	ok, err := AllowAll.Exists(context.Background(), "x")
	require.NoError(t, err)
	assert.True(t, ok)
}
