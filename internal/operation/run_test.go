package operation

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	logger := logrus.New()
	logger.Level = logrus.PanicLevel

	t.Run("success", func(t *testing.T) {
		o := NewOutcome(false)

		got := Run(context.Background(), o, Op{Name: "test.success", Logger: logger}, func(ctx context.Context) (string, error) {
			assert.True(t, o.Loading(), "loading during the call")
			return "data", nil
		})

		require.True(t, got.OK())
		assert.Equal(t, "data", got.Data)
		assert.False(t, o.Loading())
		assert.Equal(t, "", o.ErrMessage())
	})

	t.Run("failure is recorded, not returned as error", func(t *testing.T) {
		o := NewOutcome(false)

		got := Run(context.Background(), o, Op{Name: "test.failure", Logger: logger}, func(ctx context.Context) (*string, error) {
			assert.True(t, o.Loading(), "loading during the call")
			return nil, errors.New("request failed with status code 500")
		})

		assert.False(t, got.OK())
		assert.Nil(t, got.Data)
		assert.Equal(t, "request failed with status code 500", got.Message)
		assert.False(t, o.Loading())
		assert.Equal(t, "request failed with status code 500", o.ErrMessage())
	})

	t.Run("clear error on success", func(t *testing.T) {
		o := NewOutcome(false)
		o.Fail("previous")

		Run(context.Background(), o, Op{Name: "test.clear", ClearError: true}, func(ctx context.Context) (int, error) {
			return 1, nil
		})

		assert.Equal(t, "", o.ErrMessage())
	})

	t.Run("loading cleared on panic", func(t *testing.T) {
		o := NewOutcome(false)

		assert.Panics(t, func() {
			Run(context.Background(), o, Op{Name: "test.panic"}, func(ctx context.Context) (int, error) {
				panic("oops")
			})
		})

		assert.False(t, o.Loading())
	})
}

func TestTryRun(t *testing.T) {
	o := NewOutcome(true)
	calls := 0

	fn := func(ctx context.Context) (int, error) {
		calls++
		return calls, nil
	}

	_, ran := TryRun(context.Background(), o, Op{Name: "test.try"}, fn)
	assert.False(t, ran)
	assert.Equal(t, 0, calls)

	o.Succeed(false)

	got, ran := TryRun(context.Background(), o, Op{Name: "test.try"}, fn)
	assert.True(t, ran)
	assert.Equal(t, 1, got.Data)
	assert.False(t, o.Loading())
}
