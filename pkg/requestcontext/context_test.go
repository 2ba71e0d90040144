package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccessors(t *testing.T) {
	ctx := context.Background()

	t.Run("unset values fall back", func(t *testing.T) {
		assert.Empty(t, RequestID(ctx))
		assert.Empty(t, SessionID(ctx))
		assert.WithinDuration(t, time.Now(), Now(ctx), time.Second)
	})

	t.Run("set values round-trip", func(t *testing.T) {
		fixed := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
		ctx := WithRequestID(ctx, "req-1")
		ctx = WithSessionID(ctx, "sess-9")
		ctx = WithTime(ctx, fixed)

		assert.Equal(t, "req-1", RequestID(ctx))
		assert.Equal(t, "sess-9", SessionID(ctx))
		assert.Equal(t, fixed, Now(ctx))
	})
}
