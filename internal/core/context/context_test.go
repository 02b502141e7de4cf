package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetTrace(ctx))
	assert.Empty(t, GetRequestID(ctx))

	tc := NewTraceContext("", "req-1")
	assert.Equal(t, "req-1", tc.TraceID)

	ctx = WithTrace(ctx, tc)
	assert.Equal(t, "req-1", GetRequestID(ctx))

	generated := NewTraceContext("", "")
	assert.NotEmpty(t, generated.RequestID)
	assert.Equal(t, generated.RequestID, generated.TraceID)
}

func TestUserContext(t *testing.T) {
	ctx := WithUser(context.Background(), &UserContext{UserID: "u1"})
	assert.Equal(t, "u1", GetUserID(ctx))
	assert.Empty(t, GetUserID(context.Background()))
}
