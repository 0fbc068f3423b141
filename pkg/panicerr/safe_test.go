package panicerr

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeContext(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, SafeContext(func(context.Context) error { return nil })(ctx))

	sentinel := errors.New("boom")
	assert.ErrorIs(t, SafeContext(func(context.Context) error { return sentinel })(ctx), sentinel)

	err := SafeContext(func(context.Context) error { panic("kaboom") })(ctx)
	assert.ErrorContains(t, err, "kaboom")
}
