package suppression

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeSource struct {
	logged bool
	err    error
}

func (f *fakeSource) WasMealLogged(ctx context.Context, userID string, localDate time.Time, meal string) (bool, error) {
	return f.logged, f.err
}

func TestShouldSuppress_WhenLogged(t *testing.T) {
	src := &fakeSource{logged: true}
	assert.True(t, ShouldSuppress(context.Background(), src, "u1", time.Now(), "lunch"))
}

func TestShouldSuppress_WhenNotLogged(t *testing.T) {
	src := &fakeSource{logged: false}
	assert.False(t, ShouldSuppress(context.Background(), src, "u1", time.Now(), "lunch"))
}

func TestShouldSuppress_FailsOpenOnError(t *testing.T) {
	src := &fakeSource{err: errors.New("connection refused")}
	assert.False(t, ShouldSuppress(context.Background(), src, "u1", time.Now(), "lunch"))
}

func TestShouldSuppress_NoMealKey(t *testing.T) {
	src := &fakeSource{logged: true}
	assert.False(t, ShouldSuppress(context.Background(), src, "u1", time.Now(), ""))
}

func TestShouldSuppress_NilSource(t *testing.T) {
	assert.False(t, ShouldSuppress(context.Background(), nil, "u1", time.Now(), "lunch"))
}
