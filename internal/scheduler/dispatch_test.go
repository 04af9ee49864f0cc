package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/zivohealth/reminders/internal/models"
)

type fakeSuppressionSource struct {
	logged bool
	err    error
}

func (f fakeSuppressionSource) WasMealLogged(ctx context.Context, userID string, localDate time.Time, meal string) (bool, error) {
	return f.logged, f.err
}

type fakeProfileSource struct {
	tz  string
	err error
}

func (f fakeProfileSource) TimezoneForUser(ctx context.Context, userID string) (string, error) {
	return f.tz, f.err
}

func TestDispatchPayload_MergesFieldsOverPayload(t *testing.T) {
	reminder := &models.Reminder{
		Title:   "Take pills",
		Message: "It's time",
		Payload: models.JSONMap{"dose_mg": float64(50)},
	}

	got := dispatchPayload(reminder)
	assert.Equal(t, "Take pills", got["title"])
	assert.Equal(t, "It's time", got["message"])
	assert.Equal(t, float64(50), got["dose_mg"])
}

func TestDispatchPayload_OmitsEmptyTitleAndMessage(t *testing.T) {
	reminder := &models.Reminder{Payload: models.JSONMap{"meal": "lunch"}}
	got := dispatchPayload(reminder)
	_, hasTitle := got["title"]
	_, hasMessage := got["message"]
	assert.False(t, hasTitle)
	assert.False(t, hasMessage)
	assert.Equal(t, "lunch", got["meal"])
}

func TestMealKey_PrefersMealField(t *testing.T) {
	payload := models.JSONMap{"meal": "breakfast", "context": map[string]interface{}{"key": "other"}}
	assert.Equal(t, "breakfast", mealKey(payload))
}

func TestMealKey_FallsBackToContextKey(t *testing.T) {
	payload := models.JSONMap{"context": map[string]interface{}{"key": "dinner"}}
	assert.Equal(t, "dinner", mealKey(payload))
}

func TestMealKey_NilPayload(t *testing.T) {
	assert.Equal(t, "", mealKey(nil))
}

func TestMealKey_NoMealInfo(t *testing.T) {
	assert.Equal(t, "", mealKey(models.JSONMap{"dose_mg": float64(10)}))
}

func TestShouldSuppress_NonNutritionLogPassesThrough(t *testing.T) {
	s := &Scheduler{
		suppression: fakeSuppressionSource{logged: true},
		profiles:    fakeProfileSource{tz: "UTC"},
		defaultTZ:   "UTC",
	}
	reminder := &models.Reminder{
		UserID:       "user-1",
		ReminderType: "medication",
		ReminderTime: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	assert.False(t, s.shouldSuppress(context.Background(), reminder, time.Now()))
}

func TestShouldSuppress_NutritionLogDeferToSuppressionSource(t *testing.T) {
	s := &Scheduler{
		suppression: fakeSuppressionSource{logged: true},
		profiles:    fakeProfileSource{tz: "America/New_York"},
		defaultTZ:   "UTC",
	}
	reminder := &models.Reminder{
		UserID:       "user-1",
		ReminderType: "nutrition_log",
		ReminderTime: time.Date(2025, 6, 1, 17, 0, 0, 0, time.UTC),
		Payload:      models.JSONMap{"meal": "lunch"},
	}
	assert.True(t, s.shouldSuppress(context.Background(), reminder, time.Now()))
}

func TestShouldSuppress_NutritionLogFailsOpenOnSuppressionError(t *testing.T) {
	s := &Scheduler{
		suppression: fakeSuppressionSource{err: assertError{}},
		profiles:    fakeProfileSource{tz: "UTC"},
		defaultTZ:   "UTC",
	}
	reminder := &models.Reminder{
		UserID:       "user-1",
		ReminderType: "nutrition_log",
		ReminderTime: time.Now().UTC(),
		Payload:      models.JSONMap{"meal": "dinner"},
	}
	assert.False(t, s.shouldSuppress(context.Background(), reminder, time.Now()))
}

func TestShouldSuppress_NutritionLogWithoutMealKeyNeverSuppresses(t *testing.T) {
	s := &Scheduler{
		suppression: fakeSuppressionSource{logged: true},
		profiles:    fakeProfileSource{tz: "UTC"},
		defaultTZ:   "UTC",
	}
	reminder := &models.Reminder{
		UserID:       "user-1",
		ReminderType: "nutrition_log",
		ReminderTime: time.Now().UTC(),
	}
	assert.False(t, s.shouldSuppress(context.Background(), reminder, time.Now()))
}

type assertError struct{}

func (assertError) Error() string { return "suppression query failed" }
