package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "fitness.progress.logged", Subject("fitness", ProgressLogged))
	assert.Equal(t, "group.created", Subject("", GroupCreated))
}

func TestEvent_Encode(t *testing.T) {
	at := time.Date(2024, 5, 1, 7, 30, 0, 0, time.UTC)
	data, err := Event{Type: ProgressLogged, WorkoutID: "w1", UserID: "u1", Score: 150, OccurredAt: at}.Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"progress.logged","workoutId":"w1","userId":"u1","score":150,"occurredAt":"2024-05-01T07:30:00Z"}`, string(data))
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	require.NoError(t, r.Publish(context.Background(), Event{Type: GroupCreated}))
	require.NoError(t, r.Publish(context.Background(), Event{Type: GroupJoined}))
	assert.Equal(t, []string{GroupCreated, GroupJoined}, r.Types())

	assert.NoError(t, Nop{}.Publish(context.Background(), Event{Type: GroupCreated}))
}

type failingPublisher struct{ err error }

func (f failingPublisher) Publish(context.Context, Event) error { return f.err }

func TestMulti(t *testing.T) {
	first, second := &Recorder{}, &Recorder{}
	m := Multi{first, failingPublisher{errors.New("nats down")}, second}

	err := m.Publish(context.Background(), Event{Type: WorkoutCreated})
	require.EqualError(t, err, "nats down")
	assert.Equal(t, []string{WorkoutCreated}, first.Types())
	assert.Equal(t, []string{WorkoutCreated}, second.Types())

	assert.NoError(t, Multi{}.Publish(context.Background(), Event{Type: WorkoutCreated}))
}
