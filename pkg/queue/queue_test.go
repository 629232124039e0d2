package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordJob reports its payload on a package-level channel so tests can
// observe a worker processing it.
type recordJob struct {
	Value string `json:"value"`
}

var processed = make(chan string, 10)

func (j *recordJob) Handle() error {
	processed <- j.Value
	return nil
}

type failingJob struct {
	Value string `json:"value"`
}

var failingAttempts = make(chan struct{}, 10)

func (j *failingJob) Handle() error {
	failingAttempts <- struct{}{}
	return errors.New("smtp connection refused")
}

func TestDispatchRoundTrip(t *testing.T) {
	Register("*queue.recordJob", func() Job { return &recordJob{} })
	SetDriver(NewMemoryDriver())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartWorkers(ctx, 1)

	require.NoError(t, Dispatch(&recordJob{Value: "reset-mail"}))

	select {
	case got := <-processed:
		assert.Equal(t, "reset-mail", got)
	case <-time.After(2 * time.Second):
		t.Fatal("job was never processed")
	}
}

func TestExhaustedJobLandsInFailedJobs(t *testing.T) {
	Register("*queue.failingJob", func() Job { return &failingJob{} })
	SetDriver(NewMemoryDriver())
	SetMaxRetry(2)
	defer SetMaxRetry(3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartWorkers(ctx, 1)

	require.NoError(t, Dispatch(&failingJob{Value: "doomed"}))

	// Both attempts must fire before the job is marked failed.
	for i := 0; i < 2; i++ {
		select {
		case <-failingAttempts:
		case <-time.After(5 * time.Second):
			t.Fatal("retry never ran")
		}
	}

	require.Eventually(t, func() bool {
		for _, f := range FailedJobs() {
			if job, ok := f.Job.(*failingJob); ok && job.Value == "doomed" {
				return f.Attempts == 2 && f.Err != nil
			}
		}
		return false
	}, 5*time.Second, 50*time.Millisecond)
}

func TestUnregisteredTypeIsDropped(t *testing.T) {
	m := &Manager{registry: map[string]func() Job{}, maxRetry: 1}

	// Must not panic, and must not record a failure.
	m.process([]byte(`{"type":"*queue.ghostJob","payload":{}}`))
	assert.Empty(t, m.failed)
}

func TestMalformedEnvelopeIsDropped(t *testing.T) {
	m := &Manager{registry: map[string]func() Job{}, maxRetry: 1}

	m.process([]byte(`{not json`))
	assert.Empty(t, m.failed)
}
