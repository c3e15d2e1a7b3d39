package jobqueue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobLifecycleMarks(t *testing.T) {
	job := &Job{ID: "j1", Type: JobTypeProcessPicture, Status: JobStatusPending, MaxRetries: DefaultMaxRetries}

	job.MarkAsProcessing()
	assert.Equal(t, JobStatusProcessing, job.Status)
	require.NotNil(t, job.ProcessedAt)

	job.MarkAsFailed("boom")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "boom", job.ErrorMsg)
	assert.Equal(t, 1, job.RetryCount)
	assert.True(t, job.IsRetryable())

	job.MarkAsCompleted()
	assert.Equal(t, JobStatusCompleted, job.Status)
	assert.Empty(t, job.ErrorMsg)
	require.NotNil(t, job.CompletedAt)
	assert.False(t, job.IsRetryable())
}

func TestIsRetryable_ExhaustedRetries(t *testing.T) {
	job := &Job{Status: JobStatusFailed, RetryCount: DefaultMaxRetries, MaxRetries: DefaultMaxRetries}
	assert.False(t, job.IsRetryable())
}

func TestProcessPictureJobPayload_RoundTrip(t *testing.T) {
	payload := ProcessPictureJobPayload{PictureID: 42}

	got, err := ProcessPictureJobPayloadFromMap(payload.ToMap())
	require.NoError(t, err)
	assert.Equal(t, uint(42), got.PictureID)
}
