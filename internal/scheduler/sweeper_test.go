package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCleaner struct {
	calls   atomic.Int32
	removed int64
	err     error
}

func (c *countingCleaner) CleanExpiredSessions(context.Context) (int64, error) {
	c.calls.Add(1)
	return c.removed, c.err
}

func TestNewSessionSweeperRejectsBadSchedule(t *testing.T) {
	_, err := NewSessionSweeper(&countingCleaner{}, "every tuesday", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "every tuesday")
}

func TestSweepDelegatesToCleaner(t *testing.T) {
	cleaner := &countingCleaner{removed: 3}
	sweeper, err := NewSessionSweeper(cleaner, DefaultSweepSchedule, nil)
	require.NoError(t, err)

	removed, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	assert.Equal(t, int32(1), cleaner.calls.Load())
}

func TestRunLoggedReportsOutcome(t *testing.T) {
	logger, hook := test.NewNullLogger()

	cleaner := &countingCleaner{removed: 2}
	sweeper, err := NewSessionSweeper(cleaner, "*/5 * * * *", logger)
	require.NoError(t, err)

	sweeper.runLogged()
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, int64(2), entry.Data["removed"])

	cleaner.err = errors.New("disk full")
	sweeper.runLogged()
	entry = hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "session-sweep", entry.Data["job"])
}

func TestStartStop(t *testing.T) {
	sweeper, err := NewSessionSweeper(&countingCleaner{}, DefaultSweepSchedule, nil)
	require.NoError(t, err)

	sweeper.Start()
	sweeper.Stop(context.Background())
}
