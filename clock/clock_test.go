package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualFiresInDeadlineOrder(t *testing.T) {
	m := NewManual()
	var got []string
	m.AfterFunc(30*time.Millisecond, func() { got = append(got, "c") })
	m.AfterFunc(10*time.Millisecond, func() { got = append(got, "a") })
	m.AfterFunc(20*time.Millisecond, func() { got = append(got, "b") })

	assert.Equal(t, 2, m.Advance(25*time.Millisecond))
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, m.Pending())

	assert.Equal(t, 1, m.Advance(5*time.Millisecond))
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 30*time.Millisecond, m.Now())
}

func TestManualStop(t *testing.T) {
	m := NewManual()
	fired := false
	timer := m.AfterFunc(time.Second, func() { fired = true })

	require.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	assert.Equal(t, 0, m.Advance(2*time.Second))
	assert.False(t, fired)
}

func TestManualCallbackSchedulesWithinWindow(t *testing.T) {
	m := NewManual()
	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 3 {
			m.AfterFunc(10*time.Millisecond, tick)
		}
	}
	m.AfterFunc(10*time.Millisecond, tick)

	m.Advance(100 * time.Millisecond)
	assert.Equal(t, 3, count)
	assert.Zero(t, m.Pending())
}

func TestRealStopBeforeFire(t *testing.T) {
	timer := Real().AfterFunc(time.Hour, func() { t.Error("timer fired") })
	assert.True(t, timer.Stop())
}

func TestDeferredWaitsForRun(t *testing.T) {
	s := NewDeferred()
	var got []string
	s.AfterFunc(time.Millisecond, func() { got = append(got, "a") })
	s.AfterFunc(time.Hour, func() { got = append(got, "late") })

	require.Eventually(t, func() bool { return s.Due() == 1 }, time.Second, time.Millisecond)
	assert.Empty(t, got)

	assert.Equal(t, 1, s.Run())
	assert.Equal(t, []string{"a"}, got)
	assert.Zero(t, s.Run())
}

func TestDeferredStopAfterDue(t *testing.T) {
	s := NewDeferred()
	timer := s.AfterFunc(time.Millisecond, func() { t.Error("stopped timer ran") })
	require.Eventually(t, func() bool { return s.Due() == 1 }, time.Second, time.Millisecond)

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	assert.Zero(t, s.Run())
}
