package xclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestReal_Now(t *testing.T) {
	clk := Real()

	before := time.Now()
	now := clk.Now()
	after := time.Now()

	assert.False(t, now.Before(before))
	assert.False(t, now.After(after))
}

func TestReal_NewTimer(t *testing.T) {
	t.Run("fires after duration", func(t *testing.T) {
		clk := Real()
		start := clk.Now()

		tm := clk.NewTimer(20 * time.Millisecond)
		select {
		case fired := <-tm.C():
			assert.GreaterOrEqual(t, fired.Sub(start), 20*time.Millisecond)
		case <-time.After(2 * time.Second):
			t.Fatal("timer did not fire")
		}
	})

	t.Run("stop prevents firing", func(t *testing.T) {
		clk := Real()

		tm := clk.NewTimer(time.Hour)
		require.True(t, tm.Stop())

		select {
		case <-tm.C():
			t.Fatal("stopped timer fired")
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("stop after fire returns false", func(t *testing.T) {
		clk := Real()

		tm := clk.NewTimer(time.Millisecond)
		<-tm.C()
		assert.False(t, tm.Stop())
	})
}

func TestReal_NewTimerAt(t *testing.T) {
	t.Run("fires at deadline", func(t *testing.T) {
		clk := Real()
		deadline := clk.Now().Add(20 * time.Millisecond)

		tm := clk.NewTimerAt(deadline)
		select {
		case fired := <-tm.C():
			assert.False(t, fired.Before(deadline))
		case <-time.After(2 * time.Second):
			t.Fatal("timer did not fire")
		}
	})

	t.Run("past deadline fires promptly", func(t *testing.T) {
		clk := Real()

		tm := clk.NewTimerAt(clk.Now().Add(-time.Second))
		select {
		case <-tm.C():
		case <-time.After(time.Second):
			t.Fatal("timer with elapsed deadline did not fire")
		}
	})
}
