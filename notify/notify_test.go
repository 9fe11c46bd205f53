package notify

import (
	"errors"
	"testing"
	"time"

	logger "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	got []Notification
}

func (r *recorder) Notify(n Notification) { r.got = append(r.got, n) }

func TestConstructors(t *testing.T) {
	n := Error(errors.New("boom"))
	assert.Equal(t, LevelError, n.Level)
	assert.Equal(t, "boom", n.Message)
	assert.False(t, n.Time.IsZero())

	assert.Equal(t, LevelSuccess, Success("ok").Level)
	assert.Equal(t, LevelInfo, Info("hi").Level)
}

func TestMulti(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	m := Multi{a, LogNotifier{}, Discard{}, b}
	m.Notify(Info("one"))
	m.Notify(Success("two"))

	require.Len(t, a.got, 2)
	assert.Equal(t, a.got, b.got)
	assert.Equal(t, "two", b.got[1].Message)
}

func TestHubFanOut(t *testing.T) {
	h := NewHub(4)
	ch1, cancel1 := h.Subscribe()
	ch2, cancel2 := h.Subscribe()
	defer cancel2()
	assert.Equal(t, 2, h.Len())

	h.Notify(Info("hello"))
	assert.Equal(t, "hello", (<-ch1).Message)
	assert.Equal(t, "hello", (<-ch2).Message)

	cancel1()
	cancel1()
	assert.Equal(t, 1, h.Len())
	_, ok := <-ch1
	assert.False(t, ok)

	h.Notify(Info("again"))
	assert.Equal(t, "again", (<-ch2).Message)
}

func TestHubDropsForSlowSubscriber(t *testing.T) {
	h := NewHub(1)
	ch, cancel := h.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		h.Notify(Info("first"))
		h.Notify(Info("second"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a full subscriber")
	}
	assert.Equal(t, "first", (<-ch).Message)
	assert.Len(t, ch, 0)
}

func TestHubClose(t *testing.T) {
	h := NewHub(0)
	ch, cancel := h.Subscribe()
	h.Close()
	h.Close()

	_, ok := <-ch
	assert.False(t, ok)
	cancel()

	late, _ := h.Subscribe()
	_, ok = <-late
	assert.False(t, ok)
	assert.Equal(t, 0, h.Len())
}

func TestLogNotifierFields(t *testing.T) {
	hook := test.NewGlobal()
	defer logger.StandardLogger().ReplaceHooks(make(logger.LevelHooks))

	LogNotifier{}.Notify(Success("Submitted Signature: 0xabc"))
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logger.InfoLevel, entry.Level)
	assert.Equal(t, LevelSuccess, entry.Data["notification"])
	assert.NotContains(t, entry.Data, "level")

	LogNotifier{}.Notify(Error(errors.New("boom")))
	entry = hook.LastEntry()
	assert.Equal(t, logger.ErrorLevel, entry.Level)
	assert.Equal(t, "boom", entry.Message)
}
