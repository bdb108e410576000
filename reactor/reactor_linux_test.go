//go:build linux

package reactor_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/momentics/wsreactor/api"
	"github.com/momentics/wsreactor/reactor"
)

type fdSource int

func (f fdSource) Fd() int { return int(f) }

func newPipe(t *testing.T) (r, w fdSource) {
	t.Helper()
	var p [2]int
	require.NoError(t, unix.Pipe2(p[:], unix.O_NONBLOCK|unix.O_CLOEXEC))
	t.Cleanup(func() {
		unix.Close(p[0])
		unix.Close(p[1])
	})
	return fdSource(p[0]), fdSource(p[1])
}

func TestEpollOneshotRearm(t *testing.T) {
	p, err := reactor.New(8)
	require.NoError(t, err)
	defer p.Close()

	r, w := newPipe(t)
	const tok = api.Token(1<<40 + 5)
	require.NoError(t, p.Register(r, tok, api.Readable, api.Edge|api.Oneshot))

	events := make([]api.Event, 8)
	n, err := p.Wait(events, 0)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = unix.Write(int(w), []byte("ping"))
	require.NoError(t, err)

	n, err = p.Wait(events, time.Second)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	assert.Equal(t, tok, events[0].Token)
	assert.True(t, events[0].Ready.IsReadable())
	assert.False(t, events[0].Hangup)

	// still readable, but the one-shot registration is disarmed
	n, err = p.Wait(events, 20*time.Millisecond)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, p.Reregister(r, tok, api.Readable, api.Edge|api.Oneshot))
	n, err = p.Wait(events, time.Second)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	assert.Equal(t, tok, events[0].Token)
}

func TestEpollWritableAndHangup(t *testing.T) {
	p, err := reactor.New(0)
	require.NoError(t, err)
	defer p.Close()

	var fds [2]int
	require.NoError(t, unix.Pipe2(fds[:], unix.O_NONBLOCK|unix.O_CLOEXEC))
	r, w := fdSource(fds[0]), fdSource(fds[1])
	defer unix.Close(int(r))

	require.NoError(t, p.Register(w, 7, api.Writable, api.Edge|api.Oneshot))
	events := make([]api.Event, 4)
	n, err := p.Wait(events, time.Second)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	assert.Equal(t, api.Writable, events[0].Ready)
	require.NoError(t, p.Deregister(w))

	require.NoError(t, p.Register(r, 8, api.Readable, api.Edge|api.Oneshot))
	require.NoError(t, unix.Close(int(w)))
	n, err = p.Wait(events, time.Second)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	assert.Equal(t, api.Token(8), events[0].Token)
	assert.True(t, events[0].Hangup)
}

func TestEpollRejectsEmptyBuffer(t *testing.T) {
	p, err := reactor.New(1)
	require.NoError(t, err)
	defer p.Close()
	_, err = p.Wait(nil, 0)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}
