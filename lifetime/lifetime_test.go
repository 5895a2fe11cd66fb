package lifetime

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type owner struct {
	name string
	pad  [64]byte
}

func TestWeak(t *testing.T) {
	t.Run("alive while referenced", func(t *testing.T) {
		o := &owner{name: "inventory"}
		src := Weak(o)
		runtime.GC()
		assert.True(t, src.Alive())
		runtime.KeepAlive(o)
	})

	t.Run("dead after collection", func(t *testing.T) {
		src := func() Source {
			o := &owner{name: "inventory"}
			return Weak(o)
		}()
		require.Eventually(t, func() bool {
			runtime.GC()
			return !src.Alive()
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("nil pointer is dead", func(t *testing.T) {
		assert.False(t, Weak[owner](nil).Alive())
	})

	t.Run("same pointer compares equal", func(t *testing.T) {
		o := &owner{}
		assert.True(t, Weak(o) == Weak(o))
		assert.False(t, Weak(o) == Weak(&owner{}))
		runtime.KeepAlive(o)
	})
}

func TestScope(t *testing.T) {
	s := NewScope()
	assert.True(t, s.Alive())
	s.Close()
	assert.False(t, s.Alive())
	s.Close()
	assert.False(t, s.Alive())

	var src Source = s
	assert.True(t, src == Source(s))
	assert.False(t, src == Source(NewScope()))
}

func TestContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := Context(ctx)
	assert.True(t, src.Alive())
	assert.True(t, src == Context(ctx))

	cancel()
	assert.False(t, src.Alive())

	assert.True(t, Context(context.Background()).Alive())
}

func TestAlways(t *testing.T) {
	assert.True(t, Always().Alive())
	assert.True(t, Always() == Always())
}
