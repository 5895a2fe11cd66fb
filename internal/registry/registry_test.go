package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Run("del returns the removed value", func(t *testing.T) {
		r := New[string]()
		r.Add("a", "x")

		v, ok := r.Del("a")
		require.True(t, ok)
		assert.Equal(t, "x", v)

		_, ok = r.Del("a")
		assert.False(t, ok)
		assert.Empty(t, r.Names())
	})

	t.Run("add replaces", func(t *testing.T) {
		r := New[int]()
		r.Add("a", 1)
		r.Add("a", 2)

		v, ok := r.Del("a")
		require.True(t, ok)
		assert.Equal(t, 2, v)
	})

	t.Run("names are sorted", func(t *testing.T) {
		r := New[int]()
		r.Add("c", 3)
		r.Add("a", 1)
		r.Add("b", 2)
		assert.Equal(t, []string{"a", "b", "c"}, r.Names())
	})

	t.Run("concurrent adds and deletes", func(t *testing.T) {
		r := New[int]()
		var wg sync.WaitGroup
		for i := range 64 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				name := fmt.Sprintf("n-%02d", i)
				r.Add(name, i)
				if i%2 == 0 {
					r.Del(name)
				}
			}()
		}
		wg.Wait()

		names := r.Names()
		require.Len(t, names, 32)
		assert.Equal(t, "n-01", names[0])
	})
}
