package registry

import (
	"slices"
	"strings"

	"github.com/alphadose/haxmap"
)

// Registry is a concurrent map from names to values. Every operation is
// lock-free, so it is safe to use from callbacks and background goroutines.
type Registry[T any] interface {
	Add(name string, value T)
	Del(name string) (T, bool)
	Names() []string
}

type registry[T any] struct {
	values *haxmap.Map[string, T]
}

func New[T any]() Registry[T] {
	return &registry[T]{
		values: haxmap.New[string, T](),
	}
}

func (r *registry[T]) Add(name string, value T) {
	r.values.Set(name, value)
}

// Del removes name and returns the value it held, if any.
func (r *registry[T]) Del(name string) (T, bool) {
	return r.values.GetAndDel(name)
}

// Names returns the registered names in lexical order. Entries added or
// removed concurrently may or may not be included.
func (r *registry[T]) Names() []string {
	names := make([]string, 0, r.values.Len())
	r.values.ForEach(func(name string, _ T) bool {
		names = append(names, name)
		return true
	})
	slices.SortFunc(names, strings.Compare)
	return names
}
