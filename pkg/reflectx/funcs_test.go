package reflectx

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type functionTestStruct struct{}

func (t *functionTestStruct) method() {}
func (t functionTestStruct) method2() {}

func regularFunction()   {}
func withParams(x int)   {}
func withReturn() error  { return nil }
func variadic(...string) {}

type handlerFunc func(ctx context.Context, v string) error

func TestFunctionValidation(t *testing.T) {
	tests := []struct {
		name string
		fn   interface{}
		want bool
	}{
		{"nil", nil, false},
		{"int", 42, false},
		{"string", "not a func", false},
		{"struct", functionTestStruct{}, false},
		{"regular function", regularFunction, true},
		{"anonymous function", func() {}, true},
		{"function with params", withParams, true},
		{"function with return", withReturn, true},
		{"variadic function", variadic, true},
		{"pointer method", (*functionTestStruct).method, true},
		{"value method", (functionTestStruct).method2, true},
		{"named func type", handlerFunc(func(context.Context, string) error { return nil }), true},
	}

	for tt := range slices.Values(tests) {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsFunction(tt.fn))
		})
	}
}

type methodTestStruct struct{}

func (m *methodTestStruct) pointerMethod()              {}
func (m methodTestStruct) valueMethod()                 {}
func (m *methodTestStruct) pointerMethodWithArgs(x int) {}

func TestFunctionName(t *testing.T) {
	tests := []struct {
		name     string
		fn       interface{}
		expected string
	}{
		{"nil", nil, ""},
		{"int", 42, ""},
		{"typed nil", handlerFunc(nil), ""},
		{"regular function", regularFunction, "reflectx.regularFunction"},
		{"function with params", withParams, "reflectx.withParams"},
		{"pointer method", (*methodTestStruct).pointerMethod, "reflectx.(*methodTestStruct).pointerMethod"},
		{"value method", (methodTestStruct).valueMethod, "reflectx.methodTestStruct.valueMethod"},
		{"method value", (&methodTestStruct{}).pointerMethodWithArgs, "reflectx.(*methodTestStruct).pointerMethodWithArgs"},
	}

	for tt := range slices.Values(tests) {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, FunctionName(tt.fn))
		})
	}

	t.Run("anonymous function", func(t *testing.T) {
		got := FunctionName(func() {})
		assert.Contains(t, got, "TestFunctionName")
	})
}

func TestFuncID(t *testing.T) {
	t.Run("nil is zero", func(t *testing.T) {
		var fn handlerFunc
		assert.Zero(t, FuncID(fn))
	})

	t.Run("non function is zero", func(t *testing.T) {
		assert.Zero(t, FuncID(42))
	})

	t.Run("copies share an id", func(t *testing.T) {
		calls := 0
		fn := handlerFunc(func(context.Context, string) error {
			calls++
			return nil
		})
		other := fn
		assert.NotZero(t, FuncID(fn))
		assert.Equal(t, FuncID(fn), FuncID(other))
	})

	t.Run("distinct closures differ", func(t *testing.T) {
		var a, b int
		first := handlerFunc(func(context.Context, string) error { a++; return nil })
		second := handlerFunc(func(context.Context, string) error { b++; return nil })
		assert.NotEqual(t, FuncID(first), FuncID(second))
	})

	t.Run("top level functions are stable", func(t *testing.T) {
		assert.Equal(t, FuncID(regularFunction), FuncID(regularFunction))
		assert.NotEqual(t, FuncID(regularFunction), FuncID(withReturn))
	})
}

type sample struct{}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "reflectx.sample", TypeName[sample]())
	assert.Equal(t, "*reflectx.sample", TypeName[*sample]())
	assert.Equal(t, "string", TypeName[string]())
	assert.Equal(t, "<nil>", NameOf(nil))
}
