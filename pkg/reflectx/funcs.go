package reflectx

import (
	"reflect"
	"runtime"
	"strings"
	"unsafe"
)

func IsFunction(fn any) bool {
	if fn == nil {
		return false
	}

	ftpe := reflect.TypeOf(fn)
	return ftpe.Kind() == reflect.Func
}

// FunctionName returns the runtime name of fn without its import path,
// e.g. "hoot.TestSend.func1" or "(*Inventory).OnOrder".
// Nil and non-function values yield an empty string.
func FunctionName(fn any) string {
	if !IsFunction(fn) {
		return ""
	}

	val := reflect.ValueOf(fn)
	if val.IsNil() {
		return ""
	}

	rf := runtime.FuncForPC(val.Pointer())
	if rf == nil {
		return val.Type().String()
	}

	name := rf.Name()
	if lastSlash := strings.LastIndex(name, "/"); lastSlash >= 0 {
		name = name[lastSlash+1:]
	}
	return strings.TrimSuffix(name, "-fm")
}

// FuncID returns the identity of a function value: the address of the closure
// object it points to. Two copies of the same func value share an id, while two
// evaluations of a func literal or method value generally do not. Nil yields 0.
//
// Go func values are not comparable, this is what reference equality on a
// callback boils down to.
func FuncID[F any](fn F) uintptr {
	val := reflect.ValueOf(fn)
	if val.Kind() != reflect.Func || val.IsNil() {
		return 0
	}
	return *(*uintptr)(unsafe.Pointer(&fn))
}

// TypeName returns the name of T including its package, e.g. "orders.Created".
// Pointer types are rendered with a leading '*'.
func TypeName[T any]() string {
	return NameOf(reflect.TypeFor[T]())
}

// NameOf renders a reflect.Type the way TypeName does.
func NameOf(typ reflect.Type) string {
	if typ == nil {
		return "<nil>"
	}
	return typ.String()
}
