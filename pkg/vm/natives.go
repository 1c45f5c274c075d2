package vm

import (
	"time"

	"github.com/aolsen/lumen/pkg/object"
	"github.com/aolsen/lumen/pkg/value"
)

// defineNatives pre-defines the handful of native globals every VM
// starts with. clock() is the only one spec.md §7 names; it reports
// milliseconds elapsed since the Unix epoch.
func (vm *VM) defineNatives() {
	vm.defineNative("clock", func(argCount int, args []value.Value) (value.Value, error) {
		return value.Number(float64(time.Now().UnixMilli())), nil
	})
}

func (vm *VM) defineNative(name string, fn object.NativeFunc) {
	vm.globals.Put(name, object.NewNativeFunction(name, fn))
}
