package smbclient

import (
	"reflect"

	"github.com/absfs/smbclient/engine"
)

// resolve looks up op in the context's function table. Absent entries, nil
// functions and entries of an unexpected type are all reported as
// unsupported.
func resolve[F any](ctx engine.Context, op engine.Op) (F, error) {
	var zero F
	fn, ok := ctx.Function(op).(F)
	if !ok {
		return zero, &UnsupportedOperationError{Op: op}
	}
	if v := reflect.ValueOf(fn); v.Kind() == reflect.Func && v.IsNil() {
		return zero, &UnsupportedOperationError{Op: op}
	}
	return fn, nil
}
