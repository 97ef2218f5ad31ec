package program

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"vjpl/pkg/interpreter"
)

// DefaultHosts returns the host functions every runner provides:
//
//	sleep(ms int32) int32   suspends for ms milliseconds and returns ms
//	now() int64             unix time in milliseconds
//	uuid() ref              a random UUID string
func DefaultHosts() map[string]interpreter.HostFunc {
	return map[string]interpreter.HostFunc{
		"sleep": sleep,
		"now":   now,
		"uuid":  newUUID,
	}
}

func arity(name string, args []interpreter.Value, cats ...interpreter.Category) error {
	if len(args) != len(cats) {
		return fmt.Errorf("%s takes %d arguments, got %d", name, len(cats), len(args))
	}
	for i, c := range cats {
		if args[i].Cat != c {
			return fmt.Errorf("%s argument %d: expected %s, got %s", name, i, c, args[i].Cat)
		}
	}
	return nil
}

func sleep(ctx context.Context, args []interpreter.Value) (interpreter.Value, error) {
	if err := arity("sleep", args, interpreter.CatInt32); err != nil {
		return interpreter.Value{}, err
	}
	timer := time.NewTimer(time.Duration(args[0].I32) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return interpreter.Value{}, ctx.Err()
	case <-timer.C:
		return args[0], nil
	}
}

func now(_ context.Context, args []interpreter.Value) (interpreter.Value, error) {
	if err := arity("now", args); err != nil {
		return interpreter.Value{}, err
	}
	return interpreter.Int64Value(time.Now().UnixMilli()), nil
}

func newUUID(_ context.Context, args []interpreter.Value) (interpreter.Value, error) {
	if err := arity("uuid", args); err != nil {
		return interpreter.Value{}, err
	}
	return interpreter.RefValue(uuid.NewString()), nil
}
