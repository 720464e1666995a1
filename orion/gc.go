package orion

import (
	"log/slog"
	"reflect"
	"runtime"
)

type releaser interface{ Release() }

// RegisterWithGC calls Release on value once it is garbage collected.
// Release must be safe to call more than once, the value might have been
// released explicitly before.
func RegisterWithGC[T releaser](value T) T {
	runtime.SetFinalizer(value, releaseNow[T])
	return value
}

func releaseNow[T releaser](value T) {
	typ := reflect.TypeOf(value).String()
	slog.Debug("Releasing garbage collected instance", slog.String("type", typ))

	value.Release()
}
