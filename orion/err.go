package orion

import "fmt"

// Handle panics if err is not nil. The viewer uses it where a frame can not
// continue and there is no caller to report to, e.g. when the surface can
// not be reconfigured after the window was resized.
//
// The panic value is an error wrapping err, described by desc and args.
func Handle(err error, desc string, args ...any) {
	if err == nil {
		return
	}

	panic(fmt.Errorf("%s: %w", fmt.Sprintf(desc, args...), err))
}
