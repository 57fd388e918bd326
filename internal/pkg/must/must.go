// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

// package must contains functions to handle errors via panic.
// Used by the command line where any error ends the command.
package must

import (
	"fmt"
)

// Must panics if err != nil.
// If format is provided, panic contains fmt.Errorf(format+": %w", args..., err) else it contains err.
func Must(err error, format ...any) {
	if err == nil {
		return
	}
	if len(format) > 0 {
		err = fmt.Errorf("%v: %w", fmt.Sprintf(format[0].(string), format[1:]...), err)
	}
	panic(err)
}

// Must1 calls Must(err), then returns v.
func Must1[T any](v T, err error) T { Must(err); return v }
