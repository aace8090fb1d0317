package common

import "fmt"

// Assert aborts the process when condition does not hold. It is used for
// programmer errors (bad frame ids, illegal replacer state transitions) as
// distinguished from client-visible "expected" failures, which are surfaced
// as booleans or nil returns instead of panicking.
func Assert(condition bool, format string, args ...interface{}) {
	if !condition {
		panic(fmt.Sprintf(format, args...))
	}
}
