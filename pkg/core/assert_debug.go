//go:build raydebug

package core

// Assert panics with msg when cond is false
func Assert(cond bool, msg string) {
	if !cond {
		panic("assertion failed: " + msg)
	}
}
