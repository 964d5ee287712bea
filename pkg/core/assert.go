//go:build !raydebug

package core

// Assert is a no-op unless built with the raydebug tag
func Assert(cond bool, msg string) {}
