// Package iocli abstracts terminal input/output so commands can be
// tested with scripted readers and captured writers.
package iocli

// IO is the terminal surface commands talk to.
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
}
