package mesh

import "fmt"

// FatalError marks a precondition violation (programmer error): a
// non-finite input, non-positive determinant, a missing tag, a
// mismatched array length, or a partition-safety failure. It is always
// a bug in the caller, never a candidate being rejected.
type FatalError struct {
	Op     string
	Detail string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("meshadapt: fatal: %s: %s", e.Op, e.Detail)
}

// Fatalf constructs a *FatalError.
func Fatalf(op, format string, args ...interface{}) error {
	return &FatalError{Op: op, Detail: fmt.Sprintf(format, args...)}
}
