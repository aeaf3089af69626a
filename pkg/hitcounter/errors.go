package hitcounter

import "errors"

// ErrInvalidArgument is returned by Top and TopCount when n < 0.
var ErrInvalidArgument = errors.New("hitcounter: n must not be negative")

// ErrAllocationFailure is reserved for backends that can fail to allocate a
// new bucket or entry (e.g. an arena-backed implementation with a fixed
// budget). The in-process, GC-backed Counter in this package never returns
// it: Go has no recoverable allocation-failure path, a failing allocation
// panics the process instead.
var ErrAllocationFailure = errors.New("hitcounter: allocation failure")
