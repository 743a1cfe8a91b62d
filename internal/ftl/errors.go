package ftl

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrFreeQueueUnderflow is fatal: it indicates a geometry/overprovisioning
// violation where a write or active-block rotation needed a free block
// and none was available. The free/active/in-use block partition no
// longer accounts for every block by the time this fires.
type ErrFreeQueueUnderflow struct {
	LBA       LBA // logical address being written when the underflow hit
	QueueSize int // free-queue size observed at the moment of underflow (always 0)
}

func (e *ErrFreeQueueUnderflow) Error() string {
	return fmt.Sprintf("ftl: free-block queue underflow writing lba=%d (queue size=%d)", e.LBA, e.QueueSize)
}

// ErrOutOfRange is fatal: lba is outside [0, LogicalPages).
type ErrOutOfRange struct {
	LBA          LBA
	LogicalPages int
}

func (e *ErrOutOfRange) Error() string {
	return fmt.Sprintf("ftl: lba %d out of range [0, %d)", e.LBA, e.LogicalPages)
}

// wrapOpenErr wraps a trace-file open failure with the path, for the
// top-level CLI to print as a single diagnostic line (or, in verbose mode,
// a full %+v stack via pkg/errors).
func wrapOpenErr(path string, cause error) error {
	return errors.Wrapf(cause, "open trace file %q", path)
}
