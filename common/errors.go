package common

import (
	"errors"

	"github.com/hermeznetwork/tracerr"
)

// ErrMulticallDecode is used when the aggregated multicall response can not
// be interpreted as the expected contract configuration
var ErrMulticallDecode = errors.New("multicall response decode failed")

// ErrProtocolInvariant is used when an operation belongs to a newer bridge
// generation than the one deployed on L1.  The process must not keep running
// after seeing it.
var ErrProtocolInvariant = errors.New("operation protocol version is post shared bridge " +
	"but L1 contracts are pre shared bridge")

// ErrABIEncoding is used when the ABI packing of an aggregated operation fails
var ErrABIEncoding = errors.New("aggregated operation ABI encoding failed")

// ErrMissingPubdata is used when blob pubdata mode is selected but the first
// batch of a commit operation carries no pubdata input
var ErrMissingPubdata = errors.New("pubdata input missing for blob commit")

// ErrBlobCommitRange is used when a commit in blob pubdata mode carries other
// than exactly one batch
var ErrBlobCommitRange = errors.New("blob commits carry a single batch")

// ErrRangeAlreadyClaimed is used when some batch of a range already points at
// an eth tx for the same action type, or is missing from the DB
var ErrRangeAlreadyClaimed = errors.New("l1 batch range already claimed or unknown")

// Wrap annotates the error with the stack trace of the caller.  A nil error
// stays nil.
func Wrap(err error) error {
	return tracerr.Wrap(err)
}

// Unwrap returns the error without the stack trace annotation
func Unwrap(err error) error {
	return tracerr.Unwrap(err)
}

// IsFatal returns true for the errors after which the aggregator must stop
// instead of retrying in the next iteration
func IsFatal(err error) bool {
	return ErrorIs(err, ErrProtocolInvariant) || ErrorIs(err, ErrABIEncoding) ||
		ErrorIs(err, ErrBlobCommitRange)
}

// ErrorIs is errors.Is looking through the stack trace annotation added by Wrap
func ErrorIs(err, target error) bool {
	return errors.Is(err, target) || errors.Is(Unwrap(err), target)
}
