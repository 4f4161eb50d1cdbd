package mongotx

import "errors"

// Errors
var (
	// ErrUnknownTx reports a transaction kind the adapter does not dispatch.
	ErrUnknownTx = errors.New("unknown transaction kind")
	// ErrBadOperator reports a malformed operator payload, detected before
	// any store call is made.
	ErrBadOperator = errors.New("malformed update operator")
)
