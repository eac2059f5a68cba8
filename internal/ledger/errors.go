package ledger

import "errors"

// Transaction errors
var (
	ErrInvalidTransactionType   = errors.New("invalid transaction type")
	ErrNonPositiveAmount        = errors.New("amount must be greater than zero")
	ErrNegativeFee              = errors.New("fee cannot be negative")
	ErrInvalidWalletRef         = errors.New("invalid wallet reference")
	ErrInvalidTransferDirection = errors.New("invalid transfer direction")
	ErrTransactionNotFound      = errors.New("transaction not found")
	ErrTransferNotDirect        = errors.New("transfer rows are decomposed into legs and never applied directly")
	ErrSameWalletTransfer       = errors.New("cannot transfer to the same wallet")
	ErrNotTransferLeg           = errors.New("transaction is not a transfer leg")
	ErrInsufficientBalance      = errors.New("insufficient balance")
)

// Checkpoint errors
var (
	ErrCheckpointNotFound       = errors.New("checkpoint not found")
	ErrNegativeCheckpointAmount = errors.New("checkpoint balance cannot be negative")
)

// Report errors
var (
	ErrInvalidReportPeriod       = errors.New("invalid report period")
	ErrInvalidBreakdownDimension = errors.New("invalid breakdown dimension")
)

// Access errors
var (
	ErrUnauthorizedAccess = errors.New("record does not belong to the requesting user")
)
