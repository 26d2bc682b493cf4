package model

import "errors"

var (
	ErrUnbalancedTransaction   = errors.New("unbalanced transaction")
	ErrInvalidAccountReference = errors.New("invalid account reference")
	ErrNoSplits                = errors.New("transaction has no splits")
	ErrNegativeAmount          = errors.New("split amount must be a non-negative magnitude")
	ErrInvalidSplitType        = errors.New("split type must be DEBIT or CREDIT")
	ErrMalformedSplit          = errors.New("malformed split")
)
