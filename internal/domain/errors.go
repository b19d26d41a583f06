package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrExpired           = errors.New("listing expired")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidState      = errors.New("invalid state transition")
	ErrBtcTxUnverified   = errors.New("btc transaction unverified")
	ErrAlreadyRefunded   = errors.New("escrow already refunded")
	ErrAlreadyDisputed   = errors.New("escrow already disputed")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// ErrOracleFailure marks a verification attempt the oracle could not answer,
// as opposed to the oracle answering "not paid". It wraps ErrBtcTxUnverified
// so callers that only care about "did not verify" match both; callers that
// retry differently on outages branch on this one.
var ErrOracleFailure = fmt.Errorf("verification oracle failure: %w", ErrBtcTxUnverified)
