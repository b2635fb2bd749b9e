package core

import (
	"errors"
	"strconv"
)

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unkown
	ErrUnknown ErrorCode = 100000
	// ErrUnauthorized sender is not allowed to perform the operation
	ErrUnauthorized ErrorCode = 100001

	// ErrMarketNotFound no market
	ErrMarketNotFound ErrorCode = 100100
	// ErrInvalidAmount invalid amount
	ErrInvalidAmount ErrorCode = 100101
	// ErrZeroAmount zero amount
	ErrZeroAmount ErrorCode = 100102
	// ErrMarketAlreadyExists market already registered for the asset
	ErrMarketAlreadyExists ErrorCode = 100103
	// ErrCreditLineExceeded not enough credit line
	ErrCreditLineExceeded ErrorCode = 100104
	//ErrInsufficientLiquidity insufficient liquidity
	ErrInsufficientLiquidity ErrorCode = 100105
	// ErrInsufficientLtokens ltoken value lower than the requested amount
	ErrInsufficientLtokens ErrorCode = 100106
	// ErrRepayExceedsDebt repay more than owed
	ErrRepayExceedsDebt ErrorCode = 100107
	// ErrInvalidDenom funds sent in another asset
	ErrInvalidDenom ErrorCode = 100108
	// ErrExtraDenoms more than one asset sent
	ErrExtraDenoms ErrorCode = 100109
	// ErrLiquidationNotAllowed the account's credit line still covers its debt
	ErrLiquidationNotAllowed ErrorCode = 100110
	// ErrDepositOverCap deposit would take the market over its cap
	ErrDepositOverCap ErrorCode = 100111
	// ErrInvalidAccount empty or malformed account
	ErrInvalidAccount ErrorCode = 100112

	// ErrPriceNotFound no price for the pair
	ErrPriceNotFound ErrorCode = 100200
	// ErrPriceExpired price older than maximum age
	ErrPriceExpired ErrorCode = 100201

	// ErrArithmeticOverflow value out of range
	ErrArithmeticOverflow ErrorCode = 100300

	// ErrVersionConflict the row changed under a concurrent writer
	ErrVersionConflict ErrorCode = 100400
)

var errorMessages = map[ErrorCode]string{
	ErrUnknown:               "unknown error",
	ErrUnauthorized:          "unauthorized",
	ErrMarketNotFound:        "market not found",
	ErrInvalidAmount:         "invalid amount",
	ErrZeroAmount:            "zero amount",
	ErrMarketAlreadyExists:   "market already exists",
	ErrCreditLineExceeded:    "credit line exceeded",
	ErrInsufficientLiquidity: "insufficient liquidity",
	ErrInsufficientLtokens:   "insufficient ltokens",
	ErrRepayExceedsDebt:      "repay exceeds debt",
	ErrInvalidDenom:          "invalid denom",
	ErrExtraDenoms:           "extra denoms",
	ErrLiquidationNotAllowed: "liquidation not allowed",
	ErrDepositOverCap:        "deposit over market cap",
	ErrInvalidAccount:        "invalid account",
	ErrPriceNotFound:         "price not found",
	ErrPriceExpired:          "price expired",
	ErrArithmeticOverflow:    "arithmetic overflow",
	ErrVersionConflict:       "version conflict",
}

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	if msg, ok := errorMessages[e]; ok {
		return msg
	}

	return e.String()
}

// ErrorCodeOf the error code carried by err
func ErrorCodeOf(err error) (ErrorCode, bool) {
	var code ErrorCode
	if errors.As(err, &code) {
		return code, true
	}

	return 0, false
}
