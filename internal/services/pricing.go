package services

import (
	"github.com/shopspring/decimal"
)

const monetaryPrecision int32 = 4 // money columns are decimal(19,4)

var (
	purchasedStartRatio    = decimal.RequireFromString("0.75")
	manufacturedStartRatio = decimal.RequireFromString("0.50")
)

// DefaultInitialBidPrice derives the opening price of a listing from the
// catalog list price: 75% for purchased items, 50% for manufactured ones.
func DefaultInitialBidPrice(listPrice decimal.Decimal, makeFlag bool) decimal.Decimal {
	ratio := purchasedStartRatio
	if makeFlag {
		ratio = manufacturedStartRatio
	}
	return listPrice.Mul(ratio).Round(monetaryPrecision)
}

// CheckBidAmount validates a bid increment against the listing bounds.
// maxBid caps each individual amount, not the running price.
func CheckBidAmount(amount, minBid, maxBid decimal.Decimal) error {
	if amount.LessThan(minBid) {
		return validationError("bid amount %s must meet the minimum bid of %s", amount.String(), minBid.String())
	}
	if amount.GreaterThan(maxBid) {
		return validationError("bid amount %s exceeds the maximum bid of %s", amount.String(), maxBid.String())
	}
	return nil
}

// NextCurrentPrice adds a bid increment to the running price
func NextCurrentPrice(previous, amount decimal.Decimal) decimal.Decimal {
	return previous.Add(amount).Round(monetaryPrecision)
}
