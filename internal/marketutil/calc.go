// Package marketutil holds the pure marketplace arithmetic: fee and
// conversion formulas shared by the escrow manager and the query layer.
// Everything works on smallest units (microSTX, satoshis) and truncates.
package marketutil

import "math/big"

const (
	// SatsPerBtc scales a per-BTC price down to a per-satoshi quantity.
	SatsPerBtc = 100_000_000
	// BpsDenominator is the basis-point unit, 1/10000.
	BpsDenominator = 10_000
	// PlatformFeeBps is the platform cut taken on release to the seller.
	PlatformFeeBps = 1_000
	// SecondsPerBlock approximates wall-clock time per block.
	SecondsPerBlock = 600
)

// StxRequired computes the microSTX needed to buy btcSats at pricePerBtc
// (microSTX per whole BTC), truncating. Intermediate math is done in big.Int
// because price*sats can exceed 64 bits for outlandish listings.
func StxRequired(pricePerBtc, btcSats uint64) uint64 {
	product := new(big.Int).Mul(
		new(big.Int).SetUint64(pricePerBtc),
		new(big.Int).SetUint64(btcSats),
	)
	return product.Div(product, big.NewInt(SatsPerBtc)).Uint64()
}

// Fee returns amount*basisPoints/10000, truncating.
func Fee(amount, basisPoints uint64) uint64 {
	product := new(big.Int).Mul(
		new(big.Int).SetUint64(amount),
		new(big.Int).SetUint64(basisPoints),
	)
	return product.Div(product, big.NewInt(BpsDenominator)).Uint64()
}

// PlatformFee is Fee at the platform's configured default rate.
func PlatformFee(amount uint64) uint64 {
	return Fee(amount, PlatformFeeBps)
}

// BlocksToTime converts a block count to approximate seconds.
func BlocksToTime(blocks uint64) uint64 {
	return blocks * SecondsPerBlock
}

// IsExpired reports whether a listing expiring at expiresAt is past due at
// the given height. Expiry is strict: the listing is still live during the
// block it expires at.
func IsExpired(expiresAt, currentHeight uint64) bool {
	return currentHeight > expiresAt
}
