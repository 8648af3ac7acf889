package application

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/shopspring/decimal"
)

var satsPerBTC = decimal.NewFromInt(btcutil.SatoshiPerBitcoin)

// ParseBTCAmount converts a BTC denominated string, like 0.5, into an
// amount. It fails for non positive values or values with more than 8
// decimals.
func ParseBTCAmount(str string) (btcutil.Amount, error) {
	d, err := decimal.NewFromString(str)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return AmountFromBTC(d)
}

// AmountFromBTC ...
func AmountFromBTC(btc decimal.Decimal) (btcutil.Amount, error) {
	sats := btc.Mul(satsPerBTC)
	if !sats.IsInteger() || !sats.IsPositive() || sats.GreaterThan(decimal.NewFromInt(int64(btcutil.MaxSatoshi))) {
		return 0, ErrInvalidAmount
	}
	return btcutil.Amount(sats.IntPart()), nil
}

// FormatBTC returns the BTC denomination of the given satoshis.
func FormatBTC(sats int64) string {
	return decimal.New(sats, -8).StringFixed(8)
}
