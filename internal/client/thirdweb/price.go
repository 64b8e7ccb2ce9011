package thirdwebclient

import (
	"fmt"
	"math/big"
	"strings"
)

// ToAtomicAmount converts a dollar price such as "$0.10" into the token's
// smallest unit ("100000" for a 6 decimal stablecoin).
func ToAtomicAmount(price string, decimals int) (string, error) {
	p := strings.TrimSpace(price)
	p = strings.TrimPrefix(p, "$")
	if p == "" {
		return "", fmt.Errorf("price is required")
	}

	r, ok := new(big.Rat).SetString(p)
	if !ok {
		return "", fmt.Errorf("invalid price %q", price)
	}
	if r.Sign() <= 0 {
		return "", fmt.Errorf("price must be positive, got %q", price)
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	r.Mul(r, new(big.Rat).SetInt(scale))
	if !r.IsInt() {
		return "", fmt.Errorf("price %q has more than %d decimal places", price, decimals)
	}
	return r.Num().String(), nil
}
