package ledger

import (
	"fmt"

	"github.com/google/uuid"
)

const bankCode = "ABKC"

// digits renders n decimal digits from fresh uuid entropy.
func digits(n int) string {
	out := make([]byte, 0, n)
	for len(out) < n {
		for _, b := range uuid.New() {
			if len(out) == n {
				break
			}
			out = append(out, '0'+b%10)
		}
	}
	return string(out)
}

// newIBAN generates an account identifier. The format is stable but the
// check digits are not real MOD-97 values; accounts never leave the
// process.
func newIBAN() string {
	return fmt.Sprintf("RO%s%s%s", digits(2), bankCode, digits(16))
}

// newCardNumber generates a 16-digit card number.
func newCardNumber() string {
	return digits(16)
}
