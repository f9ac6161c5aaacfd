package utils

import (
	"math/rand"
)

// GenerateOTP returns a random code in [0, 1000000). Codes are rendered
// zero-padded to six digits in outgoing mail.
func GenerateOTP() int64 {
	return rand.Int63n(1000000)
}
