package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"
)

const (
	base36Alphabet       = "0123456789abcdefghijklmnopqrstuvwxyz"
	referralCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

func randomString(alphabet string, n int) string {
	buf := make([]byte, n)
	max := big.NewInt(int64(len(alphabet)))
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
		}
		buf[i] = alphabet[idx.Int64()]
	}
	return string(buf)
}

// GenerateBookingID returns booking_<unixMillis>_<9 base36 chars>.
func GenerateBookingID(now time.Time) string {
	return "booking_" + strconv.FormatInt(now.UnixMilli(), 10) + "_" + randomString(base36Alphabet, 9)
}

// GenerateReferralCode returns prefix followed by six uppercase alphanumerics.
func GenerateReferralCode(prefix string) string {
	return prefix + randomString(referralCodeAlphabet, 6)
}

func GenerateOTP(length int) string {
	if length <= 0 {
		length = 6
	}
	return randomString("0123456789", length)
}
