package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	// OTPTTL is how long a password reset code stays valid.
	OTPTTL = 10 * time.Minute

	otpMin = 1000
	otpMax = 9999
)

// generateOTP returns a uniformly random 4-digit code.
func generateOTP() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return 0, fmt.Errorf("failed to generate otp: %w", err)
	}
	return otpMin + int(n.Int64()), nil
}
