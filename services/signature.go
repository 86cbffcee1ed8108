// services/signature.go
package services

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// PartialSigLen is how many hex chars of the full signature the client gets.
// Enough for a debug-level sanity echo, not enough to forge.
const PartialSigLen = 16

// SignatureService signs session tokens with an HMAC key generated once at
// process start. The key is never persisted or logged, so a restart
// implicitly invalidates every previously issued signature — sessions are
// not meant to survive a restart.
type SignatureService struct {
	secret []byte
}

func NewSignatureService() (*SignatureService, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate signing secret: %w", err)
	}
	return &SignatureService{secret: secret}, nil
}

// Sign returns the full hex HMAC-SHA256 over the token and its issuance
// instant. Deterministic within one process lifetime.
func (s *SignatureService) Sign(token string, startTime time.Time) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(token))
	mac.Write([]byte(strconv.FormatInt(startTime.UnixMilli(), 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Partial truncates a full signature to the client-visible prefix.
func Partial(fullSig string) string {
	if len(fullSig) < PartialSigLen {
		return fullSig
	}
	return fullSig[:PartialSigLen]
}

// Verify re-derives the signature and compares in constant time.
func (s *SignatureService) Verify(token string, startTime time.Time, sig string) bool {
	expected := s.Sign(token, startTime)
	return hmac.Equal([]byte(expected), []byte(sig))
}
