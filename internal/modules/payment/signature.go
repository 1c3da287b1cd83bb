package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignHex returns the lowercase hex HMAC-SHA256 of message under secret.
func SignHex(message []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether candidate equals the expected digest of
// message under secret. The comparison is constant time.
func VerifySignature(message []byte, secret, candidate string) bool {
	expected := SignHex(message, secret)
	return hmac.Equal([]byte(expected), []byte(candidate))
}

// OrderMessage is the exact string the gateway signs for the synchronous
// checkout callback: orderID and paymentID joined by a single pipe.
func OrderMessage(orderID, paymentID string) []byte {
	return []byte(orderID + "|" + paymentID)
}
