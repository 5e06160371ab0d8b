package ajax

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// signingPayload is the subset of Batch fields that are signed.
// A dedicated struct ensures deterministic JSON marshal order.
type signingPayload struct {
	ID        string          `json:"id"`
	Action    string          `json:"action"`
	Source    string          `json:"source"`
	Timestamp int64           `json:"timestamp"`
	Commands  json.RawMessage `json:"commands"`
}

// SignBatch computes an HMAC-SHA256 signature for the batch and sets
// b.Signature. If secret is empty, the batch is left unsigned.
func SignBatch(b *Batch, secret string) error {
	if secret == "" {
		return nil
	}
	canonical, err := json.Marshal(signingPayload{
		ID:        b.ID,
		Action:    b.Action,
		Source:    b.Source,
		Timestamp: b.Timestamp,
		Commands:  b.Commands,
	})
	if err != nil {
		return err
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(canonical)
	b.Signature = hex.EncodeToString(mac.Sum(nil))
	return nil
}

// VerifyBatch checks the HMAC-SHA256 signature on a batch.
// If secret is empty, verification is skipped (returns true).
// If the batch has no signature but a secret is configured, returns false.
func VerifyBatch(b *Batch, secret string) bool {
	if secret == "" {
		return true
	}
	if b.Signature == "" {
		return false
	}
	canonical, err := json.Marshal(signingPayload{
		ID:        b.ID,
		Action:    b.Action,
		Source:    b.Source,
		Timestamp: b.Timestamp,
		Commands:  b.Commands,
	})
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(canonical)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(b.Signature))
}
