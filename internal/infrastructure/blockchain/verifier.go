package blockchain

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/crypto/sha3"
)

var ErrProofRejected = errors.New("proof rejected by verifier")

// ProofVerifier calls the external ZK verifier service. Proof generation and
// the proof system itself are opaque here; the verifier yields a verdict and
// the raw nullifier, from which the registry's nullifier hash is derived.
type ProofVerifier struct {
	url        string
	httpClient *http.Client
}

// NewProofVerifier creates a proof verifier client with a bounded timeout
func NewProofVerifier(url string, timeout time.Duration) *ProofVerifier {
	return &ProofVerifier{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type verifyRequest struct {
	Proof string `json:"proof"`
}

type verifyResponse struct {
	Valid     bool   `json:"valid"`
	Nullifier string `json:"nullifier"`
	Reason    string `json:"reason,omitempty"`
}

// Verify submits a proof and returns the derived nullifier hash
func (v *ProofVerifier) Verify(ctx context.Context, proof string) (string, error) {
	body, err := json.Marshal(verifyRequest{Proof: proof})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("verifier returned status %d", resp.StatusCode)
	}

	var result verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if !result.Valid {
		return "", ErrProofRejected
	}

	return NullifierHash(result.Nullifier), nil
}

// NullifierHash derives the registry's nullifier hash from the verifier's raw
// nullifier output.
func NullifierHash(nullifier string) string {
	sum := sha3.Sum256([]byte(nullifier))
	return "0x" + hex.EncodeToString(sum[:])
}
