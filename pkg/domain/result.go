package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// Result is the verdict of one validation.
type Result struct {
	Machine  string `json:"machine"`
	Input    string `json:"input"`
	Final    string `json:"final_state"`
	Accepted bool   `json:"accepted"`

	// Steps is the number of symbols read; runs stop early once the sink is reached.
	Steps int `json:"steps"`

	// Cached is true when the verdict was served from a verdict cache.
	Cached bool `json:"cached"`
}

// Verdict renders the acceptance as the harness wording ("Yes" / "No").
func (r Result) Verdict() string {
	if r.Accepted {
		return "Yes"
	}
	return "No"
}

// CacheKey derives the verdict cache key for an input of a machine.
// fingerprint identifies the table and classifier that produce the verdict, so
// a redefined machine never reads verdicts of its previous table. The input is
// hashed so that keys stay bounded whatever the input size.
func CacheKey(machine, fingerprint, input string) string {
	sum := sha256.Sum256([]byte(input))
	return machine + ":" + fingerprint + ":" + hex.EncodeToString(sum[:])
}
