package codes

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	// Prefix marks reservation ticket codes apart from hashkeys.
	Prefix = "RSV-"

	codeLength  = 8
	maxAttempts = 6
)

// ErrAllocationExhausted means the retry budget for unique code generation
// ran out. With an 8-character alphanumeric space this points at a broken
// uniqueness oracle rather than bad luck.
var ErrAllocationExhausted = errors.New("could not generate unique codes")

// Lookup reports which of the candidate codes already exist in storage.
type Lookup func(ctx context.Context, candidates []string) (existing []string, err error)

// Generate produces one RSV-XXXXXXXX code from a cryptographically random
// byte source. Collisions are possible; uniqueness is enforced by
// AllocateUnique against persisted codes, never assumed here.
func Generate() string {
	var b strings.Builder
	for b.Len() < codeLength {
		raw := make([]byte, codeLength)
		if _, err := rand.Read(raw); err != nil {
			// crypto/rand never fails on supported platforms
			panic(fmt.Sprintf("codes: rand.Read: %v", err))
		}
		encoded := strings.ToUpper(base64.RawStdEncoding.EncodeToString(raw))
		for _, r := range encoded {
			if b.Len() == codeLength {
				break
			}
			if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
				b.WriteRune(r)
			}
		}
	}
	return Prefix + b.String()
}

// AllocateUnique returns count codes that the lookup oracle reports as
// unused. Colliding candidates are regenerated and re-checked; after
// maxAttempts rounds it gives up with ErrAllocationExhausted.
func AllocateUnique(ctx context.Context, count int, lookup Lookup) ([]string, error) {
	accepted := make([]string, 0, count)
	seen := make(map[string]bool, count)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		need := count - len(accepted)
		candidates := make([]string, 0, need)
		for len(candidates) < need {
			c := Generate()
			if seen[c] {
				continue
			}
			seen[c] = true
			candidates = append(candidates, c)
		}

		existing, err := lookup(ctx, candidates)
		if err != nil {
			return nil, err
		}

		taken := make(map[string]bool, len(existing))
		for _, c := range existing {
			taken[c] = true
		}
		for _, c := range candidates {
			if !taken[c] {
				accepted = append(accepted, c)
			}
		}
		if len(accepted) == count {
			return accepted, nil
		}
	}
	return nil, fmt.Errorf("%w after %d attempts", ErrAllocationExhausted, maxAttempts)
}
