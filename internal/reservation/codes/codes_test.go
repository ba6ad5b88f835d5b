package codes_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Harmonybod/Event-Ticketing-System/internal/reservation/codes"
)

var codeShape = regexp.MustCompile(`^RSV-[A-Z0-9]{8}$`)

func TestGenerateShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := codes.Generate()
		assert.True(t, codeShape.MatchString(code), "unexpected code %s", code)
	}
}

func TestAllocateUniqueNoCollisions(t *testing.T) {
	lookup := func(ctx context.Context, candidates []string) ([]string, error) {
		return nil, nil
	}

	allocated, err := codes.AllocateUnique(context.Background(), 5, lookup)
	assert.NoError(t, err)
	assert.Len(t, allocated, 5)

	seen := make(map[string]bool)
	for _, code := range allocated {
		assert.False(t, seen[code])
		seen[code] = true
	}
}

func TestAllocateUniqueRetriesColliders(t *testing.T) {
	calls := 0
	lookup := func(ctx context.Context, candidates []string) ([]string, error) {
		calls++
		if calls == 1 {
			// First round: report every candidate as taken.
			return candidates, nil
		}
		return nil, nil
	}

	allocated, err := codes.AllocateUnique(context.Background(), 3, lookup)
	assert.NoError(t, err)
	assert.Len(t, allocated, 3)
	assert.Equal(t, 2, calls)
}

func TestAllocateUniqueExhaustsRetryBudget(t *testing.T) {
	lookup := func(ctx context.Context, candidates []string) ([]string, error) {
		return candidates, nil
	}

	_, err := codes.AllocateUnique(context.Background(), 2, lookup)
	assert.ErrorIs(t, err, codes.ErrAllocationExhausted)
}

func TestAllocateUniqueKeepsAcceptedAcrossRounds(t *testing.T) {
	calls := 0
	lookup := func(ctx context.Context, candidates []string) ([]string, error) {
		calls++
		if calls == 1 && len(candidates) > 1 {
			// Reject only the last candidate of the first round.
			return candidates[len(candidates)-1:], nil
		}
		return nil, nil
	}

	allocated, err := codes.AllocateUnique(context.Background(), 4, lookup)
	assert.NoError(t, err)
	assert.Len(t, allocated, 4)
}
