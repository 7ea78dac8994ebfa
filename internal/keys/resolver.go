package keys

import (
	"context"
	"errors"

	"careerkit-backend/internal/shared/telemetry"
)

// ErrNoUsableKey is returned when no candidate validates. The caller must
// obtain a key and resubmit before the operation can proceed.
var ErrNoUsableKey = errors.New("no usable API key")

// Validator checks a candidate against the external API. Implementations
// issue exactly one minimal generation call; any error means invalid.
type Validator interface {
	ValidateKey(ctx context.Context, key string) error
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(ctx context.Context, key string) error

func (f ValidatorFunc) ValidateKey(ctx context.Context, key string) error {
	return f(ctx, key)
}

// Resolver selects the first usable credential from a prioritized candidate
// list. Each validation consumes one unit of provider quota, so probing
// stops at the first success and no candidate is probed twice.
type Resolver struct {
	Validator Validator
}

// Resolve walks candidates in order and returns the first usable one.
//
// A request-origin candidate is accepted as-is: the generation call it is
// about to authenticate is its real validation, and a trial probe would
// double the caller's quota spend. Every other origin gets exactly one
// trial call. Candidates with empty keys are skipped. If nothing remains,
// ErrNoUsableKey is returned.
func (r *Resolver) Resolve(ctx context.Context, candidates []Credential) (Credential, error) {
	for _, cand := range candidates {
		if cand.Key == "" {
			continue
		}
		if cand.Origin == OriginRequest {
			return cand, nil
		}
		if r.Validator == nil {
			return Credential{}, errors.New("keys: resolver has no validator")
		}
		if err := r.Validator.ValidateKey(ctx, cand.Key); err != nil {
			// A revoked key and a malformed one fail the same way here;
			// both just move resolution to the next candidate.
			telemetry.Warn("keys.candidate_rejected", map[string]any{
				"origin": string(cand.Origin),
				"err":    err.Error(),
			})
			continue
		}
		return cand, nil
	}
	return Credential{}, ErrNoUsableKey
}
