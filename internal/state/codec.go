package state

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedState is returned when a decoded record is missing a
// required field or carries an out-of-range value.
var ErrMalformedState = errors.New("state: malformed record")

// record is the wire form. Pointer fields distinguish an absent field
// from a zero value; additions stay forward-compatible because older
// readers ignore unknown keys.
type record struct {
	RemainingMS    *int64  `json:"remaining_ms"`
	LastMonoTicks  *int64  `json:"last_mono_ticks"`
	LastWallTicks  *int64  `json:"last_wall_ticks"`
	MonoFrequency  *int64  `json:"mono_frequency"`
	Tampered       *bool   `json:"tampered"`
	HeartbeatCount *uint64 `json:"heartbeat_count"`
}

// Encode serializes a State to its canonical byte form.
func Encode(s State) ([]byte, error) {
	r := record{
		RemainingMS:    &s.RemainingMS,
		LastMonoTicks:  &s.LastMonoTicks,
		LastWallTicks:  &s.LastWallTicks,
		MonoFrequency:  &s.MonoFrequency,
		Tampered:       &s.Tampered,
		HeartbeatCount: &s.HeartbeatCount,
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("state: encode: %w", err)
	}
	return data, nil
}

// Decode parses the canonical byte form back into a State. Every field is
// required; a negative remaining budget or non-positive frequency is
// rejected.
func Decode(data []byte) (State, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}

	for name, ok := range map[string]bool{
		"remaining_ms":    r.RemainingMS != nil,
		"last_mono_ticks": r.LastMonoTicks != nil,
		"last_wall_ticks": r.LastWallTicks != nil,
		"mono_frequency":  r.MonoFrequency != nil,
		"tampered":        r.Tampered != nil,
		"heartbeat_count": r.HeartbeatCount != nil,
	} {
		if !ok {
			return State{}, fmt.Errorf("%w: missing field %q", ErrMalformedState, name)
		}
	}

	if *r.RemainingMS < 0 {
		return State{}, fmt.Errorf("%w: negative remaining_ms %d", ErrMalformedState, *r.RemainingMS)
	}
	if *r.MonoFrequency <= 0 {
		return State{}, fmt.Errorf("%w: non-positive mono_frequency %d", ErrMalformedState, *r.MonoFrequency)
	}

	return State{
		RemainingMS:    *r.RemainingMS,
		LastMonoTicks:  *r.LastMonoTicks,
		LastWallTicks:  *r.LastWallTicks,
		MonoFrequency:  *r.MonoFrequency,
		Tampered:       *r.Tampered,
		HeartbeatCount: *r.HeartbeatCount,
	}, nil
}
