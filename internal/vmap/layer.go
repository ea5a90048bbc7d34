package vmap

import "fmt"

// Randomness is the policy a vmap level applies to random operations.
type Randomness int

// Randomness modes.
const (
	// RandomnessError rejects every random operation.
	RandomnessError Randomness = iota
	// RandomnessSame shares one draw across the batch.
	RandomnessSame
	// RandomnessDifferent draws independently for every batch element.
	RandomnessDifferent
)

var randomnessNames = [...]string{
	RandomnessError:     "error",
	RandomnessSame:      "same",
	RandomnessDifferent: "different",
}

func (r Randomness) String() string {
	if r < 0 || int(r) >= len(randomnessNames) {
		return fmt.Sprintf("Randomness(%d)", int(r))
	}
	return randomnessNames[r]
}

// MarshalText implements encoding.TextMarshaler.
func (r Randomness) MarshalText() ([]byte, error) {
	if r < 0 || int(r) >= len(randomnessNames) {
		return nil, fmt.Errorf("unknown randomness %d", int(r))
	}
	return []byte(randomnessNames[r]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Randomness) UnmarshalText(text []byte) error {
	for i, name := range randomnessNames {
		if name == string(text) {
			*r = Randomness(i)
			return nil
		}
	}
	return fmt.Errorf("unknown randomness %q: expected error, same or different", text)
}

// Layer describes the active vmap level. Rules that need the level read it
// from here instead of from global state.
type Layer struct {
	Level      int
	BatchSize  int
	Randomness Randomness
}
