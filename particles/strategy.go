package particles

import (
	"fmt"
	"strings"
)

// Strategy selects how a Field reacts to each audio frame.
type Strategy int

// Update strategies
const (
	// ThresholdSpawn respawns or jitters every third particle while the input is loud.
	ThresholdSpawn Strategy = iota
	// FadingAlpha runs the ThresholdSpawn pass and additionally fades particles in while
	// loud and out while quiet.
	FadingAlpha
	// DirectMapping writes each waveform sample straight into the y coordinate of the
	// particle with the same index.
	DirectMapping
)

var strategyNames = map[Strategy]string{
	ThresholdSpawn: "threshold",
	FadingAlpha:    "fade",
	DirectMapping:  "direct",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// UsesAlpha reports whether the strategy drives particle opacity. Particles of the other
// strategies should be drawn fully opaque.
func (s Strategy) UsesAlpha() bool {
	return s == FadingAlpha
}

// ParseStrategy parses the name of a strategy as printed by String.
func ParseStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range strategyNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown strategy %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if _, ok := strategyNames[s]; !ok {
		return nil, fmt.Errorf("unknown strategy %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(b []byte) error {
	v, err := ParseStrategy(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
