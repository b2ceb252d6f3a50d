package beamforming

import (
	"fmt"
	"strings"
)

// Technique selects one of the three beam-pattern algorithms.
type Technique int

const (
	Conventional Technique = iota
	Adaptive
	Hybrid
)

var Techniques = [...]string{
	"Conventional",
	"Adaptive",
	"Hybrid",
}

// AllTechniques lists every Technique in declaration order.
func AllTechniques() []Technique {
	return []Technique{Conventional, Adaptive, Hybrid}
}

func (t Technique) IsValid() bool {
	return t >= Conventional && int(t) < len(Techniques)
}

func (t Technique) String() string {
	if !t.IsValid() {
		return fmt.Sprintf("Technique(%d)", int(t))
	}
	return Techniques[t]
}

// ParseTechnique accepts the technique names, case
// insensitive. "MVDR" is an alias of Adaptive.
func ParseTechnique(s string) (Technique, error) {
	name := strings.TrimSpace(s)
	if strings.EqualFold(name, "mvdr") {
		return Adaptive, nil
	}
	for i, n := range Techniques {
		if strings.EqualFold(name, n) {
			return Technique(i), nil
		}
	}
	return Conventional, fmt.Errorf("unknown technique %q: %w", s, ErrInvalidParameter)
}

func (t Technique) MarshalText() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("technique=%d: %w", int(t), ErrInvalidParameter)
	}
	return []byte(t.String()), nil
}

func (t *Technique) UnmarshalText(text []byte) error {
	parsed, err := ParseTechnique(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
