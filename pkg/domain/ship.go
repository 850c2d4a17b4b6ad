package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the type tag carried by every ship variant.
type Kind string

const (
	KindDefault Kind = "DefaultShip"
	KindMotor   Kind = "MotorShip"
)

// Ship is the closed set of vessels a port can hold.
// Describe must round-trip through Decode for every variant.
type Ship interface {
	Kind() Kind
	Describe() string
	sealed()
}

// DefaultShip is a plain vessel.
type DefaultShip struct {
	MaxSpeed int  `json:"max_speed"`
	Weight   int  `json:"weight"`
	Deck     bool `json:"deck"`
}

func (DefaultShip) Kind() Kind { return KindDefault }

// Describe encodes the ship as "MaxSpeed,Weight,Deck".
func (s DefaultShip) Describe() string {
	return strings.Join([]string{
		strconv.Itoa(s.MaxSpeed),
		strconv.Itoa(s.Weight),
		strconv.FormatBool(s.Deck),
	}, FieldSeparator)
}

func (s DefaultShip) String() string { return s.Describe() }

func (DefaultShip) sealed() {}

// MotorShip extends DefaultShip with its superstructure.
type MotorShip struct {
	DefaultShip
	Pipes  bool `json:"pipes"`
	Anchor bool `json:"anchor"`
	Line   bool `json:"line"`
}

func (MotorShip) Kind() Kind { return KindMotor }

// Describe encodes the ship as "MaxSpeed,Weight,Deck,Pipes,Anchor,Line".
func (s MotorShip) Describe() string {
	return strings.Join([]string{
		s.DefaultShip.Describe(),
		strconv.FormatBool(s.Pipes),
		strconv.FormatBool(s.Anchor),
		strconv.FormatBool(s.Line),
	}, FieldSeparator)
}

func (s MotorShip) String() string { return s.Describe() }

// Decoder restores a ship from its Describe output.
type Decoder func(payload string) (Ship, error)

// Decoders maps each Kind to its decoder.
var Decoders = map[Kind]Decoder{
	KindDefault: decodeDefault,
	KindMotor:   decodeMotor,
}

// Kinds lists the known tags in a stable order.
func Kinds() []Kind {
	return []Kind{KindDefault, KindMotor}
}

// Decode looks up the decoder for kind and applies it to payload.
// Failures are always returned as *DecodeError.
func Decode(kind, payload string) (Ship, error) {
	dec, ok := Decoders[Kind(kind)]
	if !ok {
		return nil, &DecodeError{Kind: kind, Payload: payload, Err: fmt.Errorf("unknown kind")}
	}
	ship, err := dec(payload)
	if err != nil {
		return nil, &DecodeError{Kind: kind, Payload: payload, Err: err}
	}
	return ship, nil
}

func decodeDefault(payload string) (Ship, error) {
	fields, err := splitFields(payload, 3)
	if err != nil {
		return nil, err
	}
	base, err := parseBase(fields)
	if err != nil {
		return nil, err
	}
	return base, nil
}

func decodeMotor(payload string) (Ship, error) {
	fields, err := splitFields(payload, 6)
	if err != nil {
		return nil, err
	}
	base, err := parseBase(fields[:3])
	if err != nil {
		return nil, err
	}
	flags, err := parseBools(fields[3:])
	if err != nil {
		return nil, err
	}
	return MotorShip{
		DefaultShip: base,
		Pipes:       flags[0],
		Anchor:      flags[1],
		Line:        flags[2],
	}, nil
}

func splitFields(payload string, want int) ([]string, error) {
	fields := strings.Split(payload, FieldSeparator)
	if len(fields) != want {
		return nil, fmt.Errorf("expected %d fields, got %d", want, len(fields))
	}
	return fields, nil
}

func parseBase(fields []string) (DefaultShip, error) {
	speed, err := strconv.Atoi(fields[0])
	if err != nil {
		return DefaultShip{}, fmt.Errorf("max speed: %w", err)
	}
	weight, err := strconv.Atoi(fields[1])
	if err != nil {
		return DefaultShip{}, fmt.Errorf("weight: %w", err)
	}
	deck, err := strconv.ParseBool(fields[2])
	if err != nil {
		return DefaultShip{}, fmt.Errorf("deck: %w", err)
	}
	return DefaultShip{MaxSpeed: speed, Weight: weight, Deck: deck}, nil
}

func parseBools(fields []string) ([]bool, error) {
	out := make([]bool, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseBool(f)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}
