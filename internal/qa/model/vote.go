package model

import "fmt"

// Direction is the direction of a vote.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection accepts "up" or "down".
func ParseDirection(raw string) (Direction, error) {
	switch Direction(raw) {
	case Up, Down:
		return Direction(raw), nil
	}
	return "", fmt.Errorf("unknown vote direction %q", raw)
}

// Delta is +1 for up and -1 for down.
func (d Direction) Delta() int {
	if d == Up {
		return 1
	}
	return -1
}
