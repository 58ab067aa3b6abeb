package models

import (
	"errors"
	"strings"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

var ErrInvalidPriority = errors.New("invalid priority")

// ParsePriority accepts only the four known levels. An empty string maps
// to PriorityNormal; anything else, including "MEDIUM", is rejected.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.TrimSpace(s)); p {
	case "":
		return PriorityNormal, nil
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return p, nil
	default:
		return "", ErrInvalidPriority
	}
}

// Rank orders priorities from most to least pressing.
// Unknown values sort after LOW.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityNormal:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}
