// Package rounds defines the voting phase state machine for a selection
// room. Phases move forward one step at a time; after the result phase the
// cycle wraps back to preview so an archived room's final phase layout can be
// reused for the next event.
package rounds

import "fmt"

// Round is a voting phase
type Round string

const (
	Preview       Round = "preview"
	First         Round = "first"
	FirstClosed   Round = "firstVotingClosed"
	SecondPreview Round = "secondPreview"
	Second        Round = "second"
	SecondClosed  Round = "secondVotingClosed"
	Result        Round = "result"
)

// order fixes the forward sequence of phases
var order = []Round{Preview, First, FirstClosed, SecondPreview, Second, SecondClosed, Result}

// All returns the phases in forward order
func All() []Round {
	out := make([]Round, len(order))
	copy(out, order)
	return out
}

// Parse validates a stored round string
func Parse(s string) (Round, error) {
	for _, r := range order {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown round %q", s)
}

// Next returns the phase one step forward, wrapping from result back to
// preview. Total over the seven phases; unknown input restarts at preview.
func Next(r Round) Round {
	for i, cur := range order {
		if cur == r {
			return order[(i+1)%len(order)]
		}
	}
	return Preview
}

// AllowsBallots reports whether ballot casting is legal in the given phase.
// First-round ballots are open to any candidate; second-round ballots are
// additionally gated by top-N eligibility in the voting service. The closed
// and preview phases reject ballots outright.
func AllowsBallots(r Round) bool {
	return r == First || r == Second
}

// IsSecond reports whether ballots in this phase must target candidates on
// the gender-specific second-round advancement list.
func IsSecond(r Round) bool {
	return r == Second
}
