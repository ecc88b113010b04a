package model

import (
	"strconv"
	"strings"
)

// SamplingMode selects how the next token is picked.
type SamplingMode string

const (
	SamplingGreedy SamplingMode = "greedy"
	SamplingRandom SamplingMode = "random"
)

// Sampling is a sampling policy. Top and ProbabilityThreshold are exclusive
// refinements of random sampling.
type Sampling struct {
	Mode                 SamplingMode `json:"mode"`
	Top                  *int         `json:"top,omitempty"`
	ProbabilityThreshold *float64     `json:"probabilityThreshold,omitempty"`
	Seed                 *uint64      `json:"seed,omitempty"`
}

// String renders the policy the way the options section displays it,
// e.g. "random(probabilityThreshold: 0.9, seed: 7)".
func (s Sampling) String() string {
	if s.Mode != SamplingRandom {
		if s.Mode == "" {
			return string(SamplingGreedy)
		}
		return string(s.Mode)
	}

	var args []string
	if s.Top != nil {
		args = append(args, "top: "+strconv.Itoa(*s.Top))
	}
	if s.ProbabilityThreshold != nil {
		args = append(args, "probabilityThreshold: "+strconv.FormatFloat(*s.ProbabilityThreshold, 'g', -1, 64))
	}
	if s.Seed != nil {
		args = append(args, "seed: "+strconv.FormatUint(*s.Seed, 10))
	}
	if len(args) == 0 {
		return string(SamplingRandom)
	}
	return string(SamplingRandom) + "(" + strings.Join(args, ", ") + ")"
}
