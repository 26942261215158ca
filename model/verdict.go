package model

import (
	"strings"

	"golang.org/x/xerrors"
)

// Mode selects the prompt and the status vocabulary used to classify frames.
type Mode string

const (
	ModeWeapons Mode = "weapons"
	ModeAnomaly Mode = "anomaly"
)

type Status string

const (
	StatusSafe     Status = "safe"
	StatusDanger   Status = "danger"
	StatusNormal   Status = "normal"
	StatusAnomaly  Status = "anomaly"
	StatusCritical Status = "critical"
	StatusError    Status = "error"
)

var vocabularies = map[Mode][]Status{
	ModeWeapons: {StatusSafe, StatusDanger, StatusError},
	ModeAnomaly: {StatusNormal, StatusAnomaly, StatusCritical, StatusError},
}

// ParseMode accepts a mode name case-insensitively. An empty string is an error;
// callers pick their own default.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := vocabularies[m]; !ok {
		return "", xerrors.Errorf("unknown detection mode %q", s)
	}
	return m, nil
}

func (m Mode) Valid() bool {
	_, ok := vocabularies[m]
	return ok
}

// DefaultStatus is the neutral status a frame degrades to.
func (m Mode) DefaultStatus() Status {
	if m == ModeAnomaly {
		return StatusNormal
	}
	return StatusSafe
}

// Allows reports whether s belongs to the mode's vocabulary.
func (m Mode) Allows(s Status) bool {
	for _, v := range vocabularies[m] {
		if v == s {
			return true
		}
	}
	return false
}

// Flags reports whether s marks a frame that warrants person crops.
func (m Mode) Flags(s Status) bool {
	switch m {
	case ModeAnomaly:
		return s == StatusCritical
	default:
		return s == StatusDanger
	}
}

type Verdict struct {
	Status  Status   `json:"status"`
	Summary string   `json:"summary,omitempty"`
	Weapons []string `json:"weapons"`
}

func DefaultVerdict(m Mode) Verdict {
	return Verdict{
		Status:  m.DefaultStatus(),
		Weapons: []string{},
	}
}

// Flagged is true when the verdict signals danger and names at least one item.
func (v Verdict) Flagged(m Mode) bool {
	return m.Flags(v.Status) && len(v.Weapons) > 0
}
