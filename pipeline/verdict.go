package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/khaledhikmat/vs-analyzer/model"
	"github.com/samber/lo"
	"golang.org/x/xerrors"
)

var (
	ErrNoJSONObject  = xerrors.New("reply holds no balanced JSON object")
	ErrUnknownStatus = xerrors.New("reply status is outside the mode vocabulary")
)

type verdictReply struct {
	Status  string   `json:"status"`
	Summary string   `json:"summary"`
	Weapons []string `json:"weapons"`
}

// ParseVerdict strictly decodes an oracle reply. Any prose around the first
// top-level JSON object is ignored.
func ParseVerdict(reply string, mode model.Mode) (model.Verdict, error) {
	span, ok := extractJSONObject(reply)
	if !ok {
		return model.Verdict{}, ErrNoJSONObject
	}

	var r verdictReply
	if err := json.Unmarshal([]byte(span), &r); err != nil {
		return model.Verdict{}, fmt.Errorf("decode verdict: %w", err)
	}

	status := model.Status(strings.ToLower(strings.TrimSpace(r.Status)))
	if !mode.Allows(status) {
		return model.Verdict{}, fmt.Errorf("%w: %q", ErrUnknownStatus, r.Status)
	}

	return model.Verdict{
		Status:  status,
		Summary: strings.TrimSpace(r.Summary),
		Weapons: normalizeLabels(r.Weapons),
	}, nil
}

// VerdictOrDefault collapses a parse outcome into a verdict: any error yields
// the mode's neutral default.
func VerdictOrDefault(mode model.Mode, v model.Verdict, err error) model.Verdict {
	if err != nil {
		return model.DefaultVerdict(mode)
	}
	return v
}

func normalizeLabels(labels []string) []string {
	cleaned := lo.Map(labels, func(l string, _ int) string {
		return strings.ToLower(strings.TrimSpace(l))
	})
	cleaned = lo.Filter(cleaned, func(l string, _ int) bool {
		return l != ""
	})
	return append([]string{}, lo.Uniq(cleaned)...)
}

// extractJSONObject returns the first balanced {...} span of s. Braces inside
// JSON string literals do not count.
func extractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}
