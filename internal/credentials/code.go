package credentials

import (
	"fmt"
	"strings"
	"time"

	"github.com/intakeworks/storygate/internal/scoring"
)

const codePrefix = "REWARD"

// CodeInfo is the vendor-side view of a parsed credential code.
type CodeInfo struct {
	EventID      string       `json:"eventId"`
	Tier         scoring.Tier `json:"tier"`
	IdentityHash string       `json:"identityHash"`
	TimeIssued   string       `json:"timeIssued"`
	Description  string       `json:"description"`
}

// GenerateCode builds a credential code of the form
// REWARD-<event>-<tier>-<hash6>-<HHMM>. Deterministic for a given
// identity, tier, and minute.
func GenerateCode(eventID string, tier scoring.Tier, identityHash string, now time.Time) string {
	hash := identityHash
	if len(hash) > 6 {
		hash = hash[:6]
	}
	return fmt.Sprintf("%s-%s-%s-%s-%s", codePrefix, eventID, tier, hash, now.Format("1504"))
}

// ValidateCode reports whether a code matches the expected format for the
// given event.
func ValidateCode(code, eventID string) bool {
	parts := strings.Split(code, "-")
	if len(parts) != 5 {
		return false
	}
	prefix, event, tier, hash, stamp := parts[0], parts[1], parts[2], parts[3], parts[4]
	return prefix == codePrefix &&
		event == eventID &&
		validTier(tier) &&
		len(hash) == 6 && isAlphanumeric(hash) &&
		len(stamp) == 4 && isDigits(stamp)
}

// ParseCode extracts vendor-facing details from a credential code.
func ParseCode(code, eventID string) (CodeInfo, error) {
	if !ValidateCode(code, eventID) {
		return CodeInfo{}, ErrInvalidCode
	}
	parts := strings.Split(code, "-")
	tier := scoring.Tier(parts[2])
	stamp := parts[4]
	return CodeInfo{
		EventID:      parts[1],
		Tier:         tier,
		IdentityHash: parts[3],
		TimeIssued:   stamp[:2] + ":" + stamp[2:],
		Description:  scoring.Description(tier),
	}, nil
}

func validTier(s string) bool {
	switch scoring.Tier(s) {
	case scoring.TierPremium, scoring.TierStandard, scoring.TierBasic:
		return true
	}
	return false
}

func isAlphanumeric(s string) bool {
	for _, c := range s {
		if !(c >= '0' && c <= '9' || c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z') {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
