package credentials

import (
	"errors"
	"testing"
	"time"

	"github.com/intakeworks/storygate/internal/scoring"
)

var issued = time.Date(2026, 8, 30, 14, 5, 0, 0, time.UTC)

func TestGenerateCode(t *testing.T) {
	code := GenerateCode("CONF24", scoring.TierPremium, "ABCDEF12", issued)

	if code != "REWARD-CONF24-PREMIUM-ABCDEF-1405" {
		t.Errorf("got %s", code)
	}
}

func TestGenerateCodeShortHash(t *testing.T) {
	code := GenerateCode("CONF24", scoring.TierBasic, "AB12", issued)

	if code != "REWARD-CONF24-BASIC-AB12-1405" {
		t.Errorf("got %s", code)
	}
}

func TestValidateCode(t *testing.T) {
	valid := GenerateCode("CONF24", scoring.TierStandard, "ABCDEF12", issued)

	cases := []struct {
		name string
		code string
		want bool
	}{
		{"generated code", valid, true},
		{"empty", "", false},
		{"wrong part count", "REWARD-CONF24-PREMIUM-ABCDEF", false},
		{"wrong prefix", "TICKET-CONF24-PREMIUM-ABCDEF-1405", false},
		{"wrong event", "REWARD-OTHER-PREMIUM-ABCDEF-1405", false},
		{"unknown tier", "REWARD-CONF24-ULTRA-ABCDEF-1405", false},
		{"bad hash length", "REWARD-CONF24-PREMIUM-ABC-1405", false},
		{"non-digit timestamp", "REWARD-CONF24-PREMIUM-ABCDEF-14X5", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidateCode(tc.code, "CONF24"); got != tc.want {
				t.Errorf("ValidateCode(%q) = %v, want %v", tc.code, got, tc.want)
			}
		})
	}
}

func TestParseCode(t *testing.T) {
	code := GenerateCode("CONF24", scoring.TierPremium, "ABCDEF12", issued)

	info, err := ParseCode(code, "CONF24")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Tier != scoring.TierPremium {
		t.Errorf("got tier %s", info.Tier)
	}
	if info.IdentityHash != "ABCDEF" {
		t.Errorf("got hash %s", info.IdentityHash)
	}
	if info.TimeIssued != "14:05" {
		t.Errorf("got time %s", info.TimeIssued)
	}
	if info.Description == "" {
		t.Error("empty description")
	}
}

func TestParseCodeInvalid(t *testing.T) {
	_, err := ParseCode("garbage", "CONF24")
	if !errors.Is(err, ErrInvalidCode) {
		t.Errorf("got %v, want ErrInvalidCode", err)
	}
}
