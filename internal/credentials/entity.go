// Package credentials defines the reward credential entity, its code
// format, and its postgres repository.
package credentials

import (
	"time"

	"github.com/google/uuid"

	"github.com/intakeworks/storygate/internal/scoring"
)

// Credential is one issued reward. At most one exists per identity hash.
type Credential struct {
	ID           uuid.UUID    `json:"id"`
	IdentityHash string       `json:"identityHash"`
	Code         string       `json:"code"`
	Tier         scoring.Tier `json:"tier"`
	Score        int          `json:"score"`
	ScoreSource  string       `json:"scoreSource"`
	Submission   string       `json:"submission"`
	IssuedAt     time.Time    `json:"issuedAt"`
}
