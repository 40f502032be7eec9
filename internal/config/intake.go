package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	EnvIntakeMaxSubmissions      = "STORYGATE_INTAKE_MAX_SUBMISSIONS_PER_USER"
	EnvIntakeMinSubmissionLength = "STORYGATE_INTAKE_MIN_SUBMISSION_LENGTH"
	EnvIntakeMaxSubmissionLength = "STORYGATE_INTAKE_MAX_SUBMISSION_LENGTH"
	EnvIntakePremiumThreshold    = "STORYGATE_INTAKE_PREMIUM_THRESHOLD"
	EnvIntakeStandardThreshold   = "STORYGATE_INTAKE_STANDARD_THRESHOLD"
	EnvIntakeIntentKeywords      = "STORYGATE_INTAKE_INTENT_KEYWORDS"
	EnvIntakeEmailKeywords       = "STORYGATE_INTAKE_EMAIL_KEYWORDS"
	EnvIntakeEventID             = "STORYGATE_INTAKE_EVENT_ID"
	EnvIntakeEventName           = "STORYGATE_INTAKE_EVENT_NAME"
)

// IntakeConfig bounds the submission pipeline and tier thresholds.
// IntentKeywords opens a conversation; EmailKeywords triggers the
// post-issuance email dispatch.
type IntakeConfig struct {
	MaxSubmissionsPerUser int      `toml:"max_submissions_per_user"`
	MinSubmissionLength   int      `toml:"min_submission_length"`
	MaxSubmissionLength   int      `toml:"max_submission_length"`
	PremiumThreshold      int      `toml:"premium_threshold"`
	StandardThreshold     int      `toml:"standard_threshold"`
	IntentKeywords        []string `toml:"intent_keywords"`
	EmailKeywords         []string `toml:"email_keywords"`
	EventID               string   `toml:"event_id"`
	EventName             string   `toml:"event_name"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *IntakeConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *IntakeConfig) Merge(overlay *IntakeConfig) {
	if overlay.MaxSubmissionsPerUser != 0 {
		c.MaxSubmissionsPerUser = overlay.MaxSubmissionsPerUser
	}
	if overlay.MinSubmissionLength != 0 {
		c.MinSubmissionLength = overlay.MinSubmissionLength
	}
	if overlay.MaxSubmissionLength != 0 {
		c.MaxSubmissionLength = overlay.MaxSubmissionLength
	}
	if overlay.PremiumThreshold != 0 {
		c.PremiumThreshold = overlay.PremiumThreshold
	}
	if overlay.StandardThreshold != 0 {
		c.StandardThreshold = overlay.StandardThreshold
	}
	if overlay.IntentKeywords != nil {
		c.IntentKeywords = overlay.IntentKeywords
	}
	if overlay.EmailKeywords != nil {
		c.EmailKeywords = overlay.EmailKeywords
	}
	if overlay.EventID != "" {
		c.EventID = overlay.EventID
	}
	if overlay.EventName != "" {
		c.EventName = overlay.EventName
	}
}

func (c *IntakeConfig) loadDefaults() {
	if c.MaxSubmissionsPerUser == 0 {
		c.MaxSubmissionsPerUser = 3
	}
	if c.MinSubmissionLength == 0 {
		c.MinSubmissionLength = 10
	}
	if c.MaxSubmissionLength == 0 {
		c.MaxSubmissionLength = 1000
	}
	if c.PremiumThreshold == 0 {
		c.PremiumThreshold = 8
	}
	if c.StandardThreshold == 0 {
		c.StandardThreshold = 6
	}
	if c.IntentKeywords == nil {
		c.IntentKeywords = []string{"pizza", "coupon", "reward", "hungry", "food", "eat"}
	}
	if c.EmailKeywords == nil {
		c.EmailKeywords = []string{"email", "mail"}
	}
	if c.EventID == "" {
		c.EventID = "CONF24"
	}
	if c.EventName == "" {
		c.EventName = "CONF24"
	}
}

func (c *IntakeConfig) loadEnv() {
	setInt := func(key string, target *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*target = n
			}
		}
	}
	setInt(EnvIntakeMaxSubmissions, &c.MaxSubmissionsPerUser)
	setInt(EnvIntakeMinSubmissionLength, &c.MinSubmissionLength)
	setInt(EnvIntakeMaxSubmissionLength, &c.MaxSubmissionLength)
	setInt(EnvIntakePremiumThreshold, &c.PremiumThreshold)
	setInt(EnvIntakeStandardThreshold, &c.StandardThreshold)

	if v := os.Getenv(EnvIntakeIntentKeywords); v != "" {
		c.IntentKeywords = strings.Split(v, ",")
	}
	if v := os.Getenv(EnvIntakeEmailKeywords); v != "" {
		c.EmailKeywords = strings.Split(v, ",")
	}
	if v := os.Getenv(EnvIntakeEventID); v != "" {
		c.EventID = v
	}
	if v := os.Getenv(EnvIntakeEventName); v != "" {
		c.EventName = v
	}
}

func (c *IntakeConfig) validate() error {
	if c.MaxSubmissionsPerUser < 1 {
		return fmt.Errorf("max_submissions_per_user must be positive: %d", c.MaxSubmissionsPerUser)
	}
	if c.MinSubmissionLength < 1 || c.MaxSubmissionLength < c.MinSubmissionLength {
		return fmt.Errorf("invalid submission length bounds: min %d, max %d", c.MinSubmissionLength, c.MaxSubmissionLength)
	}
	if c.PremiumThreshold < c.StandardThreshold {
		return fmt.Errorf("premium_threshold %d below standard_threshold %d", c.PremiumThreshold, c.StandardThreshold)
	}
	if c.StandardThreshold < 1 || c.PremiumThreshold > 10 {
		return fmt.Errorf("tier thresholds must fall within 1-10: standard %d, premium %d", c.StandardThreshold, c.PremiumThreshold)
	}
	return nil
}
