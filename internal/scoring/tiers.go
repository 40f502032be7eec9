package scoring

// Tier is a reward level derived from a submission score.
type Tier string

const (
	TierPremium  Tier = "PREMIUM"
	TierStandard Tier = "STANDARD"
	TierBasic    Tier = "BASIC"
)

// Classifier maps scores onto reward tiers using configured thresholds.
type Classifier struct {
	premiumThreshold  int
	standardThreshold int
}

// NewClassifier creates a Classifier. Scores at or above premiumThreshold
// earn PREMIUM, at or above standardThreshold earn STANDARD, everything
// else earns BASIC.
func NewClassifier(premiumThreshold, standardThreshold int) *Classifier {
	return &Classifier{
		premiumThreshold:  premiumThreshold,
		standardThreshold: standardThreshold,
	}
}

// Classify returns the tier for a score. Every score yields a tier; there
// is no rejection path here.
func (c *Classifier) Classify(score int) Tier {
	switch {
	case score >= c.premiumThreshold:
		return TierPremium
	case score >= c.standardThreshold:
		return TierStandard
	default:
		return TierBasic
	}
}

// Description returns the reward attached to a tier.
func Description(tier Tier) string {
	switch tier {
	case TierPremium:
		return "Large pizza with any toppings"
	case TierStandard:
		return "Medium pizza with one topping"
	default:
		return "Personal pizza"
	}
}
