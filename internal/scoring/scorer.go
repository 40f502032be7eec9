// Package scoring provides the deterministic fallback scorer and tier
// classification for story submissions.
package scoring

import "strings"

var (
	topicWords    = []string{"pizza", "cheese", "pepperoni", "crust", "slice", "topping", "sauce"}
	creativeWords = []string{"amazing", "incredible", "adventure", "story", "funny", "crazy", "epic"}
	emotionWords  = []string{"love", "hate", "happy", "sad", "excited", "disappointed", "surprised"}
)

// Score rates a submission 1-10 using length, topic relevance, creativity
// and emotion keywords, and sentence structure. It is the deterministic
// fallback when remote evaluation is unavailable.
func Score(text string) int {
	score := 3
	lowered := strings.ToLower(text)

	if len(text) > 100 {
		score++
	}
	if len(text) > 200 {
		score++
	}

	topic := countMatches(lowered, topicWords)
	if topic >= 2 {
		score++
	}
	if topic >= 4 {
		score++
	}

	creative := countMatches(lowered, creativeWords)
	if creative >= 1 {
		score++
	}
	if creative >= 3 {
		score++
	}

	if countMatches(lowered, emotionWords) >= 1 {
		score++
	}

	sentences := strings.Count(text, ".") + strings.Count(text, "!") + strings.Count(text, "?")
	if sentences >= 2 {
		score++
	}

	return clamp(score)
}

func countMatches(lowered string, words []string) int {
	count := 0
	for _, word := range words {
		if strings.Contains(lowered, word) {
			count++
		}
	}
	return count
}

func clamp(score int) int {
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}
