package formatting_test

import (
	"errors"
	"testing"

	"github.com/intakeworks/storygate/pkg/formatting"
)

type sample struct {
	Score       int    `json:"score"`
	Explanation string `json:"explanation"`
}

func TestParse(t *testing.T) {
	t.Run("direct JSON", func(t *testing.T) {
		got, err := formatting.Parse[sample](`{"score":7,"explanation":"solid"}`)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if got.Score != 7 || got.Explanation != "solid" {
			t.Errorf("Parse = %+v, want {Score:7 Explanation:solid}", got)
		}
	})

	t.Run("direct JSON with whitespace", func(t *testing.T) {
		got, err := formatting.Parse[sample](`  {"score":3,"explanation":"padded"}  `)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if got.Score != 3 {
			t.Errorf("Score = %d, want 3", got.Score)
		}
	})

	t.Run("markdown fenced JSON", func(t *testing.T) {
		input := "```json\n{\"score\":9,\"explanation\":\"fenced\"}\n```"
		got, err := formatting.Parse[sample](input)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if got.Score != 9 || got.Explanation != "fenced" {
			t.Errorf("Parse = %+v, want {Score:9 Explanation:fenced}", got)
		}
	})

	t.Run("markdown fenced without language tag", func(t *testing.T) {
		input := "```\n{\"score\":2,\"explanation\":\"bare\"}\n```"
		got, err := formatting.Parse[sample](input)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if got.Score != 2 {
			t.Errorf("Score = %d, want 2", got.Score)
		}
	})

	t.Run("markdown fenced with surrounding text", func(t *testing.T) {
		input := "Here is my evaluation:\n```json\n{\"score\":5,\"explanation\":\"wrapped\"}\n```\nDone."
		got, err := formatting.Parse[sample](input)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if got.Explanation != "wrapped" {
			t.Errorf("Explanation = %q, want wrapped", got.Explanation)
		}
	})

	t.Run("free-form prose fails", func(t *testing.T) {
		_, err := formatting.Parse[sample]("I would rate this story an 8 out of 10.")
		if !errors.Is(err, formatting.ErrParseFailed) {
			t.Errorf("err = %v, want ErrParseFailed", err)
		}
	})

	t.Run("empty content fails", func(t *testing.T) {
		_, err := formatting.Parse[sample]("")
		if !errors.Is(err, formatting.ErrParseFailed) {
			t.Errorf("err = %v, want ErrParseFailed", err)
		}
	})
}
