package submission

import (
	"errors"
	"strings"
	"testing"
)

func TestClean(t *testing.T) {
	t.Run("collapses whitespace", func(t *testing.T) {
		got := Clean("hello   world\n\tagain")
		if got != "hello world again" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("trims edges", func(t *testing.T) {
		got := Clean("  padded text  ")
		if got != "padded text" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := Clean("   \n\t "); got != "" {
			t.Errorf("got %q, want empty", got)
		}
	})

	t.Run("drops additional context block", func(t *testing.T) {
		got := Clean("My story here. [Additional Context] sender=agent1qxyz ts=1730000000")
		if got != "My story here." {
			t.Errorf("got %q", got)
		}
	})

	t.Run("strips metadata tags and addresses", func(t *testing.T) {
		got := Clean("Best pizza of my life at 3am. <user_details><email>a@b.co</email></user_details>")
		if got != "Best pizza of my life at 3am. a@b.co" {
			t.Errorf("got %q", got)
		}
		if strings.Contains(got, "<") || strings.Contains(got, "user_details") {
			t.Errorf("markup survived cleaning: %q", got)
		}
	})
}

func TestExtractEmail(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"plain address", "email me at alice@example.com please", "alice@example.com"},
		{"subdomain", "send to bob@mail.corp.example.org", "bob@mail.corp.example.org"},
		{"plus tag", "use carol+rewards@example.com", "carol+rewards@example.com"},
		{"inside metadata tags", "<user_details><email>a@b.co</email></user_details>", "a@b.co"},
		{"no address", "just send me the email", ""},
		{"not an address", "meet @ the booth", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractEmail(tc.text); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	v := NewValidator(10, 1000)

	t.Run("accepts valid submission", func(t *testing.T) {
		if err := v.Validate("I ordered a margherita at midnight and it changed my life."); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("rejects empty", func(t *testing.T) {
		if err := v.Validate(""); !errors.Is(err, ErrEmpty) {
			t.Errorf("got %v, want ErrEmpty", err)
		}
	})

	t.Run("rejects too short", func(t *testing.T) {
		if err := v.Validate("short"); !errors.Is(err, ErrTooShort) {
			t.Errorf("got %v, want ErrTooShort", err)
		}
	})

	t.Run("rejects too long", func(t *testing.T) {
		long := strings.Repeat("a", 1001)
		if err := v.Validate(long); !errors.Is(err, ErrTooLong) {
			t.Errorf("got %v, want ErrTooLong", err)
		}
	})

	t.Run("rejects blocked terms", func(t *testing.T) {
		for _, text := range []string{
			"this is definitely SPAM content here",
			"just a test123 message padding",
			"asdf asdf asdf asdf",
		} {
			if err := v.Validate(text); !errors.Is(err, ErrBlocked) {
				t.Errorf("%q: got %v, want ErrBlocked", text, err)
			}
		}
	})

	t.Run("boundary lengths accepted", func(t *testing.T) {
		if err := v.Validate(strings.Repeat("b", 10)); err != nil {
			t.Errorf("min length rejected: %v", err)
		}
		if err := v.Validate(strings.Repeat("b", 1000)); err != nil {
			t.Errorf("max length rejected: %v", err)
		}
	})
}
