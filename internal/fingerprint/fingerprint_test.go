package fingerprint

import "testing"

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name  string
		front string
		back  string
		tags  []string
		want  string
	}{
		{
			name:  "lowercases and trims",
			front: "  Abandon  ",
			back:  "To Give Up",
			want:  "abandon\nto give up",
		},
		{
			name:  "windows line endings",
			front: "line one\r\nline two",
			back:  "a",
			want:  "line one\nline two\na",
		},
		{
			name:  "tags sorted",
			front: "q",
			back:  "a",
			tags:  []string{"Verb", "basic"},
			want:  "q\na\nbasic\nverb",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.front, tc.back, tc.tags); got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	base := Fingerprint("abandon", "to give up", []string{"verb", "basic"})

	t.Run("stable across tag order", func(t *testing.T) {
		if got := Fingerprint("abandon", "to give up", []string{"basic", "verb"}); got != base {
			t.Error("Expected tag order not to change the fingerprint")
		}
	})

	t.Run("stable across case and whitespace", func(t *testing.T) {
		if got := Fingerprint("  Abandon ", "To give up", []string{"Verb", "BASIC"}); got != base {
			t.Error("Expected case and whitespace not to change the fingerprint")
		}
	})

	t.Run("different content differs", func(t *testing.T) {
		if got := Fingerprint("ability", "skill", []string{"noun"}); got == base {
			t.Error("Expected different content to produce a different fingerprint")
		}
	})

	t.Run("field boundaries matter", func(t *testing.T) {
		if Fingerprint("ab", "c", nil) == Fingerprint("a", "bc", nil) {
			t.Error("Expected shifted field boundaries to produce different fingerprints")
		}
	})
}
