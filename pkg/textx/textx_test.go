package textx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "hello\nworld\t!", SanitizeText(" he\x00llo\nwo\x7frld\t! "))
}

func TestCollapseSpace(t *testing.T) {
	assert.Equal(t, "Jane Doe", CollapseSpace("  Jane \t  Doe\n"))
	assert.Equal(t, "", CollapseSpace(" \n "))
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 3, WordCount(" fast  and\nfriendly "))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héll", Truncate("héllo", 4))
	assert.Equal(t, "hi", Truncate("hi", 4))
}

func TestSentences(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"One. Two! Three?", []string{"One.", "Two!", "Three?"}},
		{"Version 1.5 shipped. Then more", []string{"Version 1.5 shipped.", "Then more"}},
		{"Line one.\nLine two.", []string{"Line one.", "Line two."}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Sentences(tt.in), tt.in)
	}
}
