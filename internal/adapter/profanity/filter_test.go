package profanity

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Contains(t *testing.T) {
	f := New()
	assert.True(t, f.Contains("what the fuck"))
	assert.False(t, f.Contains("Jane Doe at Acme Corp"))
	assert.False(t, f.Contains(""))
}

func TestFilter_CensorMasksWithEqualLength(t *testing.T) {
	f := New()
	in := "this recruiter is a fucking nightmare"
	out := f.Censor(in)
	assert.NotEqual(t, in, out)
	assert.Contains(t, out, "*")
	assert.NotContains(t, out, "fuck")
	assert.Equal(t, utf8.RuneCountInString(in), utf8.RuneCountInString(out))
}

func TestFilter_CensorIsIdempotent(t *testing.T) {
	f := New()
	for _, in := range []string{
		"great recruiter, very responsive",
		"shit communication but got the offer",
		"fuck this process, fuck it",
		"",
	} {
		once := f.Censor(in)
		assert.Equal(t, once, f.Censor(once), in)
	}
}

func TestFilter_CleanTextUnchanged(t *testing.T) {
	f := New()
	in := "Helpful and kind throughout the final stage."
	assert.Equal(t, in, f.Censor(in))
}

func TestFilter_NamesWithEmbeddedWords(t *testing.T) {
	f := New()
	for _, in := range []string{
		"Charles Dickens",
		"dickens was here",
		"Emily Dickinson at Hancock Partners",
		"Alfred Hitchcock",
		"Anne Sexton, Essex Recruiting",
		"Cumming & Babcock LLP",
	} {
		assert.False(t, f.Contains(in), in)
		assert.Equal(t, in, f.Censor(in), in)
	}
}

func TestFilter_NamesDoNotMaskProfanity(t *testing.T) {
	f := New()
	assert.True(t, f.Contains("Dickens is a dick"))
	assert.True(t, f.Contains("Shit Head"))
	out := f.Censor("dickens was a shit recruiter")
	assert.Contains(t, out, "dickens")
	assert.NotContains(t, out, "shit")
}
