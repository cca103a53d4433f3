package tokencount

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountTokens(t *testing.T) {
	t.Parallel()
	counter := NewCounter()

	tests := []struct {
		name     string
		text     string
		model    string
		minCount int
		maxCount int
	}{
		{"short review", "Very responsive recruiter.", "gpt-4", 3, 8},
		{"empty", "", "gpt-4", 0, 0},
		{"prefixed model id", "Helpful and honest throughout.", "openai/gpt-3.5-turbo", 4, 10},
		{"unknown model falls back", "Helpful and honest throughout.", "some-local-model", 4, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := counter.CountTokens(tt.text, tt.model)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, n, tt.minCount)
			assert.LessOrEqual(t, n, tt.maxCount)
		})
	}
}

func TestCountChatTokens_IncludesFraming(t *testing.T) {
	t.Parallel()
	counter := NewCounter()

	sys, user := "Summarize recruiter reviews.", "- Great communication"
	body, err := counter.CountTokens(sys+user, "gpt-4")
	require.NoError(t, err)
	chat, err := counter.CountChatTokens(sys, user, "gpt-4")
	require.NoError(t, err)
	assert.Greater(t, chat, body+2*tokensPerMessage)
}

func TestCountChatTokens_GrowsWithPrompt(t *testing.T) {
	t.Parallel()
	counter := NewCounter()

	short, err := counter.CountChatTokens("sys", "one review", "gpt-4")
	require.NoError(t, err)
	long, err := counter.CountChatTokens("sys", "one review\ntwo reviews\nthree reviews", "gpt-4")
	require.NoError(t, err)
	assert.Greater(t, long, short)
}

func TestBaseModel(t *testing.T) {
	assert.Equal(t, "gpt-4o-mini", baseModel(" OpenAI/GPT-4o-mini "))
	assert.Equal(t, "gpt-4", baseModel("gpt-4"))
}

func TestCounter_Concurrent(t *testing.T) {
	counter := NewCounter()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := counter.CountTokens("concurrent access", "gpt-4")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Len(t, counter.encodings, 1)
}
