package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AirportSentiment/internal/domain"
)

func TestParseTopics(t *testing.T) {
	all, err := parseTopics("all")
	require.NoError(t, err)
	assert.Equal(t, domain.Topics(), all)

	picked, err := parseTopics("noise, delays")
	require.NoError(t, err)
	assert.Equal(t, []domain.Topic{domain.TopicNoise, domain.TopicDelay}, picked)

	_, err = parseTopics("weather")
	assert.Error(t, err)
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"score", "summarize", "correlate", "run", "hubs", "collect", "combine"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}
