package api_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"trivia-backend/api"
)

func TestQuestionFrame(t *testing.T) {
	t.Parallel()

	q := api.Question{
		Level:  2,
		Prompt: "Who wrote 'Pride and Prejudice'?",
		Options: []api.Option{
			{Label: "A", Text: "Jane Austen"},
			{Label: "B", Text: "Emily Bronte"},
		},
	}

	frame := api.EncodeQuestion(q)
	require.Equal(t, "Question Level: 2\nWho wrote 'Pride and Prejudice'?\nA) Jane Austen\nB) Emily Bronte", frame)

	parsed, err := api.ParseQuestion(frame)
	require.NoError(t, err)
	if diff := cmp.Diff(q, parsed); diff != "" {
		t.Errorf("question mismatch (-want +got):\n%s", diff)
	}
}

func TestParseQuestion_Malformed(t *testing.T) {
	t.Parallel()

	for _, frame := range []string{
		"",
		"Question Level: 1",
		"Question Level: x\nprompt\nA) a",
		"no header\nprompt\nA) a",
		"Question Level: 1\nprompt\nbroken option",
	} {
		_, err := api.ParseQuestion(frame)
		require.Error(t, err, "frame %q", frame)
	}
}

func TestScoreboardFrame_CommaInName(t *testing.T) {
	t.Parallel()

	records := []api.Score{
		{Name: "smith, john", Score: 2},
		{Name: "alice", Score: 5},
	}

	parsed, ok := api.ParseScoreboard(api.EncodeScoreboard(records))
	require.True(t, ok)
	if diff := cmp.Diff(records, parsed); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestAudienceFrame(t *testing.T) {
	t.Parallel()

	poll := []api.OptionPercent{
		{Label: "A", Percent: 62},
		{Label: "C", Percent: 38},
	}

	frame := api.EncodeAudience(poll)
	require.Equal(t, "AUDIENCE\nA) 62%\nC) 38%", frame)

	parsed, ok := api.ParseAudience(frame)
	require.True(t, ok)
	if diff := cmp.Diff(poll, parsed); diff != "" {
		t.Errorf("poll mismatch (-want +got):\n%s", diff)
	}
}

func TestScoreFrame(t *testing.T) {
	t.Parallel()

	score, ok := api.ParseScore(api.EncodeScore(3))
	require.True(t, ok)
	require.Equal(t, 3, score)

	_, ok = api.ParseScore("SCORE: many")
	require.False(t, ok)

	_, ok = api.ParseScore("GAME_OVER")
	require.False(t, ok)
}
