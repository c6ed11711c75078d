package game_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"trivia-backend/api"
	"trivia-backend/internal/game"
)

func TestParseLifeline(t *testing.T) {
	t.Parallel()

	for _, token := range []string{
		api.LifelineFiftyFifty, api.LifelineAskAudience, api.LifelinePhoneFriend,
	} {
		lifeline, ok := game.ParseLifeline(token)
		require.True(t, ok)
		require.Equal(t, token, lifeline.String())
	}

	_, ok := game.ParseLifeline("B")
	require.False(t, ok)
}

func TestUseLifeline_NotInGame(t *testing.T) {
	t.Parallel()

	sess := game.NewSession(testRepo(t, 2), 2)
	_, err := sess.UseLifeline(game.LifelineFiftyFifty)
	require.ErrorIs(t, err, game.ErrNotInGame)
}

func TestUseLifeline_FiftyFifty(t *testing.T) {
	t.Parallel()

	sess := game.NewSession(testRepo(t, 2), 2)
	_, err := sess.Start()
	require.NoError(t, err)

	assist, err := sess.UseLifeline(game.LifelineFiftyFifty)
	require.NoError(t, err)
	require.Len(t, assist.Question.Options, 2)
	require.Contains(t, optionLabels(assist.Question), "B")

	// The narrowed view persists on re-presentation.
	current, err := sess.Current()
	require.NoError(t, err)
	require.Equal(t, assist.Question, current)

	// The correct answer still wins the turn.
	result, err := sess.Submit("B")
	require.NoError(t, err)
	require.True(t, result.Correct)

	// The next question is presented in full again.
	require.NotNil(t, result.Next)
	require.Len(t, result.Next.Options, 4)
}

func TestUseLifeline_OncePerGame(t *testing.T) {
	t.Parallel()

	sess := game.NewSession(testRepo(t, 2), 2)
	first, err := sess.Start()
	require.NoError(t, err)

	_, err = sess.UseLifeline(game.LifelineAskAudience)
	require.NoError(t, err)

	_, err = sess.UseLifeline(game.LifelineAskAudience)
	require.ErrorIs(t, err, game.ErrLifelineUsed)

	// A rejected lifeline does not consume the turn.
	current, err := sess.Current()
	require.NoError(t, err)
	require.Equal(t, first, current)
}

func TestUseLifeline_ResetOnNewGame(t *testing.T) {
	t.Parallel()

	sess := game.NewSession(testRepo(t, 2), 2)
	_, err := sess.Start()
	require.NoError(t, err)

	_, err = sess.UseLifeline(game.LifelinePhoneFriend)
	require.NoError(t, err)

	_, err = sess.Submit("A")
	require.NoError(t, err)
	_, err = sess.Finish()
	require.NoError(t, err)

	_, err = sess.Start()
	require.NoError(t, err)
	_, err = sess.UseLifeline(game.LifelinePhoneFriend)
	require.NoError(t, err)
}

func TestUseLifeline_AskAudience(t *testing.T) {
	t.Parallel()

	sess := game.NewSession(testRepo(t, 2), 2)
	_, err := sess.Start()
	require.NoError(t, err)

	assist, err := sess.UseLifeline(game.LifelineAskAudience)
	require.NoError(t, err)
	require.Len(t, assist.Audience, 4)

	total := 0
	for _, p := range assist.Audience {
		require.GreaterOrEqual(t, p.Percent, 0)
		total += p.Percent
	}
	require.Equal(t, 100, total)
}

func TestUseLifeline_AudienceAfterFiftyFifty(t *testing.T) {
	t.Parallel()

	sess := game.NewSession(testRepo(t, 2), 2)
	_, err := sess.Start()
	require.NoError(t, err)

	narrowed, err := sess.UseLifeline(game.LifelineFiftyFifty)
	require.NoError(t, err)

	assist, err := sess.UseLifeline(game.LifelineAskAudience)
	require.NoError(t, err)

	// The poll covers only the options still on the table.
	require.Len(t, assist.Audience, len(narrowed.Question.Options))
	total := 0
	for _, p := range assist.Audience {
		require.Contains(t, optionLabels(narrowed.Question), p.Label)
		total += p.Percent
	}
	require.Equal(t, 100, total)
}

func TestUseLifeline_PhoneFriend(t *testing.T) {
	t.Parallel()

	sess := game.NewSession(testRepo(t, 2), 2)
	_, err := sess.Start()
	require.NoError(t, err)

	assist, err := sess.UseLifeline(game.LifelinePhoneFriend)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(assist.Friend, "Your friend says:"))
	require.Len(t, assist.Question.Options, 4)
}

func TestUseLifeline_AllThreeInOneGame(t *testing.T) {
	t.Parallel()

	sess := game.NewSession(testRepo(t, 2), 2)
	_, err := sess.Start()
	require.NoError(t, err)

	for _, lifeline := range []game.Lifeline{
		game.LifelinePhoneFriend, game.LifelineAskAudience, game.LifelineFiftyFifty,
	} {
		_, err := sess.UseLifeline(lifeline)
		require.NoError(t, err)
	}
}
