package sync_test

import (
	"errors"
	"testing"

	"github.com/Mohsinsiddi/minedash/internal/contract"
	minesync "github.com/Mohsinsiddi/minedash/internal/sync"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	hashA = common.HexToHash("0xaaaa")
	hashB = common.HexToHash("0xbbbb")
)

func TestControllerStartsIdle(t *testing.T) {
	c := minesync.NewController(nil)
	for _, k := range []minesync.Kind{minesync.KindActivate, minesync.KindClaim} {
		s := c.State(k)
		assert.Equal(t, minesync.PhaseIdle, s.Phase, k)
		assert.False(t, s.Pending())
		assert.Nil(t, s.Hash)
	}
}

func TestSubmitRefusedWhilePending(t *testing.T) {
	c := minesync.NewController(nil)
	require.NoError(t, c.Submit(minesync.KindClaim))
	assert.ErrorIs(t, c.Submit(minesync.KindClaim), minesync.ErrTxPending)

	c.Submitted(minesync.KindClaim, hashA)
	assert.ErrorIs(t, c.Submit(minesync.KindClaim), minesync.ErrTxPending)

	// The other kind is independent.
	assert.NoError(t, c.Submit(minesync.KindActivate))
}

func TestActivateConfirmationEffects(t *testing.T) {
	c := minesync.NewController(nil)
	require.NoError(t, c.Submit(minesync.KindActivate))
	c.Submitted(minesync.KindActivate, hashA)

	s := c.State(minesync.KindActivate)
	require.Equal(t, minesync.PhaseSubmitted, s.Phase)
	require.NotNil(t, s.Hash)
	assert.Equal(t, hashA, *s.Hash)

	effects := c.Confirmed(minesync.KindActivate, hashA)
	count := map[minesync.Effect]int{}
	for _, e := range effects {
		count[e]++
	}
	assert.Equal(t, 1, count[minesync.RefetchUserRecord])
	assert.Equal(t, 1, count[minesync.RefetchPendingReward])
	assert.Equal(t, 1, count[minesync.ResetActivate])
	assert.Len(t, effects, 3)

	s = c.State(minesync.KindActivate)
	assert.Equal(t, minesync.PhaseIdle, s.Phase)
	assert.Nil(t, s.Hash)

	assert.Empty(t, c.Confirmed(minesync.KindActivate, hashA), "second confirmation is a no-op")
}

func TestClaimConfirmationKeepsHash(t *testing.T) {
	c := minesync.NewController(nil)
	require.NoError(t, c.Submit(minesync.KindClaim))
	c.Submitted(minesync.KindClaim, hashB)

	effects := c.Confirmed(minesync.KindClaim, hashB)
	assert.Equal(t, []minesync.Effect{minesync.RefetchUserRecord, minesync.RefetchPendingReward}, effects)

	s := c.State(minesync.KindClaim)
	assert.Equal(t, minesync.PhaseConfirmed, s.Phase)
	assert.True(t, s.Confirmed)
	require.NotNil(t, s.Hash)
	assert.Equal(t, hashB, *s.Hash)
	assert.NoError(t, c.Submit(minesync.KindClaim), "confirmed claim can be resubmitted")
}

func TestConfirmationOfOtherHashIgnored(t *testing.T) {
	c := minesync.NewController(nil)
	require.NoError(t, c.Submit(minesync.KindActivate))
	c.Submitted(minesync.KindActivate, hashA)

	assert.Nil(t, c.Confirmed(minesync.KindActivate, hashB))
	assert.Equal(t, minesync.PhaseSubmitted, c.State(minesync.KindActivate).Phase)

	c.Reverted(minesync.KindActivate, hashB)
	assert.Equal(t, minesync.PhaseSubmitted, c.State(minesync.KindActivate).Phase)
}

func TestFailedUsesHumanizer(t *testing.T) {
	c := minesync.NewController(func(err error) string {
		return contract.Humanize(err, "推荐人未激活！")
	})
	require.NoError(t, c.Submit(minesync.KindActivate))
	c.Failed(minesync.KindActivate, errors.New("execution reverted: Referrer not activated"))

	s := c.State(minesync.KindActivate)
	assert.Equal(t, minesync.PhaseFailed, s.Phase)
	assert.Equal(t, "推荐人未激活！", s.Err)
	assert.False(t, s.Pending())

	require.NoError(t, c.Submit(minesync.KindClaim))
	c.Failed(minesync.KindClaim, errors.New("insufficient funds"))
	assert.Equal(t, "insufficient funds", c.State(minesync.KindClaim).Err)
}

func TestReverted(t *testing.T) {
	c := minesync.NewController(nil)
	require.NoError(t, c.Submit(minesync.KindClaim))
	c.Submitted(minesync.KindClaim, hashA)
	c.Reverted(minesync.KindClaim, hashA)

	s := c.State(minesync.KindClaim)
	assert.Equal(t, minesync.PhaseFailed, s.Phase)
	assert.Equal(t, "transaction reverted", s.Err)
}

func TestLateSubmittedIgnoredAfterReset(t *testing.T) {
	c := minesync.NewController(nil)
	c.Submitted(minesync.KindClaim, hashA)
	assert.Equal(t, minesync.PhaseIdle, c.State(minesync.KindClaim).Phase)

	c.Failed(minesync.KindClaim, errors.New("late"))
	assert.Equal(t, minesync.PhaseIdle, c.State(minesync.KindClaim).Phase)
}

func TestResetSkipsPending(t *testing.T) {
	c := minesync.NewController(nil)
	require.NoError(t, c.Submit(minesync.KindClaim))
	c.Reset(minesync.KindClaim)
	assert.True(t, c.State(minesync.KindClaim).Pending())

	c.Failed(minesync.KindClaim, errors.New("x"))
	c.Reset(minesync.KindClaim)
	assert.Equal(t, minesync.PhaseIdle, c.State(minesync.KindClaim).Phase)
}

func TestStateReturnsCopy(t *testing.T) {
	c := minesync.NewController(nil)
	require.NoError(t, c.Submit(minesync.KindClaim))
	c.Submitted(minesync.KindClaim, hashA)

	s := c.State(minesync.KindClaim)
	*s.Hash = hashB
	assert.Equal(t, hashA, *c.State(minesync.KindClaim).Hash)
}

func TestPhaseAndEffectStrings(t *testing.T) {
	assert.Equal(t, "submitted", minesync.PhaseSubmitted.String())
	assert.Equal(t, "idle", minesync.PhaseIdle.String())
	assert.Equal(t, "reset-activate", minesync.ResetActivate.String())
}
