package types_test

import (
	"errors"
	"testing"

	errorsmod "cosmossdk.io/errors"
	"github.com/stretchr/testify/require"

	"github.com/DorisUkamaka/StacksGuard/x/guard/types"
)

func registeredCode(t *testing.T, err error) uint32 {
	t.Helper()
	var coded *errorsmod.Error
	require.True(t, errors.As(err, &coded))
	return coded.ABCICode()
}

func TestPolicyValidity(t *testing.T) {
	p := types.Policy{CoverageAmount: 10, StartHeight: 5, EndHeight: 20, IsActive: true}
	require.True(t, p.ValidAt(5))
	require.True(t, p.ValidAt(20))
	require.False(t, p.ValidAt(21))

	p.PaidOut = 4
	require.Equal(t, uint64(6), p.RemainingCoverage())
	p.PaidOut = 12
	require.Zero(t, p.RemainingCoverage())

	p.IsActive = false
	require.False(t, p.ValidAt(10))
}

func TestClaimOutcome(t *testing.T) {
	c := types.Claim{VotingEndsAtHeight: 100}
	require.True(t, c.VotingOpenAt(100))
	require.False(t, c.VotingOpenAt(101))

	require.Equal(t, types.ClaimStatusRejected, c.Outcome())
	c.VotesFor, c.VotesAgainst = 30, 30
	require.Equal(t, types.ClaimStatusRejected, c.Outcome())
	c.VotesFor = 31
	require.Equal(t, types.ClaimStatusApproved, c.Outcome())

	require.False(t, types.ClaimStatusPending.IsTerminal())
	require.True(t, types.ClaimStatusApproved.IsTerminal())
	require.True(t, types.ClaimStatusRejected.IsTerminal())
}

func TestVotingPower(t *testing.T) {
	s := types.UnderwriterStake{StakedAmount: 12_999_999, IsActive: true}
	require.Equal(t, uint64(12), s.VotingPower())
	s.IsActive = false
	require.Zero(t, s.VotingPower())
}

func TestJSONValueCodec(t *testing.T) {
	codec := types.JSONValue[types.Pool]("pool")
	pool := types.Pool{ID: 3, Name: "Pool", RiskFactor: 7, IsActive: true}

	raw, err := codec.Encode(pool)
	require.NoError(t, err)
	decoded, err := codec.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, pool, decoded)

	_, err = codec.Decode([]byte("{"))
	require.ErrorContains(t, err, "decode pool")
	require.Equal(t, "stacksguard/json/pool", codec.ValueType())
}
