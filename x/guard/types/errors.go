package types

import errorsmod "cosmossdk.io/errors"

// Error codes follow the numbering the protocol has always exposed to clients.
var (
	ErrUnauthorized          = errorsmod.Register(ModuleName, 401, "unauthorized")
	ErrInvalidAmount         = errorsmod.Register(ModuleName, 402, "invalid amount")
	ErrInvalidDuration       = errorsmod.Register(ModuleName, 403, "invalid duration")
	ErrInsufficientBalance   = errorsmod.Register(ModuleName, 404, "insufficient balance")
	ErrPolicyNotFound        = errorsmod.Register(ModuleName, 405, "policy not found")
	ErrPolicyExpired         = errorsmod.Register(ModuleName, 406, "policy expired")
	ErrClaimNotFound         = errorsmod.Register(ModuleName, 407, "claim not found")
	ErrClaimAlreadyProcessed = errorsmod.Register(ModuleName, 408, "claim already processed")
	ErrInsufficientCoverage  = errorsmod.Register(ModuleName, 409, "insufficient coverage")
	ErrPoolNotFound          = errorsmod.Register(ModuleName, 410, "pool not found")
)

// Precise failure kinds. Each wraps the legacy kind clients already match on,
// so errors.Is works against either and the ABCI code is unchanged.
var (
	ErrContractPaused  = errorsmod.Wrap(ErrUnauthorized, "contract is paused")
	ErrNoActiveStake   = errorsmod.Wrap(ErrUnauthorized, "no active stake in pool")
	ErrNotPolicyHolder = errorsmod.Wrap(ErrUnauthorized, "caller is not the policy holder")
	ErrVotingClosed    = errorsmod.Wrap(ErrPolicyExpired, "voting period has ended")
	ErrVotingNotEnded  = errorsmod.Wrap(ErrClaimNotFound, "voting period has not ended")
	ErrAlreadyVoted    = errorsmod.Wrap(ErrClaimAlreadyProcessed, "voter already voted on claim")
	ErrCapitalLocked   = errorsmod.Wrap(ErrInsufficientCoverage, "stake is backing live policies")
)
