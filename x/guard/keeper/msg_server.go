package keeper

import (
	"context"
	"errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/DorisUkamaka/StacksGuard/x/guard/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the MsgServer interface.
// Every handler runs on a cached store that is written back only on success.
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

type validatable interface {
	ValidateBasic() error
}

// atomically runs fn against a branch of the multistore and commits the
// branch, including its events, only when fn succeeds and the message passes
// ValidateBasic.
func (k msgServer) atomically(goCtx context.Context, op string, msg validatable, fn func(ctx sdk.Context) error) error {
	err := k.run(goCtx, msg, fn)
	k.metrics.observe(op, err)
	if err != nil {
		k.Logger(goCtx).Debug("guard message rejected", "operation", op, "error", err)
	}
	return err
}

// run lets the keeper report the first failing precondition (pause, owner,
// missing pool or policy) ahead of argument errors. Only a missing sender is
// rejected before the keeper runs; any other ValidateBasic failure discards
// the branch.
func (k msgServer) run(goCtx context.Context, msg validatable, fn func(ctx sdk.Context) error) error {
	basicErr := msg.ValidateBasic()
	if errors.Is(basicErr, types.ErrUnauthorized) {
		return basicErr
	}
	ctx := sdk.UnwrapSDKContext(goCtx)
	cacheCtx, write := ctx.CacheContext()
	if err := fn(cacheCtx); err != nil {
		return err
	}
	if basicErr != nil {
		return basicErr
	}
	write()
	return nil
}

func (k msgServer) Pause(goCtx context.Context, msg *types.MsgPause) (*types.MsgPauseResponse, error) {
	err := k.atomically(goCtx, "pause", msg, func(ctx sdk.Context) error {
		return k.Keeper.Pause(ctx, msg.Sender)
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgPauseResponse{}, nil
}

func (k msgServer) Unpause(goCtx context.Context, msg *types.MsgUnpause) (*types.MsgUnpauseResponse, error) {
	err := k.atomically(goCtx, "unpause", msg, func(ctx sdk.Context) error {
		return k.Keeper.Unpause(ctx, msg.Sender)
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgUnpauseResponse{}, nil
}

func (k msgServer) SetProtocolFeeRate(goCtx context.Context, msg *types.MsgSetProtocolFeeRate) (*types.MsgSetProtocolFeeRateResponse, error) {
	err := k.atomically(goCtx, "set_protocol_fee_rate", msg, func(ctx sdk.Context) error {
		return k.Keeper.SetProtocolFeeRate(ctx, msg.Sender, msg.RateBps)
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgSetProtocolFeeRateResponse{}, nil
}

func (k msgServer) TransferOwnership(goCtx context.Context, msg *types.MsgTransferOwnership) (*types.MsgTransferOwnershipResponse, error) {
	err := k.atomically(goCtx, "transfer_ownership", msg, func(ctx sdk.Context) error {
		return k.Keeper.TransferOwnership(ctx, msg.Sender, msg.NewOwner)
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgTransferOwnershipResponse{}, nil
}

func (k msgServer) CreatePool(goCtx context.Context, msg *types.MsgCreatePool) (*types.MsgCreatePoolResponse, error) {
	var poolID uint64
	err := k.atomically(goCtx, "create_pool", msg, func(ctx sdk.Context) error {
		var err error
		poolID, err = k.Keeper.CreatePool(ctx, msg.Sender, msg.Name, msg.Description, msg.RiskFactor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgCreatePoolResponse{PoolID: poolID}, nil
}

func (k msgServer) Stake(goCtx context.Context, msg *types.MsgStake) (*types.MsgStakeResponse, error) {
	err := k.atomically(goCtx, "stake", msg, func(ctx sdk.Context) error {
		return k.Keeper.Stake(ctx, msg.Sender, msg.PoolID, msg.Amount)
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgStakeResponse{}, nil
}

func (k msgServer) Unstake(goCtx context.Context, msg *types.MsgUnstake) (*types.MsgUnstakeResponse, error) {
	err := k.atomically(goCtx, "unstake", msg, func(ctx sdk.Context) error {
		return k.Keeper.Unstake(ctx, msg.Sender, msg.PoolID, msg.Amount)
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgUnstakeResponse{}, nil
}

func (k msgServer) PurchasePolicy(goCtx context.Context, msg *types.MsgPurchasePolicy) (*types.MsgPurchasePolicyResponse, error) {
	var resp types.MsgPurchasePolicyResponse
	err := k.atomically(goCtx, "purchase_policy", msg, func(ctx sdk.Context) error {
		var err error
		resp.PolicyID, resp.PremiumPaid, err = k.Keeper.PurchasePolicy(ctx, msg.Sender, msg.PoolID, msg.CoverageAmount, msg.Duration)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (k msgServer) SubmitClaim(goCtx context.Context, msg *types.MsgSubmitClaim) (*types.MsgSubmitClaimResponse, error) {
	var claimID uint64
	err := k.atomically(goCtx, "submit_claim", msg, func(ctx sdk.Context) error {
		var err error
		claimID, err = k.Keeper.SubmitClaim(ctx, msg.Sender, msg.PolicyID, msg.Amount, msg.Description)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgSubmitClaimResponse{ClaimID: claimID}, nil
}

func (k msgServer) VoteOnClaim(goCtx context.Context, msg *types.MsgVoteOnClaim) (*types.MsgVoteOnClaimResponse, error) {
	var power uint64
	err := k.atomically(goCtx, "vote_on_claim", msg, func(ctx sdk.Context) error {
		var err error
		power, err = k.Keeper.VoteOnClaim(ctx, msg.Sender, msg.ClaimID, msg.Approve)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgVoteOnClaimResponse{Power: power}, nil
}

func (k msgServer) ProcessClaim(goCtx context.Context, msg *types.MsgProcessClaim) (*types.MsgProcessClaimResponse, error) {
	var status types.ClaimStatus
	err := k.atomically(goCtx, "process_claim", msg, func(ctx sdk.Context) error {
		var err error
		status, err = k.Keeper.ProcessClaim(ctx, msg.ClaimID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgProcessClaimResponse{Status: status}, nil
}
