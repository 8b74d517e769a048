package keeper

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/DorisUkamaka/StacksGuard/x/guard/types"
)

// GetConfig returns the access-guard record, falling back to the keeper
// authority with default parameters before genesis has written one.
func (k Keeper) GetConfig(ctx context.Context) (types.Config, error) {
	cfg, err := k.Config.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return types.DefaultConfig(k.authority), nil
	}
	if err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// Pause halts every mutating operation. Owner only.
func (k Keeper) Pause(ctx context.Context, caller string) error {
	return k.setPaused(ctx, caller, true)
}

// Unpause re-enables mutating operations. Owner only.
func (k Keeper) Unpause(ctx context.Context, caller string) error {
	return k.setPaused(ctx, caller, false)
}

func (k Keeper) setPaused(ctx context.Context, caller string, paused bool) error {
	cfg, err := k.requireOwner(ctx, caller)
	if err != nil {
		return err
	}
	cfg.Paused = paused
	if err := k.Config.Set(ctx, cfg); err != nil {
		return err
	}

	eventType := types.EventTypeUnpaused
	if paused {
		eventType = types.EventTypePaused
	}
	emitEvent(ctx, eventType, sdk.NewAttribute(types.AttributeKeyCaller, cfg.Owner))
	k.Logger(ctx).Info("guard pause state changed", "paused", paused, "owner", cfg.Owner)
	return nil
}

// SetProtocolFeeRate updates the premium share retained by the protocol.
func (k Keeper) SetProtocolFeeRate(ctx context.Context, caller string, rateBps uint64) error {
	cfg, err := k.requireOwner(ctx, caller)
	if err != nil {
		return err
	}
	if rateBps > types.MaxProtocolFeeRateBps {
		return errorsmod.Wrapf(types.ErrInvalidAmount, "fee rate %d bps exceeds cap %d", rateBps, types.MaxProtocolFeeRateBps)
	}
	cfg.ProtocolFeeRateBps = rateBps
	if err := k.Config.Set(ctx, cfg); err != nil {
		return err
	}

	emitEvent(ctx, types.EventTypeFeeRateUpdated, sdk.NewAttribute(types.AttributeKeyRateBps, u64(rateBps)))
	return nil
}

// TransferOwnership hands the guard to newOwner. It works while paused so an
// owner can rotate keys during an incident.
func (k Keeper) TransferOwnership(ctx context.Context, caller, newOwner string) error {
	cfg, err := k.requireOwner(ctx, caller)
	if err != nil {
		return err
	}
	newOwner = normalizeAddress(newOwner)
	if newOwner == "" {
		return errorsmod.Wrap(types.ErrInvalidAmount, "new owner cannot be empty")
	}
	previous := cfg.Owner
	cfg.Owner = newOwner
	if err := k.Config.Set(ctx, cfg); err != nil {
		return err
	}

	emitEvent(ctx, types.EventTypeOwnerChanged,
		sdk.NewAttribute(types.AttributeKeyCaller, previous),
		sdk.NewAttribute(types.AttributeKeyOwner, newOwner),
	)
	k.Logger(ctx).Info("guard ownership transferred", "from", previous, "to", newOwner)
	return nil
}

func (k Keeper) requireOwner(ctx context.Context, caller string) (types.Config, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return types.Config{}, err
	}
	if normalizeAddress(caller) != cfg.Owner {
		return types.Config{}, errorsmod.Wrapf(types.ErrUnauthorized, "%s is not the contract owner", caller)
	}
	return cfg, nil
}

// requireNotPaused gates every mutating operation outside the guard itself.
func (k Keeper) requireNotPaused(ctx context.Context) (types.Config, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return types.Config{}, err
	}
	if cfg.Paused {
		return types.Config{}, types.ErrContractPaused
	}
	return cfg, nil
}
