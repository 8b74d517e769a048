package keeper_test

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	storemetrics "cosmossdk.io/store/metrics"
	"cosmossdk.io/store/rootmulti"
	storetypes "cosmossdk.io/store/types"
	tmproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/DorisUkamaka/StacksGuard/x/guard/keeper"
	"github.com/DorisUkamaka/StacksGuard/x/guard/types"
)

const (
	deployer = "stx1deployer"
	alice    = "stx1alice"
	bob      = "stx1bob"
	carol    = "stx1carol"
)

func setupKeeper(t *testing.T) (keeper.Keeper, sdk.Context) {
	t.Helper()

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	db := dbm.NewMemDB()
	cms := rootmulti.NewStore(db, log.NewNopLogger(), storemetrics.NoOpMetrics{})
	cms.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, nil)
	require.NoError(t, cms.LoadLatestVersion())

	header := tmproto.Header{
		ChainID: "stacksguard-test-1",
		Height:  1,
		Time:    time.Unix(1_770_000_000, 0).UTC(),
	}
	ctx := sdk.NewContext(cms, header, false, log.NewNopLogger())

	k := keeper.NewKeeper(runtime.NewKVStoreService(storeKey), deployer)
	require.NoError(t, k.InitGenesis(ctx, types.DefaultGenesis()))

	return k, ctx
}

func advance(ctx sdk.Context, blocks int64) sdk.Context {
	return ctx.WithBlockHeight(ctx.BlockHeight() + blocks)
}

func createPool(t *testing.T, k keeper.Keeper, ctx sdk.Context, riskFactor uint64) uint64 {
	t.Helper()
	id, err := k.CreatePool(ctx, alice, "Health Insurance", "Comprehensive health coverage pool", riskFactor)
	require.NoError(t, err)
	return id
}

func stake(t *testing.T, k keeper.Keeper, ctx sdk.Context, who string, poolID, amount uint64) {
	t.Helper()
	require.NoError(t, k.Stake(ctx, who, poolID, amount))
}

func stats(t *testing.T, k keeper.Keeper, ctx sdk.Context) types.ContractStats {
	t.Helper()
	s, err := k.GetContractStats(ctx)
	require.NoError(t, err)
	return s
}
