package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	sdkmath "cosmossdk.io/math"
	"github.com/go-chi/chi/v5"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/DorisUkamaka/StacksGuard/x/guard/types"
)

// DefaultQuoteCacheSize bounds the number of cached premiums.
const DefaultQuoteCacheSize = 4096

// Quote is a premium priced against a live pool and split at the current
// protocol fee rate.
type Quote struct {
	PoolID      uint64 `json:"pool_id"`
	Coverage    uint64 `json:"coverage"`
	Duration    uint64 `json:"duration"`
	RiskFactor  uint64 `json:"risk_factor"`
	Premium     uint64 `json:"premium"`
	ProtocolFee uint64 `json:"protocol_fee"`
	PoolShare   uint64 `json:"pool_share"`
}

// A pool's risk factor never changes after creation and pool IDs are never
// reused, so a premium stays valid for the life of the host. The fee split
// is not cached because the owner can change the rate.
type quoteKey struct {
	poolID   uint64
	coverage uint64
	duration uint64
}

func newQuoteCache(size int) *lru.Cache[quoteKey, uint64] {
	if size <= 0 {
		size = DefaultQuoteCacheSize
	}
	cache, err := lru.New[quoteKey, uint64](size)
	if err != nil {
		cache, _ = lru.New[quoteKey, uint64](DefaultQuoteCacheSize)
	}
	return cache
}

// Quote prices a policy in poolID at the current height without mutating
// state.
func (h *Host) Quote(poolID, coverage, duration uint64) (Quote, error) {
	if err := types.ValidatePolicyTerms(coverage, duration); err != nil {
		return Quote{}, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := h.newContext()
	pool, err := h.keeper.GetPool(ctx, poolID)
	if err != nil {
		return Quote{}, err
	}

	key := quoteKey{poolID: poolID, coverage: coverage, duration: duration}
	premium, ok := h.quotes.Get(key)
	if !ok {
		premium, err = h.keeper.CalculatePremium(ctx, coverage, duration, poolID)
		if err != nil {
			return Quote{}, err
		}
		h.quotes.Add(key, premium)
	}

	cfg, err := h.keeper.GetConfig(ctx)
	if err != nil {
		return Quote{}, err
	}
	fee, poolShare := types.SplitPremium(sdkmath.NewIntFromUint64(premium), cfg.ProtocolFeeRateBps)

	return Quote{
		PoolID:      poolID,
		Coverage:    coverage,
		Duration:    duration,
		RiskFactor:  pool.RiskFactor,
		Premium:     premium,
		ProtocolFee: fee.Uint64(),
		PoolShare:   poolShare.Uint64(),
	}, nil
}

// QuoteHandler serves GET /pools/{poolID}/quote?coverage=..&duration=..
func (h *Host) QuoteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		poolID, err := strconv.ParseUint(chi.URLParam(r, "poolID"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid pool id")
			return
		}
		coverage, err := strconv.ParseUint(r.URL.Query().Get("coverage"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid coverage")
			return
		}
		duration, err := strconv.ParseUint(r.URL.Query().Get("duration"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid duration")
			return
		}

		quote, err := h.Quote(poolID, coverage, duration)
		switch {
		case errors.Is(err, types.ErrPoolNotFound):
			writeError(w, http.StatusNotFound, err.Error())
			return
		case errors.Is(err, types.ErrInvalidAmount), errors.Is(err, types.ErrInvalidDuration):
			writeError(w, http.StatusBadRequest, err.Error())
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		_ = json.NewEncoder(w).Encode(quote)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
