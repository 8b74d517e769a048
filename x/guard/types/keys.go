package types

const (
	// ModuleName is the pooled insurance module namespace.
	ModuleName = "guard"

	// StoreKey is the module KV store key.
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key.
	RouterKey = ModuleName
)

var (
	// PoolKeyPrefix stores insurance pools by ID.
	PoolKeyPrefix = []byte{0x01}

	// StakeKeyPrefix stores underwriter stakes keyed by (underwriter, pool).
	StakeKeyPrefix = []byte{0x02}

	// PolicyKeyPrefix stores coverage policies by ID.
	PolicyKeyPrefix = []byte{0x03}

	// PoolPolicyKeyPrefix indexes policies under their pool.
	PoolPolicyKeyPrefix = []byte{0x04}

	// ClaimKeyPrefix stores claims by ID.
	ClaimKeyPrefix = []byte{0x05}

	// ClaimVoteKeyPrefix stores ballots keyed by (claim, voter).
	ClaimVoteKeyPrefix = []byte{0x06}

	// PoolCountKey stores the last allocated pool ID.
	PoolCountKey = []byte{0x07}

	// PolicyCountKey stores the last allocated policy ID.
	PolicyCountKey = []byte{0x08}

	// ClaimCountKey stores the last allocated claim ID.
	ClaimCountKey = []byte{0x09}

	// ProtocolFeesKey stores accumulated protocol fees.
	ProtocolFeesKey = []byte{0x0A}

	// ConfigKey stores the owner, pause flag and fee rate.
	ConfigKey = []byte{0x0B}
)
