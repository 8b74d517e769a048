package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"github.com/google/uuid"

	"github.com/DorisUkamaka/StacksGuard/x/guard/types"
)

// Step actions understood by RunScenario.
const (
	ActionCreatePool        = "create_pool"
	ActionStake             = "stake"
	ActionUnstake           = "unstake"
	ActionPurchasePolicy    = "purchase_policy"
	ActionSubmitClaim       = "submit_claim"
	ActionVote              = "vote"
	ActionProcessClaim      = "process_claim"
	ActionPause             = "pause"
	ActionUnpause           = "unpause"
	ActionSetFeeRate        = "set_fee_rate"
	ActionTransferOwnership = "transfer_ownership"
	ActionAdvance           = "advance"
)

// Scenario is a scripted sequence of guard transactions.
type Scenario struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Steps       []Step `json:"steps"`

	// Expect, when set, is compared with the final protocol stats.
	Expect *types.ContractStats `json:"expect,omitempty"`
}

// Step is one transaction or block advance. Unused fields are ignored.
type Step struct {
	Action      string `json:"action"`
	Sender      string `json:"sender,omitempty"`
	PoolID      uint64 `json:"pool_id,omitempty"`
	PolicyID    uint64 `json:"policy_id,omitempty"`
	ClaimID     uint64 `json:"claim_id,omitempty"`
	Amount      uint64 `json:"amount,omitempty"`
	Duration    uint64 `json:"duration,omitempty"`
	RiskFactor  uint64 `json:"risk_factor,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Approve     bool   `json:"approve,omitempty"`
	NewOwner    string `json:"new_owner,omitempty"`
	Blocks      int64  `json:"blocks,omitempty"`

	// ExpectCode is the ABCI code the step must fail with. Zero means the
	// step must succeed.
	ExpectCode uint32 `json:"expect_code,omitempty"`

	// ExpectStatus, for process_claim, is the required resolution.
	ExpectStatus types.ClaimStatus `json:"expect_status,omitempty"`
}

// StepResult records what a step did.
type StepResult struct {
	Index    int         `json:"index"`
	Action   string      `json:"action"`
	Height   int64       `json:"height"`
	Code     uint32      `json:"code"`
	Log      string      `json:"log,omitempty"`
	Response interface{} `json:"response,omitempty"`
}

// ScenarioReport is the outcome of a scenario run.
type ScenarioReport struct {
	RunID      string              `json:"run_id"`
	ScenarioID string              `json:"scenario_id"`
	ChainID    string              `json:"chain_id"`
	Steps      []StepResult        `json:"steps"`
	Stats      types.ContractStats `json:"stats"`
	Height     int64               `json:"height"`
}

// LoadScenario decodes a scenario from JSON.
func LoadScenario(r io.Reader) (*Scenario, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", s.ID)
	}
	return &s, nil
}

// LoadScenarioFile reads a scenario from path.
func LoadScenarioFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadScenario(f)
}

// RunScenario delivers every step on h and checks the expectations. It stops
// at the first step that does not behave as scripted.
func RunScenario(h *Host, s *Scenario) (*ScenarioReport, error) {
	report := &ScenarioReport{
		RunID:      uuid.NewString(),
		ScenarioID: s.ID,
		ChainID:    h.ChainID(),
		Steps:      make([]StepResult, 0, len(s.Steps)),
	}
	h.logger.Info("running scenario", "run_id", report.RunID, "scenario", s.ID, "steps", len(s.Steps))

	for i, step := range s.Steps {
		result, err := runStep(h, i, step)
		if err != nil {
			return report, fmt.Errorf("scenario %s step %d (%s): %w", s.ID, i, step.Action, err)
		}
		report.Steps = append(report.Steps, result)
	}

	if err := h.AssertInvariants(); err != nil {
		return report, err
	}
	stats, err := h.Stats()
	if err != nil {
		return report, err
	}
	report.Stats = stats
	report.Height = h.Height()

	if s.Expect != nil && *s.Expect != stats {
		return report, fmt.Errorf("scenario %s: final stats %+v, expected %+v", s.ID, stats, *s.Expect)
	}
	return report, nil
}

func runStep(h *Host, index int, step Step) (StepResult, error) {
	result := StepResult{Index: index, Action: step.Action, Height: h.Height()}

	if step.Action == ActionAdvance {
		if err := h.AdvanceBlocks(step.Blocks); err != nil {
			return result, err
		}
		result.Height = h.Height()
		return result, nil
	}

	msg, err := step.Msg()
	if err != nil {
		return result, err
	}
	res, deliverErr := h.Deliver(msg)
	if deliverErr != nil {
		_, code, log := errorsmod.ABCIInfo(deliverErr, false)
		result.Code, result.Log = code, log
	} else {
		result.Response = res.Response
	}

	switch {
	case step.ExpectCode == 0 && deliverErr != nil:
		return result, fmt.Errorf("unexpected failure: %w", deliverErr)
	case step.ExpectCode != 0 && result.Code != step.ExpectCode:
		return result, fmt.Errorf("expected code %d, got %d (%s)", step.ExpectCode, result.Code, result.Log)
	}

	if step.ExpectStatus != "" {
		resp, ok := result.Response.(*types.MsgProcessClaimResponse)
		if !ok {
			return result, fmt.Errorf("expect_status set on %s", step.Action)
		}
		if resp.Status != step.ExpectStatus {
			return result, fmt.Errorf("claim resolved %s, expected %s", resp.Status, step.ExpectStatus)
		}
	}
	return result, nil
}

// Msg converts the step into the message it delivers.
func (s Step) Msg() (interface{}, error) {
	switch strings.ToLower(strings.TrimSpace(s.Action)) {
	case ActionCreatePool:
		return &types.MsgCreatePool{Sender: s.Sender, Name: s.Name, Description: s.Description, RiskFactor: s.RiskFactor}, nil
	case ActionStake:
		return &types.MsgStake{Sender: s.Sender, PoolID: s.PoolID, Amount: s.Amount}, nil
	case ActionUnstake:
		return &types.MsgUnstake{Sender: s.Sender, PoolID: s.PoolID, Amount: s.Amount}, nil
	case ActionPurchasePolicy:
		return &types.MsgPurchasePolicy{Sender: s.Sender, PoolID: s.PoolID, CoverageAmount: s.Amount, Duration: s.Duration}, nil
	case ActionSubmitClaim:
		return &types.MsgSubmitClaim{Sender: s.Sender, PolicyID: s.PolicyID, Amount: s.Amount, Description: s.Description}, nil
	case ActionVote:
		return &types.MsgVoteOnClaim{Sender: s.Sender, ClaimID: s.ClaimID, Approve: s.Approve}, nil
	case ActionProcessClaim:
		return &types.MsgProcessClaim{Sender: s.Sender, ClaimID: s.ClaimID}, nil
	case ActionPause:
		return &types.MsgPause{Sender: s.Sender}, nil
	case ActionUnpause:
		return &types.MsgUnpause{Sender: s.Sender}, nil
	case ActionSetFeeRate:
		return &types.MsgSetProtocolFeeRate{Sender: s.Sender, RateBps: s.Amount}, nil
	case ActionTransferOwnership:
		return &types.MsgTransferOwnership{Sender: s.Sender, NewOwner: s.NewOwner}, nil
	default:
		return nil, fmt.Errorf("unknown action %q", s.Action)
	}
}

// BuiltinScenarios returns the reference lifecycles shipped with guardd.
func BuiltinScenarios() []*Scenario {
	const (
		owner = DefaultOwner
		alice = "stx1alice"
		bob   = "stx1bob"
		carol = "stx1carol"
		dave  = "stx1dave"
	)
	return []*Scenario{
		{
			ID:          "auto-claim-approved",
			Name:        "Auto pool claim approved unanimously",
			Description: "Two underwriters back an auto pool and approve a 15 STX claim on a 25 STX policy.",
			Steps: []Step{
				{Action: ActionCreatePool, Sender: alice, Name: "Auto Insurance", Description: "Vehicle accident coverage", RiskFactor: 45},
				{Action: ActionStake, Sender: bob, PoolID: 1, Amount: 80_000_000},
				{Action: ActionStake, Sender: carol, PoolID: 1, Amount: 20_000_000},
				{Action: ActionPurchasePolicy, Sender: dave, PoolID: 1, Amount: 25_000_000, Duration: 3000},
				{Action: ActionSubmitClaim, Sender: dave, PolicyID: 1, Amount: 15_000_000, Description: "Car accident damage"},
				{Action: ActionVote, Sender: bob, ClaimID: 1, Approve: true},
				{Action: ActionVote, Sender: carol, ClaimID: 1, Approve: true},
				{Action: ActionProcessClaim, Sender: bob, ClaimID: 1, ExpectCode: 407},
				{Action: ActionAdvance, Blocks: 1009},
				{Action: ActionProcessClaim, Sender: bob, ClaimID: 1, ExpectStatus: types.ClaimStatusApproved},
				{Action: ActionProcessClaim, Sender: bob, ClaimID: 1, ExpectCode: 408},
			},
			Expect: &types.ContractStats{TotalPools: 1, TotalPolicies: 1, TotalClaims: 1, ProtocolFees: 2586},
		},
		{
			ID:          "weighted-majority",
			Name:        "Stake-weighted majority decides",
			Description: "A 50 STX underwriter outvotes a 30 STX underwriter.",
			Steps: []Step{
				{Action: ActionCreatePool, Sender: alice, Name: "Health Insurance", Description: "Comprehensive health coverage pool", RiskFactor: 40},
				{Action: ActionStake, Sender: bob, PoolID: 1, Amount: 50_000_000},
				{Action: ActionStake, Sender: carol, PoolID: 1, Amount: 30_000_000},
				{Action: ActionPurchasePolicy, Sender: dave, PoolID: 1, Amount: 20_000_000, Duration: 2000},
				{Action: ActionSubmitClaim, Sender: dave, PolicyID: 1, Amount: 10_000_000, Description: "Medical emergency"},
				{Action: ActionVote, Sender: bob, ClaimID: 1, Approve: true},
				{Action: ActionVote, Sender: carol, ClaimID: 1, Approve: false},
				{Action: ActionVote, Sender: bob, ClaimID: 1, Approve: false, ExpectCode: 408},
				{Action: ActionAdvance, Blocks: types.VotingPeriod + 1},
				{Action: ActionProcessClaim, Sender: carol, ClaimID: 1, ExpectStatus: types.ClaimStatusApproved},
			},
		},
		{
			ID:          "emergency-pause",
			Name:        "Owner pauses and resumes the protocol",
			Description: "Mutations fail while paused and succeed again once resumed.",
			Steps: []Step{
				{Action: ActionPause, Sender: alice, ExpectCode: 401},
				{Action: ActionPause, Sender: owner},
				{Action: ActionCreatePool, Sender: alice, Name: "Test Pool", Description: "Test description", RiskFactor: 50, ExpectCode: 401},
				{Action: ActionCreatePool, Sender: alice, Name: "Risky Pool", RiskFactor: 101, ExpectCode: 401},
				{Action: ActionUnpause, Sender: owner},
				{Action: ActionCreatePool, Sender: alice, Name: "Test Pool", Description: "Test description", RiskFactor: 50},
				{Action: ActionCreatePool, Sender: alice, Name: "Risky Pool", RiskFactor: 101, ExpectCode: 402},
			},
			Expect: &types.ContractStats{TotalPools: 1},
		},
	}
}

// BuiltinScenario looks up a shipped scenario by ID.
func BuiltinScenario(id string) (*Scenario, bool) {
	for _, s := range BuiltinScenarios() {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}
