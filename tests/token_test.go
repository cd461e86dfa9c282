package tests

import (
	"math/big"
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"

	"github.com/gatetoken/gatetoken-contract/common"
	"github.com/gatetoken/gatetoken-contract/token"
)

const (
	tokenPath   = "../token"
	reenterPath = "../internal/testcontracts/reenter"
)

// genesisSupply is the amount of base units credited to the owner at
// deployment: 99 billion whole tokens with 18 decimals.
func genesisSupply() *big.Int {
	base := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	return new(big.Int).Mul(big.NewInt(99_000_000_000), base)
}

func deployTokenContract(t *testing.T, e *neotest.Executor) util.Uint160 {
	ctr := neotest.CompileFile(t, e.CommitteeHash, tokenPath, path.Join(tokenPath, "config.yml"))
	e.DeployContract(t, ctr, []interface{}{e.CommitteeHash})
	return ctr.Hash
}

// newTokenInvoker deploys the token contract with the committee as its owner
// and returns a committee-signed invoker.
func newTokenInvoker(t *testing.T) *neotest.ContractInvoker {
	e := newExecutor(t)
	return e.CommitteeInvoker(deployTokenContract(t, e))
}

func TestTokenGeneric(t *testing.T) {
	c := newTokenInvoker(t)

	c.Invoke(t, "GATE", "symbol")
	c.Invoke(t, 18, "decimals")
	c.Invoke(t, genesisSupply(), "totalSupply")
	c.Invoke(t, genesisSupply(), "balanceOf", c.CommitteeHash)
	c.Invoke(t, stackitem.NewByteArray(c.CommitteeHash.BytesBE()), "owner")
	c.Invoke(t, common.Version, "version")
}

func TestGenesisState(t *testing.T) {
	c := newTokenInvoker(t)
	acc := c.NewAccount(t)

	c.Invoke(t, true, "transferLocked")
	c.Invoke(t, false, "paused")
	c.Invoke(t, true, "isWhitelisted", c.CommitteeHash)
	c.Invoke(t, false, "isWhitelisted", acc.ScriptHash())

	// The owner is pre-whitelisted, so distribution is possible while the
	// lock is active.
	c.Invoke(t, true, "canTransfer", c.CommitteeHash, acc.ScriptHash())
	c.Invoke(t, true, "canTransfer", acc.ScriptHash(), c.CommitteeHash)
}

func TestTransferLocked(t *testing.T) {
	c := newTokenInvoker(t)

	acc := c.NewAccount(t)
	acc2 := c.NewAccount(t)
	accH := acc.ScriptHash()
	acc2H := acc2.ScriptHash()

	c.Invoke(t, true, "transfer", c.CommitteeHash, accH, int64(100), nil)
	c.Invoke(t, big.NewInt(100), "balanceOf", accH)

	cAcc := c.WithSigners(acc)
	c.Invoke(t, false, "canTransfer", accH, acc2H)
	cAcc.InvokeFail(t, token.ErrTransfersLocked, "transfer", accH, acc2H, int64(50), nil)

	// The failed call left the ledger untouched.
	c.Invoke(t, big.NewInt(100), "balanceOf", accH)
	c.Invoke(t, big.NewInt(0), "balanceOf", acc2H)

	// A whitelisted recipient opens the path while the lock is active.
	c.Invoke(t, stackitem.Null{}, "whitelistAddress", acc2H, true)
	c.Invoke(t, true, "canTransfer", accH, acc2H)
	cAcc.Invoke(t, true, "transfer", accH, acc2H, int64(50), nil)
	c.Invoke(t, big.NewInt(50), "balanceOf", accH)
	c.Invoke(t, big.NewInt(50), "balanceOf", acc2H)
}

func TestUnlockTransfers(t *testing.T) {
	c := newTokenInvoker(t)

	acc := c.NewAccount(t)
	acc2 := c.NewAccount(t)
	cAcc := c.WithSigners(acc)

	cAcc.InvokeFail(t, common.ErrOwnerWitnessFailed, "unlockTransfers")
	c.Invoke(t, true, "transferLocked")

	h := c.Invoke(t, stackitem.Null{}, "unlockTransfers")
	aer := c.CheckHalt(t, h)
	require.Equal(t, 1, len(aer.Events))
	require.Equal(t, "TransfersUnlocked", aer.Events[0].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{}), aer.Events[0].Item)

	c.Invoke(t, false, "transferLocked")

	// The lock transition is one-way and one-shot.
	c.InvokeFail(t, token.ErrAlreadyUnlocked, "unlockTransfers")

	// Non-whitelisted parties can transfer now.
	c.Invoke(t, true, "transfer", c.CommitteeHash, acc.ScriptHash(), int64(100), nil)
	c.Invoke(t, true, "canTransfer", acc.ScriptHash(), acc2.ScriptHash())
	cAcc.Invoke(t, true, "transfer", acc.ScriptHash(), acc2.ScriptHash(), int64(40), nil)
	c.Invoke(t, big.NewInt(40), "balanceOf", acc2.ScriptHash())
}

func TestWhitelistAddress(t *testing.T) {
	c := newTokenInvoker(t)

	acc := c.NewAccount(t)
	accH := acc.ScriptHash()
	cAcc := c.WithSigners(acc)

	cAcc.InvokeFail(t, common.ErrOwnerWitnessFailed, "whitelistAddress", accH, true)
	c.InvokeFail(t, token.ErrInvalidAddress, "whitelistAddress", util.Uint160{}, true)

	h := c.Invoke(t, stackitem.Null{}, "whitelistAddress", accH, true)
	aer := c.CheckHalt(t, h)
	require.Equal(t, 1, len(aer.Events))
	require.Equal(t, "WhitelistUpdated", aer.Events[0].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(accH.BytesBE()),
		stackitem.NewBool(true),
	}), aer.Events[0].Item)

	c.Invoke(t, true, "isWhitelisted", accH)

	// Removal only flips the flag, absence and false are indistinguishable.
	c.Invoke(t, stackitem.Null{}, "whitelistAddress", accH, false)
	c.Invoke(t, false, "isWhitelisted", accH)
}

func TestBatchWhitelist(t *testing.T) {
	c := newTokenInvoker(t)

	acc := c.NewAccount(t)
	acc2 := c.NewAccount(t)
	accH := acc.ScriptHash()
	acc2H := acc2.ScriptHash()

	c.WithSigners(acc).InvokeFail(t, common.ErrOwnerWitnessFailed,
		"batchWhitelist", []interface{}{accH}, true)

	// The zero entry is skipped silently, the rest is applied in order.
	h := c.Invoke(t, stackitem.Null{}, "batchWhitelist",
		[]interface{}{accH, util.Uint160{}, acc2H}, true)
	aer := c.CheckHalt(t, h)
	require.Equal(t, 2, len(aer.Events))
	for _, ev := range aer.Events {
		require.Equal(t, "WhitelistUpdated", ev.Name)
	}
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(accH.BytesBE()),
		stackitem.NewBool(true),
	}), aer.Events[0].Item)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(acc2H.BytesBE()),
		stackitem.NewBool(true),
	}), aer.Events[1].Item)

	c.Invoke(t, true, "isWhitelisted", accH)
	c.Invoke(t, true, "isWhitelisted", acc2H)
}

func TestBurn(t *testing.T) {
	c := newTokenInvoker(t)

	acc := c.NewAccount(t)
	accH := acc.ScriptHash()
	cAcc := c.WithSigners(acc)

	c.Invoke(t, true, "transfer", c.CommitteeHash, accH, int64(100), nil)

	// Only the account itself may burn its funds.
	c.InvokeFail(t, common.ErrWitnessFailed, "burn", accH, int64(100))
	cAcc.InvokeFail(t, token.ErrInvalidAmount, "burn", accH, int64(0))

	h := cAcc.Invoke(t, stackitem.Null{}, "burn", accH, int64(100))
	aer := cAcc.CheckHalt(t, h)
	require.Equal(t, 2, len(aer.Events))
	require.Equal(t, "TokensBurned", aer.Events[0].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(accH.BytesBE()),
		stackitem.NewBigInteger(big.NewInt(100)),
	}), aer.Events[0].Item)
	require.Equal(t, "Transfer", aer.Events[1].Name)

	c.Invoke(t, big.NewInt(0), "balanceOf", accH)
	c.Invoke(t, new(big.Int).Sub(genesisSupply(), big.NewInt(100)), "totalSupply")

	cAcc.InvokeFail(t, token.ErrInsufficientBalance, "burn", accH, int64(1))

	// Burning stays available under pause and lock.
	c.Invoke(t, stackitem.Null{}, "pause")
	c.Invoke(t, stackitem.Null{}, "burn", c.CommitteeHash, int64(1))
	c.Invoke(t, new(big.Int).Sub(genesisSupply(), big.NewInt(101)), "totalSupply")
}

func TestPause(t *testing.T) {
	c := newTokenInvoker(t)

	acc := c.NewAccount(t)
	accH := acc.ScriptHash()

	c.WithSigners(acc).InvokeFail(t, common.ErrOwnerWitnessFailed, "pause")

	c.Invoke(t, stackitem.Null{}, "pause")
	c.Invoke(t, true, "paused")

	// Pause overrides the whitelist: even the pre-whitelisted owner is
	// blocked.
	c.InvokeFail(t, token.ErrPaused, "transfer", c.CommitteeHash, accH, int64(1), nil)
	c.InvokeFail(t, token.ErrPaused, "transferFrom", c.CommitteeHash, c.CommitteeHash, accH, int64(1), nil)

	// The gate query reflects the lock only, not the pause.
	c.Invoke(t, true, "canTransfer", c.CommitteeHash, accH)

	// Redundant calls are not an error.
	c.Invoke(t, stackitem.Null{}, "pause")
	c.Invoke(t, true, "paused")

	c.Invoke(t, stackitem.Null{}, "unpause")
	c.Invoke(t, false, "paused")
	c.Invoke(t, stackitem.Null{}, "unpause")

	c.Invoke(t, true, "transfer", c.CommitteeHash, accH, int64(1), nil)
	c.Invoke(t, big.NewInt(1), "balanceOf", accH)
}

func TestTransferValidation(t *testing.T) {
	c := newTokenInvoker(t)

	acc := c.NewAccount(t)
	accH := acc.ScriptHash()

	c.InvokeFail(t, token.ErrInvalidAddress, "transfer", c.CommitteeHash, util.Uint160{}, int64(1), nil)
	c.InvokeFail(t, token.ErrInvalidAmount, "transfer", c.CommitteeHash, accH, int64(0), nil)
	c.InvokeFail(t, token.ErrInvalidAmount, "transfer", c.CommitteeHash, accH, int64(-1), nil)

	// Signed by acc, but the committee is named as the sender.
	c.WithSigners(acc).InvokeFail(t, common.ErrWitnessFailed, "transfer", c.CommitteeHash, accH, int64(1), nil)

	c.Invoke(t, stackitem.Null{}, "whitelistAddress", accH, true)
	c.Invoke(t, true, "transfer", c.CommitteeHash, accH, int64(10), nil)
	c.WithSigners(acc).InvokeFail(t, token.ErrInsufficientBalance, "transfer", accH, c.CommitteeHash, int64(20), nil)
	c.Invoke(t, big.NewInt(10), "balanceOf", accH)
}

func TestApproveTransferFrom(t *testing.T) {
	c := newTokenInvoker(t)

	spender := c.NewAccount(t)
	recipient := c.NewAccount(t)
	spenderH := spender.ScriptHash()
	recipientH := recipient.ScriptHash()
	cSp := c.WithSigners(spender)

	cSp.InvokeFail(t, common.ErrWitnessFailed, "approve", c.CommitteeHash, spenderH, int64(50))
	c.InvokeFail(t, token.ErrInvalidAmount, "approve", c.CommitteeHash, spenderH, int64(-1))

	h := c.Invoke(t, stackitem.Null{}, "approve", c.CommitteeHash, spenderH, int64(50))
	aer := c.CheckHalt(t, h)
	require.Equal(t, 1, len(aer.Events))
	require.Equal(t, "Approval", aer.Events[0].Name)

	c.Invoke(t, big.NewInt(50), "allowance", c.CommitteeHash, spenderH)

	// from (the owner) is whitelisted, so the lock lets this through.
	cSp.Invoke(t, true, "transferFrom", spenderH, c.CommitteeHash, recipientH, int64(30), nil)
	c.Invoke(t, big.NewInt(30), "balanceOf", recipientH)
	c.Invoke(t, big.NewInt(20), "allowance", c.CommitteeHash, spenderH)

	cSp.InvokeFail(t, token.ErrInsufficientAllowance, "transferFrom", spenderH, c.CommitteeHash, recipientH, int64(30), nil)
	c.Invoke(t, big.NewInt(20), "allowance", c.CommitteeHash, spenderH)

	cSp.Invoke(t, true, "transferFrom", spenderH, c.CommitteeHash, recipientH, int64(20), nil)
	c.Invoke(t, big.NewInt(0), "allowance", c.CommitteeHash, spenderH)

	// The lock gate applies to the (from, to) pair, not the spender.
	acc := c.NewAccount(t)
	c.WithSigners(acc).Invoke(t, stackitem.Null{}, "approve", acc.ScriptHash(), spenderH, int64(10))
	cSp.InvokeFail(t, token.ErrTransfersLocked, "transferFrom", spenderH, acc.ScriptHash(), recipientH, int64(5), nil)
}

func TestBurnFrom(t *testing.T) {
	c := newTokenInvoker(t)

	spender := c.NewAccount(t)
	spenderH := spender.ScriptHash()
	cSp := c.WithSigners(spender)

	c.Invoke(t, stackitem.Null{}, "approve", c.CommitteeHash, spenderH, int64(40))

	// burnFrom is allowance-gated, not owner-gated.
	cSp.Invoke(t, stackitem.Null{}, "burnFrom", spenderH, c.CommitteeHash, int64(25))
	c.Invoke(t, big.NewInt(15), "allowance", c.CommitteeHash, spenderH)
	c.Invoke(t, new(big.Int).Sub(genesisSupply(), big.NewInt(25)), "totalSupply")
	c.Invoke(t, new(big.Int).Sub(genesisSupply(), big.NewInt(25)), "balanceOf", c.CommitteeHash)

	cSp.InvokeFail(t, token.ErrInsufficientAllowance, "burnFrom", spenderH, c.CommitteeHash, int64(16))
	c.Invoke(t, new(big.Int).Sub(genesisSupply(), big.NewInt(25)), "totalSupply")
}

func TestGetContractInfo(t *testing.T) {
	c := newTokenInvoker(t)

	supply := genesisSupply()
	c.Invoke(t, stackitem.NewStruct([]stackitem.Item{
		stackitem.NewBigInteger(supply),
		stackitem.NewBigInteger(supply),
		stackitem.NewBool(true),
		stackitem.NewBool(false),
	}), "getContractInfo")

	c.Invoke(t, stackitem.Null{}, "unlockTransfers")
	c.Invoke(t, stackitem.Null{}, "pause")
	c.Invoke(t, stackitem.Null{}, "burn", c.CommitteeHash, int64(100))

	c.Invoke(t, stackitem.NewStruct([]stackitem.Item{
		stackitem.NewBigInteger(supply),
		stackitem.NewBigInteger(new(big.Int).Sub(supply, big.NewInt(100))),
		stackitem.NewBool(false),
		stackitem.NewBool(true),
	}), "getContractInfo")
}

func TestTransferReentrancy(t *testing.T) {
	e := newExecutor(t)
	tokenHash := deployTokenContract(t, e)

	recv := neotest.CompileFile(t, e.CommitteeHash, reenterPath, path.Join(reenterPath, "config.yml"))
	e.DeployContract(t, recv, nil)

	c := e.CommitteeInvoker(tokenHash)
	c.InvokeFail(t, token.ErrReentrant, "transfer", c.CommitteeHash, recv.Hash, int64(100), nil)

	// FAULT rolled the outer transfer back together with the guard marker.
	c.Invoke(t, big.NewInt(0), "balanceOf", recv.Hash)
	c.Invoke(t, genesisSupply(), "balanceOf", c.CommitteeHash)
}

func TestUpdateAccess(t *testing.T) {
	c := newTokenInvoker(t)

	acc := c.NewAccount(t)
	c.WithSigners(acc).InvokeFail(t, common.ErrOwnerWitnessFailed, "update", []byte{}, []byte{}, nil)
}
