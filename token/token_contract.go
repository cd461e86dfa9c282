package token

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"

	"github.com/gatetoken/gatetoken-contract/common"
)

type (
	// Token holds all token info.
	Token struct {
		// Ticker symbol
		Symbol string
		// Amount of decimals
		Decimals int
	}

	// ContractInfo is a summary of the token state returned by the
	// getContractInfo method.
	ContractInfo struct {
		// Amount of base units minted at genesis.
		GenesisSupply int
		// Current amount of base units in circulation.
		CirculatingSupply int
		// Whether transfers of non-whitelisted parties are blocked.
		TransferLocked bool
		// Whether the emergency pause is active.
		Paused bool
	}
)

const (
	symbol   = "GATE"
	decimals = 18

	// genesisWhole is the amount of whole tokens credited to the owner at
	// deployment. The base-unit value is genesisWhole*10^decimals.
	genesisWhole = 99_000_000_000
)

// Prefixes used for contract data storage.
const (
	ownerKey  = 'o'
	supplyKey = 's'
	lockedKey = 'l'
	pausedKey = 'p'

	// guardKey is present in storage only while a transfer-family call
	// frame is active.
	guardKey = 'g'

	balancePrefix   = 'b'
	allowancePrefix = 'a'
	whitelistPrefix = 'w'
)

// Messages of the panics thrown by the contract methods.
const (
	ErrTransfersLocked       = "transfers are locked"
	ErrPaused                = "contract is paused"
	ErrInvalidAddress        = "invalid address"
	ErrInvalidAmount         = "invalid non-positive amount"
	ErrInsufficientBalance   = "insufficient balance"
	ErrInsufficientAllowance = "insufficient allowance"
	ErrAlreadyUnlocked       = "transfers already unlocked"
	ErrReentrant             = "reentrant call"
)

var token Token

func createToken() Token {
	return Token{
		Symbol:   symbol,
		Decimals: decimals,
	}
}

func init() {
	token = createToken()
}

// nolint:unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		owner interop.Hash160
	})

	if !isUsableAddress(args.owner) {
		panic("incorrect owner script hash")
	}

	supply := genesisSupply()

	storage.Put(ctx, ownerKey, args.owner)
	storage.Put(ctx, supplyKey, supply)
	storage.Put(ctx, lockedKey, true)
	storage.Put(ctx, pausedKey, false)

	setBalance(ctx, args.owner, supply)

	// The owner is exempt from the transfer lock from the very start,
	// otherwise no initial distribution would be possible.
	storage.Put(ctx, whitelistKey(args.owner), true)

	runtime.Notify("Transfer", interop.Hash160(nil), args.owner, supply)
	runtime.Log("token contract initialized")
}

// genesisSupply returns the fixed amount of base units minted at deployment.
// It is computed at run time because the value does not fit into int64.
func genesisSupply() int {
	units := genesisWhole
	for i := 0; i < decimals; i++ {
		units *= 10
	}
	return units
}

// Update method updates contract source code and manifest. It can be invoked
// only by the contract owner.
func Update(nefFile, manifest []byte, data any) {
	ctx := storage.GetReadOnlyContext()
	common.CheckOwnerWitness(tokenOwner(ctx))

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("token contract updated")
}

// Symbol is a NEP-17 standard method that returns the token symbol.
func Symbol() string {
	return token.Symbol
}

// Decimals is a NEP-17 standard method that returns the token precision.
func Decimals() int {
	return token.Decimals
}

// TotalSupply is a NEP-17 standard method that returns the amount of base
// units currently in circulation. It equals the genesis supply until the
// first burn.
func TotalSupply() int {
	ctx := storage.GetReadOnlyContext()
	return token.getSupply(ctx)
}

// BalanceOf is a NEP-17 standard method that returns the token balance of
// the specified account.
func BalanceOf(account interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return getBalance(ctx, account)
}

// Allowance returns the amount of tokens spender is still permitted to move
// out of the owner account via transferFrom or burnFrom.
func Allowance(owner, spender interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return getIntOrZero(ctx, allowanceKey(owner, spender))
}

// Owner returns the script hash of the account that administers the
// whitelist, lock and pause flags. It is fixed at deployment.
func Owner() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return tokenOwner(ctx)
}

// Transfer is a NEP-17 standard method that moves amount of base units from
// one account to another. It can be invoked only by the from account (or by
// a contract transferring its own funds).
//
// While the transfer lock is active either from or to must be whitelisted,
// and the contract must not be paused. Unlike the NEP-17 baseline, every
// rejected transfer faults instead of returning false, so a failed call
// cannot be confused with a successful zero-effect one.
//
// Produces Transfer notification.
func Transfer(from, to interop.Hash160, amount int, data any) bool {
	ctx := storage.GetContext()
	acquireGuard(ctx)

	checkNotPaused(ctx)
	checkTransferAllowed(ctx, from, to)
	checkSenderWitness(from)

	token.moveValue(ctx, from, to, amount)
	postTransfer(from, to, amount, data)

	releaseGuard(ctx)
	return true
}

// TransferFrom moves amount of base units from the from account to the to
// account spending the allowance previously granted by from to spender. It
// can be invoked only by the spender and is subject to the same pause and
// lock rules as Transfer. The spent allowance is never restored.
//
// Produces Transfer notification.
func TransferFrom(spender, from, to interop.Hash160, amount int, data any) bool {
	ctx := storage.GetContext()
	acquireGuard(ctx)

	checkNotPaused(ctx)
	checkTransferAllowed(ctx, from, to)
	checkSenderWitness(spender)

	token.spendAllowance(ctx, from, spender, amount)
	token.moveValue(ctx, from, to, amount)
	postTransfer(from, to, amount, data)

	releaseGuard(ctx)
	return true
}

// Approve authorizes spender to move up to amount of base units out of the
// owner account. A repeated call replaces the previous allowance. It can be
// invoked only by the owner account.
//
// Produces Approval notification.
func Approve(owner, spender interop.Hash160, amount int) {
	ctx := storage.GetContext()

	if !isUsableAddress(owner) || !isUsableAddress(spender) {
		panic(ErrInvalidAddress)
	}
	if amount < 0 {
		panic(ErrInvalidAmount)
	}
	checkSenderWitness(owner)

	key := allowanceKey(owner, spender)
	if amount == 0 {
		storage.Delete(ctx, key)
	} else {
		storage.Put(ctx, key, amount)
	}

	runtime.Notify("Approval", owner, spender, amount)
}

// Burn destroys amount of base units held by the from account reducing the
// circulating supply. It can be invoked only by the account itself. Burning
// is available even while the contract is paused or transfers are locked.
//
// Produces TokensBurned and Transfer notifications.
func Burn(from interop.Hash160, amount int) {
	ctx := storage.GetContext()
	checkSenderWitness(from)
	token.burn(ctx, from, amount)
}

// BurnFrom destroys amount of base units held by the from account spending
// the allowance previously granted by from to spender. Deliberately not
// restricted to the contract owner: any account with sufficient allowance
// may invoke it.
//
// Produces TokensBurned and Transfer notifications.
func BurnFrom(spender, from interop.Hash160, amount int) {
	ctx := storage.GetContext()
	checkSenderWitness(spender)
	token.spendAllowance(ctx, from, spender, amount)
	token.burn(ctx, from, amount)
}

// WhitelistAddress adds addr to the set of accounts exempt from the transfer
// lock (or removes it, with false status). It can be invoked only by the
// contract owner.
//
// Produces WhitelistUpdated notification.
func WhitelistAddress(addr interop.Hash160, status bool) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(tokenOwner(ctx))

	if !isUsableAddress(addr) {
		panic(ErrInvalidAddress)
	}

	setWhitelist(ctx, addr, status)
}

// BatchWhitelist applies WhitelistAddress semantics to every usable address
// of addrs in order. Unusable entries are silently skipped instead of
// failing the whole batch. It can be invoked only by the contract owner.
//
// Produces WhitelistUpdated notification per applied entry.
func BatchWhitelist(addrs []interop.Hash160, status bool) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(tokenOwner(ctx))

	for i := range addrs {
		if !isUsableAddress(addrs[i]) {
			continue
		}
		setWhitelist(ctx, addrs[i], status)
	}
}

// UnlockTransfers permanently clears the transfer lock, opening transfers to
// non-whitelisted parties. There is no way back: no method sets the lock
// again. It can be invoked only by the contract owner.
//
// Produces TransfersUnlocked notification.
func UnlockTransfers() {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(tokenOwner(ctx))

	if !isTransferLocked(ctx) {
		panic(ErrAlreadyUnlocked)
	}

	storage.Put(ctx, lockedKey, false)
	runtime.Notify("TransfersUnlocked")
	runtime.Log("transfers unlocked")
}

// Pause blocks all transfer-family operations until Unpause. Burning,
// whitelist administration and read methods stay available. It can be
// invoked only by the contract owner. Redundant calls are not an error.
func Pause() {
	setPaused(true)
}

// Unpause lifts the emergency pause. It can be invoked only by the contract
// owner. Redundant calls are not an error.
func Unpause() {
	setPaused(false)
}

// CanTransfer reports whether a transfer between from and to passes the
// lock/whitelist gate. It is computed by the same predicate the enforcing
// path uses, so it never diverges from Transfer behavior (pause and balance
// checks aside).
func CanTransfer(from, to interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return transferAllowed(ctx, from, to)
}

// IsWhitelisted reports whether addr is exempt from the transfer lock.
func IsWhitelisted(addr interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return isWhitelisted(ctx, addr)
}

// TransferLocked reports whether transfers of non-whitelisted parties are
// currently blocked.
func TransferLocked() bool {
	ctx := storage.GetReadOnlyContext()
	return isTransferLocked(ctx)
}

// Paused reports whether the emergency pause is active.
func Paused() bool {
	ctx := storage.GetReadOnlyContext()
	return isPaused(ctx)
}

// GetContractInfo returns the genesis supply constant, the current
// circulating supply and the lock and pause flags in a single call.
func GetContractInfo() ContractInfo {
	ctx := storage.GetReadOnlyContext()
	return ContractInfo{
		GenesisSupply:     genesisSupply(),
		CirculatingSupply: token.getSupply(ctx),
		TransferLocked:    isTransferLocked(ctx),
		Paused:            isPaused(ctx),
	}
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// moveValue validates the addresses and the amount and then atomically
// debits from and credits to. Ordered after the pause and lock gates, it
// finishes the fixed guard pipeline of the transfer-family methods.
func (t Token) moveValue(ctx storage.Context, from, to interop.Hash160, amount int) {
	if !isUsableAddress(from) || !isUsableAddress(to) {
		panic(ErrInvalidAddress)
	}
	if amount <= 0 {
		panic(ErrInvalidAmount)
	}

	fromBalance := getBalance(ctx, from)
	if fromBalance < amount {
		panic(ErrInsufficientBalance)
	}

	setBalance(ctx, from, fromBalance-amount)
	// Re-read covers the from == to case.
	setBalance(ctx, to, getBalance(ctx, to)+amount)

	runtime.Notify("Transfer", from, to, amount)
}

// spendAllowance reduces the remaining allowance of (owner, spender) by
// amount. There is no unlimited-allowance sentinel, the decrement always
// happens.
func (t Token) spendAllowance(ctx storage.Context, owner, spender interop.Hash160, amount int) {
	key := allowanceKey(owner, spender)

	remaining := getIntOrZero(ctx, key)
	if remaining < amount {
		panic(ErrInsufficientAllowance)
	}

	if remaining == amount {
		storage.Delete(ctx, key)
	} else {
		storage.Put(ctx, key, remaining-amount)
	}
}

func (t Token) burn(ctx storage.Context, from interop.Hash160, amount int) {
	if !isUsableAddress(from) {
		panic(ErrInvalidAddress)
	}
	if amount <= 0 {
		panic(ErrInvalidAmount)
	}

	balance := getBalance(ctx, from)
	if balance < amount {
		panic(ErrInsufficientBalance)
	}

	setBalance(ctx, from, balance-amount)

	supply := t.getSupply(ctx)
	if supply < amount {
		panic("negative supply after burn")
	}
	storage.Put(ctx, supplyKey, supply-amount)

	runtime.Notify("TokensBurned", from, amount)
	runtime.Notify("Transfer", from, interop.Hash160(nil), amount)
	runtime.Log("assets were burned")
}

// getSupply gets the circulating supply value from the contract storage.
func (t Token) getSupply(ctx storage.Context) int {
	return getIntOrZero(ctx, supplyKey)
}

// transferAllowed is the single gating predicate shared by the enforcing
// path and the canTransfer query.
func transferAllowed(ctx storage.Context, from, to interop.Hash160) bool {
	if !isTransferLocked(ctx) {
		return true
	}
	return isWhitelisted(ctx, from) || isWhitelisted(ctx, to)
}

func checkTransferAllowed(ctx storage.Context, from, to interop.Hash160) {
	if !transferAllowed(ctx, from, to) {
		panic(ErrTransfersLocked)
	}
}

func checkNotPaused(ctx storage.Context) {
	if isPaused(ctx) {
		panic(ErrPaused)
	}
}

// checkSenderWitness checks that the sender either signed the transaction or
// is the contract performing the call.
func checkSenderWitness(sender interop.Hash160) {
	if runtime.CheckWitness(sender) {
		return
	}
	if common.BytesEqual(runtime.GetCallingScriptHash(), sender) {
		return
	}
	panic(common.ErrWitnessFailed)
}

// acquireGuard marks the start of a transfer-family call frame. A nested
// call into the guarded surface faults while the marker is present. The
// marker is cleared in releaseGuard or by the FAULT rollback.
func acquireGuard(ctx storage.Context) {
	if storage.Get(ctx, guardKey) != nil {
		panic(ErrReentrant)
	}
	storage.Put(ctx, guardKey, true)
}

func releaseGuard(ctx storage.Context) {
	storage.Delete(ctx, guardKey)
}

// postTransfer lets contract recipients react to incoming tokens, as NEP-17
// requires. It runs with the re-entrancy guard still held.
func postTransfer(from, to interop.Hash160, amount int, data any) {
	if management.GetContract(to) != nil {
		contract.Call(to, "onNEP17Payment", contract.All, from, amount, data)
	}
}

func setPaused(status bool) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(tokenOwner(ctx))
	storage.Put(ctx, pausedKey, status)
}

func setWhitelist(ctx storage.Context, addr interop.Hash160, status bool) {
	storage.Put(ctx, whitelistKey(addr), status)
	runtime.Notify("WhitelistUpdated", addr, status)
}

func isWhitelisted(ctx storage.Context, addr interop.Hash160) bool {
	if len(addr) != interop.Hash160Len {
		return false
	}
	flag := storage.Get(ctx, whitelistKey(addr))
	return flag != nil && flag.(bool)
}

func isTransferLocked(ctx storage.Context) bool {
	return storage.Get(ctx, lockedKey).(bool)
}

func isPaused(ctx storage.Context) bool {
	return storage.Get(ctx, pausedKey).(bool)
}

// isUsableAddress checks that addr is a correct script hash and is not the
// all-zero one.
func isUsableAddress(addr interop.Hash160) bool {
	if len(addr) != interop.Hash160Len {
		return false
	}
	for i := range addr {
		if addr[i] != 0 {
			return true
		}
	}
	return false
}

func tokenOwner(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, ownerKey).(interop.Hash160)
}

func getBalance(ctx storage.Context, addr interop.Hash160) int {
	return getIntOrZero(ctx, balanceKey(addr))
}

func setBalance(ctx storage.Context, addr interop.Hash160, amount int) {
	key := balanceKey(addr)
	if amount == 0 {
		storage.Delete(ctx, key)
	} else {
		storage.Put(ctx, key, amount)
	}
}

func getIntOrZero(ctx storage.Context, key any) int {
	data := storage.Get(ctx, key)
	if data != nil {
		return data.(int)
	}
	return 0
}

func balanceKey(addr interop.Hash160) []byte {
	return append([]byte{balancePrefix}, addr...)
}

func allowanceKey(owner, spender interop.Hash160) []byte {
	key := append([]byte{allowancePrefix}, owner...)
	return append(key, spender...)
}

func whitelistKey(addr interop.Hash160) []byte {
	return append([]byte{whitelistPrefix}, addr...)
}
