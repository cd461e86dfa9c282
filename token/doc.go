/*
Package token implements the GateToken contract, a NEP-17 compatible
fungible token with an owner-controlled transfer gate.

The whole supply (99 billion whole tokens, 18 decimals) is credited to the
contract owner at deployment, no further minting is possible. Transfers
start locked: while the lock is active only transfers where the sender or
the recipient is whitelisted go through. The owner maintains the whitelist
and may permanently lift the lock with unlockTransfers; there is no way to
set the lock again. Independently of the lock, the owner may pause and
unpause the contract, which blocks transfer and transferFrom (but not burn,
administration or read methods). Token holders can reduce the supply with
burn, or let others do so on their behalf with allowance-based burnFrom.

# Contract notifications

Transfer notification. This is a NEP-17 standard notification emitted on
every transfer and burn (with empty to) and on the genesis mint (with empty
from).

	Transfer:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer

Approval notification. Emitted when an account authorizes a spender.

	Approval:
	  - name: owner
	    type: Hash160
	  - name: spender
	    type: Hash160
	  - name: amount
	    type: Integer

WhitelistUpdated notification. Emitted per applied entry of whitelistAddress
and batchWhitelist.

	WhitelistUpdated:
	  - name: address
	    type: Hash160
	  - name: status
	    type: Boolean

TransfersUnlocked notification. Emitted once, when the owner permanently
lifts the transfer lock.

	TransfersUnlocked (no parameters)

TokensBurned notification. Emitted on burn and burnFrom.

	TokensBurned:
	  - name: account
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package token

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'o' -> interop.Hash160
   script hash of the contract owner, written once at deployment
 - 's' -> int
   amount of base units in circulation
 - 'l' -> bool
   transfer lock flag, true from deployment until unlockTransfers
 - 'p' -> bool
   emergency pause flag
 - 'g' -> bool
   re-entrancy guard marker, present only within a transfer-family call
 - 'b' + interop.Hash160 -> int
   balance sheet of all token holders, zero balances are deleted
 - 'a' + interop.Hash160 + interop.Hash160 -> int
   remaining allowance of the (owner, spender) pair, spent-out and revoked
   allowances are deleted
 - 'w' + interop.Hash160 -> bool
   whitelist membership flag, entries are never deleted, only set to false

# Accounting
The sum of all stored balances always equals the value under 's'.
*/
