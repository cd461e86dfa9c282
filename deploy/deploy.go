/*
Package deploy provides GateToken contract deployment routine.
*/
package deploy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the token contract deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to
	// the blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by
	// its address. GetContractStateByHash returns an error with 'Unknown
	// contract' substring if the requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// Prm groups parameters of the token contract deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	// It pays the deployment fees and becomes the deployer in the contract
	// address derivation.
	LocalAccount *wallet.Account

	// Compiled contract.
	NEF      nef.File
	Manifest manifest.Manifest

	// Account that receives the genesis supply and administers the transfer
	// gate. Passed to the contract's _deploy.
	Owner util.Uint160
}

// Deploy deploys the token contract represented by given Prm to the chain
// and returns its address. If the contract is already deployed by the same
// account, Deploy just logs the fact and returns the address: updates go
// through the contract's own update method, not through Deploy.
func Deploy(ctx context.Context, prm Prm) (util.Uint160, error) {
	if err := ctx.Err(); err != nil {
		return util.Uint160{}, err
	}

	localActor, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	hash := state.CreateContractHash(localActor.Sender(), prm.NEF.Checksum, prm.Manifest.Name)

	stateOnChain, err := prm.Blockchain.GetContractStateByHash(hash)
	if err == nil {
		prm.Logger.Info("contract is already deployed, skip",
			zap.Stringer("address", hash), zap.Uint16("update counter", stateOnChain.UpdateCounter))
		return hash, nil
	}
	if !strings.Contains(err.Error(), "Unknown contract") {
		return util.Uint160{}, fmt.Errorf("check presence of the contract on the chain: %w", err)
	}

	prm.Logger.Info("deploying the contract...",
		zap.Stringer("address", hash), zap.Stringer("owner", prm.Owner))

	txHash, vub, err := management.New(localActor).Deploy(&prm.NEF, &prm.Manifest, []any{prm.Owner})
	if err != nil {
		return util.Uint160{}, fmt.Errorf("send contract deployment transaction: %w", err)
	}

	res, err := localActor.Wait(txHash, vub, nil)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("wait for contract deployment transaction: %w", err)
	}
	if res.VMState != vmstate.Halt {
		return util.Uint160{}, errors.New("contract deployment transaction faulted: " + res.FaultException)
	}

	prm.Logger.Info("contract successfully deployed", zap.Stringer("address", hash))

	return hash, nil
}
