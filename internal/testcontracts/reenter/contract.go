package reenter

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

// OnNEP17Payment bounces every received payment straight back to the sender
// by calling into the token contract that is still executing its transfer.
// The token contract must reject the nested call.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	token := runtime.GetCallingScriptHash()
	self := runtime.GetExecutingScriptHash()
	contract.Call(token, "transfer", contract.All, self, from, amount, nil)
}

func Verify() bool {
	return true
}
