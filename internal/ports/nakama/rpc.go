package nakama

import (
	"github.com/heroiclabs/nakama-common/runtime"
)

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcFindTable, rpcFindTable); err != nil {
		return err
	}
	if err := initializer.RegisterRpc(RpcTableToken, rpcTableToken); err != nil {
		return err
	}
	if err := initializer.RegisterRpc(RpcGetProfile, rpcGetProfile); err != nil {
		return err
	}
	if err := initializer.RegisterRpc(RpcCreateProfile, rpcCreateProfile); err != nil {
		return err
	}
	if err := initializer.RegisterRpc(RpcUpdateProfile, rpcUpdateProfile); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcAddCoins, rpcAddCoins)
}
