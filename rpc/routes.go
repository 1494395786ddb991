package rpc

import rpc "github.com/tendermint/tendermint/rpc/jsonrpc/server"

var Routes = map[string]*rpc.RPCFunc{
	"status":         rpc.NewRPCFunc(Status, ""),
	"submit_payload": rpc.NewRPCFunc(SubmitPayload, "payload"),
	"store_get":      rpc.NewRPCFunc(StoreGet, "key"),
	"collection":     rpc.NewRPCFunc(Collection, "key"),
	"metrics":        rpc.NewRPCFunc(JSONMetrics, "label"),
}
