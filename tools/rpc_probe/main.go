package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"
	tmjson "github.com/tendermint/tendermint/libs/json"
	jsonrpc "github.com/tendermint/tendermint/rpc/jsonrpc/types"

	"votingfsm_demo/types"
)

const sendTimeout = 10 * time.Second

func connect(host string) (*websocket.Conn, *http.Response, error) {
	u := url.URL{Scheme: "ws", Host: host, Path: "/websocket"}
	return websocket.DefaultDialer.Dial(u.String(), nil)
}

func call(c *websocket.Conn, method string, params map[string]interface{}) error {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to encode params: %w", err)
	}

	if err := c.SetWriteDeadline(time.Now().Add(sendTimeout)); err != nil {
		return err
	}
	req := jsonrpc.RPCRequest{
		JSONRPC: "2.0",
		ID:      jsonrpc.JSONRPCStringID("rpc-probe"),
		Method:  method,
		Params:  json.RawMessage(paramsJSON),
	}
	if err := c.WriteJSON(req); err != nil {
		return err
	}

	var resp jsonrpc.RPCResponse
	if err := c.ReadJSON(&resp); err != nil {
		return err
	}
	if resp.Error != nil {
		return fmt.Errorf("%s: %v", method, resp.Error)
	}
	fmt.Printf("%s -> %s\n", method, string(resp.Result))
	return nil
}

func main() {
	var (
		host   = flag.String("host", "127.0.0.1:26657", "node rpc address")
		sender = flag.String("sender", "", "hex address to submit a price payload for")
		price  = flag.Float64("price", 1.0, "price to submit")
	)
	flag.Parse()

	c, _, err := connect(*host)
	if err != nil {
		fmt.Printf("failed to connect to %s: %v\n", *host, err)
		os.Exit(1)
	}
	defer c.Close()

	if err := call(c, "status", nil); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if *sender != "" {
		addr, err := types.AddressFromString(*sender)
		if err != nil {
			fmt.Printf("bad sender address: %v\n", err)
			os.Exit(1)
		}
		payload, err := tmjson.Marshal(types.NewPricePayload(addr, *price))
		if err != nil {
			fmt.Printf("failed to encode payload: %v\n", err)
			os.Exit(1)
		}
		if err := call(c, "submit_payload", map[string]interface{}{"payload": payload}); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}

	if err := call(c, "metrics", map[string]interface{}{"label": ""}); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
