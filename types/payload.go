package types

import (
	"errors"
	"strconv"
	"strings"
)

// PayloadKind discriminates the per-round payload schemas.
type PayloadKind uint8

const (
	PricePayloadKind         = PayloadKind(0x01)
	DecisionPayloadKind      = PayloadKind(0x02)
	TxPreparationPayloadKind = PayloadKind(0x03)
	IPFSPayloadKind          = PayloadKind(0x04)
	MultisendPayloadKind     = PayloadKind(0x05)
	ContractPayloadKind      = PayloadKind(0x06)
)

func (k PayloadKind) String() string {
	switch k {
	case PricePayloadKind:
		return "PricePayload"
	case DecisionPayloadKind:
		return "DecisionPayload"
	case TxPreparationPayloadKind:
		return "TxPreparationPayload"
	case IPFSPayloadKind:
		return "IPFSPayload"
	case MultisendPayloadKind:
		return "MultisendPayload"
	case ContractPayloadKind:
		return "ContractPayload"
	default:
		return "UnknownPayload"
	}
}

// Payload is one participant's submitted value for the active round.
// Payloads are immutable once submitted; a sender resubmitting within the
// same round replaces its prior payload.
type Payload interface {
	Sender() Address
	Kind() PayloadKind
	ValidateBasic() error

	// SelectionKey is the canonical serialization of the fields the round
	// agrees on. Two payloads vote for the same outcome iff their selection
	// keys are byte-equal.
	SelectionKey() string

	// SelectionValues are the agreed values in the order of the round
	// variant's declared selection keys. Written to the store on settlement.
	SelectionValues() []interface{}
}

const selectionSep = "|"

// BasePayload carries the sender identity shared by every payload schema.
type BasePayload struct {
	SenderAddr Address `json:"sender"`
}

func (p BasePayload) Sender() Address {
	return p.SenderAddr
}

func (p BasePayload) validateSender() error {
	if len(p.SenderAddr) == 0 {
		return errors.New("payload has empty sender")
	}
	return nil
}

// ----- PricePayload -----

// PricePayload carries the token price observed by one participant.
type PricePayload struct {
	BasePayload
	Price float64 `json:"price"`
}

func NewPricePayload(sender Address, price float64) *PricePayload {
	return &PricePayload{BasePayload{sender}, price}
}

func (p *PricePayload) Kind() PayloadKind { return PricePayloadKind }

func (p *PricePayload) ValidateBasic() error {
	return p.validateSender()
}

func (p *PricePayload) SelectionKey() string {
	return strconv.FormatFloat(p.Price, 'g', -1, 64)
}

func (p *PricePayload) SelectionValues() []interface{} {
	return []interface{}{p.Price}
}

// ----- DecisionPayload -----

// DecisionPayload carries the event name a participant wants the app to
// follow out of the decision round.
type DecisionPayload struct {
	BasePayload
	EventName string `json:"event"`
}

func NewDecisionPayload(sender Address, event string) *DecisionPayload {
	return &DecisionPayload{BasePayload{sender}, event}
}

func (p *DecisionPayload) Kind() PayloadKind { return DecisionPayloadKind }

func (p *DecisionPayload) ValidateBasic() error {
	if err := p.validateSender(); err != nil {
		return err
	}
	if p.EventName == "" {
		return errors.New("decision payload has empty event")
	}
	return nil
}

func (p *DecisionPayload) SelectionKey() string {
	return p.EventName
}

// The decision round settles on an event, not on store values.
func (p *DecisionPayload) SelectionValues() []interface{} {
	return nil
}

// ----- TxPreparationPayload -----

// TxPreparationPayload carries the prepared transaction hash and the round
// that submitted it for settlement.
type TxPreparationPayload struct {
	BasePayload
	TxSubmitter string `json:"tx_submitter"`
	TxHash      string `json:"tx_hash"`
}

func NewTxPreparationPayload(sender Address, submitter, txHash string) *TxPreparationPayload {
	return &TxPreparationPayload{BasePayload{sender}, submitter, txHash}
}

func (p *TxPreparationPayload) Kind() PayloadKind { return TxPreparationPayloadKind }

func (p *TxPreparationPayload) ValidateBasic() error {
	return p.validateSender()
}

func (p *TxPreparationPayload) SelectionKey() string {
	return strings.Join([]string{p.TxSubmitter, p.TxHash}, selectionSep)
}

func (p *TxPreparationPayload) SelectionValues() []interface{} {
	return []interface{}{p.TxSubmitter, p.TxHash}
}

// ----- IPFSPayload -----

// IPFSPayload carries a content hash, plus (for store rounds) the raw data
// the sender pinned. Only the hash is part of the agreement.
type IPFSPayload struct {
	BasePayload
	IPFSHash string `json:"ipfs_hash"`
	Data     string `json:"data,omitempty"`
}

func NewIPFSPayload(sender Address, hash, data string) *IPFSPayload {
	return &IPFSPayload{BasePayload{sender}, hash, data}
}

func (p *IPFSPayload) Kind() PayloadKind { return IPFSPayloadKind }

func (p *IPFSPayload) ValidateBasic() error {
	if err := p.validateSender(); err != nil {
		return err
	}
	if p.IPFSHash == "" {
		return errors.New("ipfs payload has empty hash")
	}
	return nil
}

func (p *IPFSPayload) SelectionKey() string {
	return p.IPFSHash
}

func (p *IPFSPayload) SelectionValues() []interface{} {
	return []interface{}{p.IPFSHash}
}

// ----- MultisendPayload -----

// MultisendPayload carries the assembled multisend transaction hash and the
// serialized transaction list it was built from.
type MultisendPayload struct {
	BasePayload
	TxSubmitter     string `json:"tx_submitter"`
	MultisendTxHash string `json:"multisend_tx_hash"`
	Transactions    string `json:"transactions,omitempty"`
}

func NewMultisendPayload(sender Address, submitter, txHash, transactions string) *MultisendPayload {
	return &MultisendPayload{BasePayload{sender}, submitter, txHash, transactions}
}

func (p *MultisendPayload) Kind() PayloadKind { return MultisendPayloadKind }

func (p *MultisendPayload) ValidateBasic() error {
	if err := p.validateSender(); err != nil {
		return err
	}
	if p.MultisendTxHash == "" {
		return errors.New("multisend payload has empty tx hash")
	}
	return nil
}

func (p *MultisendPayload) SelectionKey() string {
	return p.MultisendTxHash
}

func (p *MultisendPayload) SelectionValues() []interface{} {
	return []interface{}{p.MultisendTxHash}
}

// ----- ContractPayload -----

// ContractPayload describes a custom contract call: target address, function
// and serialized arguments. The whole descriptor is the agreed value.
type ContractPayload struct {
	BasePayload
	ContractAddress string `json:"contract_address"`
	FunctionName    string `json:"function_name"`
	FunctionArgs    string `json:"function_args"`
}

func NewContractPayload(sender Address, contract, function, args string) *ContractPayload {
	return &ContractPayload{BasePayload{sender}, contract, function, args}
}

func (p *ContractPayload) Kind() PayloadKind { return ContractPayloadKind }

func (p *ContractPayload) ValidateBasic() error {
	if err := p.validateSender(); err != nil {
		return err
	}
	if p.ContractAddress == "" {
		return errors.New("contract payload has empty contract address")
	}
	if p.FunctionName == "" {
		return errors.New("contract payload has empty function name")
	}
	return nil
}

func (p *ContractPayload) SelectionKey() string {
	return strings.Join([]string{p.ContractAddress, p.FunctionName, p.FunctionArgs}, selectionSep)
}

func (p *ContractPayload) SelectionValues() []interface{} {
	return []interface{}{p.SelectionKey()}
}
