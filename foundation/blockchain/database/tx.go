package database

import (
	"encoding/json"
	"strconv"
)

// RewardSender is the from address used for the transaction that pays the
// mining reward to the beneficiary of a block.
const RewardSender = "network"

// Tx represents a transaction between two parties. The node doesn't
// validate transactions: any amount that is a JSON number is kept as sent,
// and keys other than the ones below are carried along in Extra.
type Tx struct {
	Amount json.Number                `json:"amount"`         // Value moved by this transaction.
	Data   string                     `json:"data,omitempty"` // Extra data related to the transaction.
	From   string                     `json:"from"`           // Account sending the value.
	To     string                     `json:"to"`             // Account receiving the value.
	Extra  map[string]json.RawMessage `json:"-"`              // Any other keys submitted with the transaction.
}

// NewRewardTx constructs the transaction that pays the mining reward for a
// block to the specified beneficiary.
func NewRewardTx(beneficiary string, reward uint64) Tx {
	return Tx{
		Amount: json.Number(strconv.FormatUint(reward, 10)),
		From:   RewardSender,
		To:     beneficiary,
	}
}

// IsReward reports whether this is a mining reward transaction.
func (tx Tx) IsReward() bool {
	return tx.From == RewardSender
}

// Copy returns a transaction that shares no memory with this one.
func (tx Tx) Copy() Tx {
	if tx.Extra == nil {
		return tx
	}

	extra := make(map[string]json.RawMessage, len(tx.Extra))
	for k, v := range tx.Extra {
		extra[k] = append(json.RawMessage(nil), v...)
	}
	tx.Extra = extra

	return tx
}

// Equal reports whether both transactions carry the same content.
func (tx Tx) Equal(other Tx) bool {
	a, err := json.Marshal(tx)
	if err != nil {
		return false
	}

	b, err := json.Marshal(other)
	if err != nil {
		return false
	}

	return string(a) == string(b)
}

// txFields has the same fields as Tx without its methods.
type txFields Tx

// MarshalJSON encodes the transaction with its keys in lexical order, which
// keeps the encoding canonical for hashing. Extra keys are merged in.
func (tx Tx) MarshalJSON() ([]byte, error) {
	if len(tx.Extra) == 0 {
		return json.Marshal(txFields(tx))
	}

	known, err := json.Marshal(txFields(tx))
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(known, &fields); err != nil {
		return nil, err
	}

	// A map is encoded with sorted keys.
	m := make(map[string]json.RawMessage, len(tx.Extra)+len(fields))
	for k, v := range fields {
		m[k] = v
	}
	for k, v := range tx.Extra {
		m[k] = v
	}

	return json.Marshal(m)
}

// UnmarshalJSON decodes the known keys and keeps every other key in Extra.
// A known key whose value has an unexpected type is kept in Extra as sent.
func (tx *Tx) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	var t Tx
	known := map[string]any{
		"amount": &t.Amount,
		"data":   &t.Data,
		"from":   &t.From,
		"to":     &t.To,
	}

	for key, dst := range known {
		raw, exists := m[key]
		if !exists {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			continue
		}
		delete(m, key)
	}

	if len(m) > 0 {
		t.Extra = m
	}

	*tx = t
	return nil
}
