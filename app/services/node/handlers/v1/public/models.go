package public

import (
	"encoding/json"

	"github.com/dlscoin/blockchain/foundation/blockchain/database"
	"github.com/dlscoin/blockchain/foundation/blockchain/state"
	"github.com/dlscoin/blockchain/foundation/validate"
)

type mineRequest struct {
	MinerAddress *string `json:"miner_address"`
}

func (m mineRequest) Validate() error {
	if m.MinerAddress != nil && *m.MinerAddress == "" {
		return validate.FieldErrors{
			{Field: "miner_address", Err: "miner_address must not be empty"},
		}
	}
	return nil
}

type mineResponse struct {
	Message string         `json:"message"`
	Block   database.Block `json:"block"`
}

type registerPeers struct {
	Nodes []string `json:"nodes" validate:"required,min=1"`
}

func (rp registerPeers) Validate() error {
	return validate.Check(rp)
}

type tx struct {
	From     string `json:"from"`
	FromName string `json:"from_name"`
	To       string `json:"to"`
	ToName   string `json:"to_name"`
	Amount   json.Number                `json:"amount"`
	Data     string                     `json:"data,omitempty"`
	Extra    map[string]json.RawMessage `json:"extra,omitempty"`
}

type page struct {
	Status state.Status
	Blocks []database.Block
}
