package rows

import (
	"errors"
	"fmt"
	"io"

	"github.com/agnosticeng/chain-index/internal/engine"
	"github.com/goccy/go-json"
)

var decoders = [...]func(io.Reader) ([]engine.Row, error){
	engine.TxoAdaInsert:                      decodeLines[TxoAda],
	engine.TxoAssetInsert:                    decodeLines[TxoAsset],
	engine.UnstakedTxoAdaInsert:              decodeLines[UnstakedTxoAda],
	engine.UnstakedTxoAssetInsert:            decodeLines[UnstakedTxoAsset],
	engine.TxiInsert:                         decodeLines[Txi],
	engine.StakeRegistrationInsert:           decodeLines[StakeRegistration],
	engine.Cip36RegistrationInsert:           decodeLines[Cip36Registration],
	engine.Cip36RegistrationInsertError:      decodeLines[Cip36InvalidRegistration],
	engine.Cip36RegistrationForVoteKeyInsert: decodeLines[Cip36ForVoteKey],
	engine.TxoSpentUpdate:                    decodeLines[TxoSpent],
}

// DecodeLines reads one JSON object per row of kind from r. Byte fields are
// base64 strings.
func DecodeLines(kind engine.BulkInsertKind, r io.Reader) ([]engine.Row, error) {
	if kind < 0 || int(kind) >= len(decoders) {
		return nil, fmt.Errorf("unknown bulk insert kind %d", int(kind))
	}

	return decoders[kind](r)
}

func decodeLines[T engine.Row](r io.Reader) ([]engine.Row, error) {
	var (
		dec = json.NewDecoder(r)
		res []engine.Row
	)

	dec.DisallowUnknownFields()

	for {
		var row T

		err := dec.Decode(&row)

		if errors.Is(err, io.EOF) {
			return res, nil
		}

		if err != nil {
			return nil, fmt.Errorf("failed to decode row %d: %w", len(res), err)
		}

		res = append(res, row)
	}
}
