package rows

import (
	"context"
	"fmt"

	"github.com/agnosticeng/chain-index/internal/engine"
)

// Lookup runs the select of kind with keys as parameters and returns every row
// it yields, decoded into the row type of kind. Only the txi lookup takes more
// than one key.
func Lookup(ctx context.Context, eng *engine.Engine, kind engine.SelectKind, keys [][]byte) (any, error) {
	if kind != engine.TxiByTransactionHash && len(keys) != 1 {
		return nil, fmt.Errorf("%s takes exactly one key, got %d", kind, len(keys))
	}

	if len(keys) == 0 {
		return nil, fmt.Errorf("%s takes at least one key", kind)
	}

	switch kind {
	case engine.TxoByStakeAddress:
		return selectAll(ctx, eng, kind, StakeAddressParams{StakeAddress: keys[0]}, ScanTxoByStakeAddress)
	case engine.TxiByTransactionHash:
		return selectAll(ctx, eng, kind, TxnHashesParams{TxnHashes: keys}, ScanTxiByTxnHash)
	case engine.RegistrationFromStakeAddr:
		return selectAll(ctx, eng, kind, StakeAddressParams{StakeAddress: keys[0]}, ScanCip36Registration)
	case engine.InvalidRegistrationsFromStakeAddr:
		return selectAll(ctx, eng, kind, StakeAddressParams{StakeAddress: keys[0]}, ScanCip36InvalidRegistration)
	case engine.StakeAddrFromStakeHash:
		return selectAll(ctx, eng, kind, StakeHashParams{StakeHash: keys[0]}, ScanStakeAddress)
	case engine.StakeAddrFromVoteKey:
		return selectAll(ctx, eng, kind, VoteKeyParams{VoteKey: keys[0]}, ScanStakeAddress)
	default:
		return nil, fmt.Errorf("unknown select kind %d", int(kind))
	}
}

func selectAll[T any](
	ctx context.Context,
	eng *engine.Engine,
	kind engine.SelectKind,
	params engine.Row,
	scan func(engine.RowStream) (T, error),
) ([]T, error) {
	stream, err := eng.Select(ctx, kind, params)

	if err != nil {
		return nil, err
	}

	return engine.Drain(stream, scan)
}
