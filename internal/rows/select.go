package rows

import (
	"github.com/agnosticeng/chain-index/internal/engine"
)

type StakeAddressParams struct {
	StakeAddress []byte
}

func (p StakeAddressParams) Values() ([]any, error) {
	if err := checkSize("stake address", p.StakeAddress, StakeAddressSize); err != nil {
		return nil, err
	}

	return []any{p.StakeAddress}, nil
}

type StakeHashParams struct {
	StakeHash []byte
}

func (p StakeHashParams) Values() ([]any, error) {
	if err := checkSize("stake hash", p.StakeHash, StakeHashSize); err != nil {
		return nil, err
	}

	return []any{p.StakeHash}, nil
}

type VoteKeyParams struct {
	VoteKey []byte
}

func (p VoteKeyParams) Values() ([]any, error) {
	if err := checkNotEmpty("vote key", p.VoteKey); err != nil {
		return nil, err
	}

	return []any{p.VoteKey}, nil
}

type TxnHashesParams struct {
	TxnHashes [][]byte
}

func (p TxnHashesParams) Values() ([]any, error) {
	for _, h := range p.TxnHashes {
		if err := checkSize("txn hash", h, TxnHashSize); err != nil {
			return nil, err
		}
	}

	return []any{p.TxnHashes}, nil
}

// TxoByStakeAddress is one output owned by a stake address. SpentSlot is nil
// while the output is unspent.
type TxoByStakeAddress struct {
	TxnHash   []byte
	TxnIndex  int16
	TxoIndex  int16
	Slot      int64
	Value     int64
	SpentSlot *int64
}

func ScanTxoByStakeAddress(stream engine.RowStream) (TxoByStakeAddress, error) {
	var (
		row TxoByStakeAddress
		err = stream.Scan(&row.TxnHash, &row.TxnIndex, &row.TxoIndex, &row.Slot, &row.Value, &row.SpentSlot)
	)

	return row, err
}

type TxiByTxnHash struct {
	TxnHash  []byte
	TxoIndex int16
	Slot     int64
}

func ScanTxiByTxnHash(stream engine.RowStream) (TxiByTxnHash, error) {
	var (
		row TxiByTxnHash
		err = stream.Scan(&row.TxnHash, &row.TxoIndex, &row.Slot)
	)

	return row, err
}

func ScanCip36Registration(stream engine.RowStream) (Cip36Registration, error) {
	var (
		row Cip36Registration
		err = stream.Scan(
			&row.StakeAddress,
			&row.Nonce,
			&row.Slot,
			&row.TxnIndex,
			&row.VoteKey,
			&row.PaymentAddress,
			&row.IsPayable,
			&row.Cip36,
		)
	)

	return row, err
}

func ScanCip36InvalidRegistration(stream engine.RowStream) (Cip36InvalidRegistration, error) {
	var (
		row Cip36InvalidRegistration
		err = stream.Scan(
			&row.StakeAddress,
			&row.Slot,
			&row.TxnIndex,
			&row.VoteKey,
			&row.PaymentAddress,
			&row.IsPayable,
			&row.Cip36,
			&row.Problems,
		)
	)

	return row, err
}

// ScanStakeAddress reads the single stake address column returned by the
// stake hash and vote key lookups.
func ScanStakeAddress(stream engine.RowStream) ([]byte, error) {
	var (
		addr []byte
		err  = stream.Scan(&addr)
	)

	return addr, err
}
