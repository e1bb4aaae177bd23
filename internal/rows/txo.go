package rows

// TxoAda is a transaction output paying ada to a staked address.
type TxoAda struct {
	StakeAddress []byte
	Slot         int64
	TxnIndex     int16
	TxoIndex     int16
	Address      string
	Value        int64
	TxnHash      []byte
}

func (r TxoAda) Values() ([]any, error) {
	if err := firstError(
		checkSize("stake address", r.StakeAddress, StakeAddressSize),
		checkSize("txn hash", r.TxnHash, TxnHashSize),
		checkNonNegative("slot", r.Slot),
		checkNonNegative("value", r.Value),
	); err != nil {
		return nil, err
	}

	return []any{r.StakeAddress, r.Slot, r.TxnIndex, r.TxoIndex, r.Address, r.Value, r.TxnHash}, nil
}

// TxoAsset is a native asset carried by a staked output.
type TxoAsset struct {
	StakeAddress []byte
	Slot         int64
	TxnIndex     int16
	TxoIndex     int16
	PolicyID     []byte
	AssetName    []byte
	Value        int64
}

func (r TxoAsset) Values() ([]any, error) {
	if err := firstError(
		checkSize("stake address", r.StakeAddress, StakeAddressSize),
		checkSize("policy id", r.PolicyID, PolicyIDSize),
		checkNonNegative("slot", r.Slot),
	); err != nil {
		return nil, err
	}

	return []any{r.StakeAddress, r.Slot, r.TxnIndex, r.TxoIndex, r.PolicyID, r.AssetName, r.Value}, nil
}

// UnstakedTxoAda is an output to an address without a stake credential. It is
// keyed by the transaction that created it.
type UnstakedTxoAda struct {
	TxnHash  []byte
	TxoIndex int16
	Slot     int64
	TxnIndex int16
	Address  string
	Value    int64
}

func (r UnstakedTxoAda) Values() ([]any, error) {
	if err := firstError(
		checkSize("txn hash", r.TxnHash, TxnHashSize),
		checkNonNegative("slot", r.Slot),
		checkNonNegative("value", r.Value),
	); err != nil {
		return nil, err
	}

	return []any{r.TxnHash, r.TxoIndex, r.Slot, r.TxnIndex, r.Address, r.Value}, nil
}

type UnstakedTxoAsset struct {
	TxnHash   []byte
	TxoIndex  int16
	PolicyID  []byte
	AssetName []byte
	Slot      int64
	TxnIndex  int16
	Value     int64
}

func (r UnstakedTxoAsset) Values() ([]any, error) {
	if err := firstError(
		checkSize("txn hash", r.TxnHash, TxnHashSize),
		checkSize("policy id", r.PolicyID, PolicyIDSize),
		checkNonNegative("slot", r.Slot),
	); err != nil {
		return nil, err
	}

	return []any{r.TxnHash, r.TxoIndex, r.PolicyID, r.AssetName, r.Slot, r.TxnIndex, r.Value}, nil
}

// TxoSpent marks a staked output as spent at SpentSlot.
type TxoSpent struct {
	StakeAddress []byte
	TxnIndex     int16
	TxoIndex     int16
	Slot         int64
	SpentSlot    int64
}

func (r TxoSpent) Values() ([]any, error) {
	if err := firstError(
		checkSize("stake address", r.StakeAddress, StakeAddressSize),
		checkNonNegative("slot", r.Slot),
		checkNonNegative("spent slot", r.SpentSlot),
	); err != nil {
		return nil, err
	}

	return []any{r.SpentSlot, r.StakeAddress, r.TxnIndex, r.TxoIndex, r.Slot}, nil
}

// Txi is a transaction input, referencing the output it spends.
type Txi struct {
	TxnHash  []byte
	TxoIndex int16
	Slot     int64
}

func (r Txi) Values() ([]any, error) {
	if err := firstError(
		checkSize("txn hash", r.TxnHash, TxnHashSize),
		checkNonNegative("slot", r.Slot),
	); err != nil {
		return nil, err
	}

	return []any{r.TxnHash, r.TxoIndex, r.Slot}, nil
}
