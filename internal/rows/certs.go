package rows

// StakeRegistration records a stake certificate found in a transaction.
type StakeRegistration struct {
	StakeHash      []byte
	Slot           int64
	TxnIndex       int16
	StakeAddress   []byte
	ScriptHash     bool
	Register       bool
	Deregister     bool
	PoolDelegation []byte
}

func (r StakeRegistration) Values() ([]any, error) {
	if err := firstError(
		checkSize("stake hash", r.StakeHash, StakeHashSize),
		checkSize("stake address", r.StakeAddress, StakeAddressSize),
		checkNonNegative("slot", r.Slot),
	); err != nil {
		return nil, err
	}

	return []any{
		r.StakeHash,
		r.Slot,
		r.TxnIndex,
		r.StakeAddress,
		r.ScriptHash,
		r.Register,
		r.Deregister,
		r.PoolDelegation,
	}, nil
}
