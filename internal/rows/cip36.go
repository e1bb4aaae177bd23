package rows

// Cip36Registration is a valid voting key registration.
type Cip36Registration struct {
	StakeAddress   []byte
	Nonce          int64
	Slot           int64
	TxnIndex       int16
	VoteKey        []byte
	PaymentAddress []byte
	IsPayable      bool
	Cip36          bool
}

func (r Cip36Registration) Values() ([]any, error) {
	if err := firstError(
		checkNotEmpty("stake address", r.StakeAddress),
		checkNotEmpty("vote key", r.VoteKey),
		checkNonNegative("nonce", r.Nonce),
		checkNonNegative("slot", r.Slot),
	); err != nil {
		return nil, err
	}

	return []any{
		r.StakeAddress,
		r.Nonce,
		r.Slot,
		r.TxnIndex,
		r.VoteKey,
		r.PaymentAddress,
		r.IsPayable,
		r.Cip36,
	}, nil
}

// Cip36InvalidRegistration is a registration that failed validation, kept with
// the list of problems found.
type Cip36InvalidRegistration struct {
	StakeAddress   []byte
	Slot           int64
	TxnIndex       int16
	VoteKey        []byte
	PaymentAddress []byte
	IsPayable      bool
	Cip36          bool
	Problems       []string
}

func (r Cip36InvalidRegistration) Values() ([]any, error) {
	if err := checkNonNegative("slot", r.Slot); err != nil {
		return nil, err
	}

	return []any{
		r.StakeAddress,
		r.Slot,
		r.TxnIndex,
		r.VoteKey,
		r.PaymentAddress,
		r.IsPayable,
		r.Cip36,
		r.Problems,
	}, nil
}

// Cip36ForVoteKey indexes a registration by its vote key.
type Cip36ForVoteKey struct {
	VoteKey      []byte
	StakeAddress []byte
	Slot         int64
	TxnIndex     int16
	Valid        bool
}

func (r Cip36ForVoteKey) Values() ([]any, error) {
	if err := firstError(
		checkNotEmpty("vote key", r.VoteKey),
		checkNonNegative("slot", r.Slot),
	); err != nil {
		return nil, err
	}

	return []any{r.VoteKey, r.StakeAddress, r.Slot, r.TxnIndex, r.Valid}, nil
}
