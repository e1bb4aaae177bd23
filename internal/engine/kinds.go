package engine

import (
	"fmt"

	"github.com/samber/lo"
)

// BulkInsertKind identifies a statement that is written through a BatchFamily.
type BulkInsertKind int

const (
	TxoAdaInsert BulkInsertKind = iota
	TxoAssetInsert
	UnstakedTxoAdaInsert
	UnstakedTxoAssetInsert
	TxiInsert
	StakeRegistrationInsert
	Cip36RegistrationInsert
	Cip36RegistrationInsertError
	Cip36RegistrationForVoteKeyInsert
	TxoSpentUpdate
	numBulkInsertKinds
)

var bulkInsertKindNames = [numBulkInsertKinds]string{
	TxoAdaInsert:                      "txo_ada_insert",
	TxoAssetInsert:                    "txo_asset_insert",
	UnstakedTxoAdaInsert:              "unstaked_txo_ada_insert",
	UnstakedTxoAssetInsert:            "unstaked_txo_asset_insert",
	TxiInsert:                         "txi_insert",
	StakeRegistrationInsert:           "stake_registration_insert",
	Cip36RegistrationInsert:           "cip36_registration_insert",
	Cip36RegistrationInsertError:      "cip36_registration_insert_error",
	Cip36RegistrationForVoteKeyInsert: "cip36_registration_for_vote_key_insert",
	TxoSpentUpdate:                    "txo_spent_update",
}

func (k BulkInsertKind) String() string {
	if k < 0 || k >= numBulkInsertKinds {
		return fmt.Sprintf("BulkInsertKind(%d)", int(k))
	}

	return bulkInsertKindNames[k]
}

// SelectKind identifies a prepared SELECT returning a row stream.
type SelectKind int

const (
	TxoByStakeAddress SelectKind = iota
	TxiByTransactionHash
	RegistrationFromStakeAddr
	InvalidRegistrationsFromStakeAddr
	StakeAddrFromStakeHash
	StakeAddrFromVoteKey
	numSelectKinds
)

var selectKindNames = [numSelectKinds]string{
	TxoByStakeAddress:                 "txo_by_stake_address",
	TxiByTransactionHash:              "txi_by_transaction_hash",
	RegistrationFromStakeAddr:         "registration_from_stake_addr",
	InvalidRegistrationsFromStakeAddr: "invalid_registrations_from_stake_addr",
	StakeAddrFromStakeHash:            "stake_addr_from_stake_hash",
	StakeAddrFromVoteKey:              "stake_addr_from_vote_key",
}

func (k SelectKind) String() string {
	if k < 0 || k >= numSelectKinds {
		return fmt.Sprintf("SelectKind(%d)", int(k))
	}

	return selectKindNames[k]
}

// UpsertKind identifies a prepared single-row write.
type UpsertKind int

const (
	SyncStatusInsert UpsertKind = iota
	numUpsertKinds
)

var upsertKindNames = [numUpsertKinds]string{
	SyncStatusInsert: "sync_status_insert",
}

func (k UpsertKind) String() string {
	if k < 0 || k >= numUpsertKinds {
		return fmt.Sprintf("UpsertKind(%d)", int(k))
	}

	return upsertKindNames[k]
}

func BulkInsertKinds() []BulkInsertKind {
	var res = make([]BulkInsertKind, numBulkInsertKinds)

	for i := range res {
		res[i] = BulkInsertKind(i)
	}

	return res
}

func SelectKinds() []SelectKind {
	var res = make([]SelectKind, numSelectKinds)

	for i := range res {
		res[i] = SelectKind(i)
	}

	return res
}

func UpsertKinds() []UpsertKind {
	var res = make([]UpsertKind, numUpsertKinds)

	for i := range res {
		res[i] = UpsertKind(i)
	}

	return res
}

// KindNames returns the names of every statement the engine knows, bulk inserts
// first, then selects, then upserts.
func KindNames() []string {
	var res = make([]string, 0, int(numBulkInsertKinds)+int(numSelectKinds)+int(numUpsertKinds))
	res = append(res, bulkInsertKindNames[:]...)
	res = append(res, selectKindNames[:]...)
	res = append(res, upsertKindNames[:]...)
	return res
}

func isKnownKind(name string) bool {
	return lo.Contains(KindNames(), name)
}

func ParseBulkInsertKind(name string) (BulkInsertKind, error) {
	var i = lo.IndexOf(bulkInsertKindNames[:], name)

	if i < 0 {
		return 0, fmt.Errorf("unknown bulk insert kind %q", name)
	}

	return BulkInsertKind(i), nil
}

func ParseSelectKind(name string) (SelectKind, error) {
	var i = lo.IndexOf(selectKindNames[:], name)

	if i < 0 {
		return 0, fmt.Errorf("unknown select kind %q", name)
	}

	return SelectKind(i), nil
}

func ParseUpsertKind(name string) (UpsertKind, error) {
	var i = lo.IndexOf(upsertKindNames[:], name)

	if i < 0 {
		return 0, fmt.Errorf("unknown upsert kind %q", name)
	}

	return UpsertKind(i), nil
}
