package rows

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SyncStatus records that the node identified by NodeID indexed every block
// of [StartSlot, EndSlot].
type SyncStatus struct {
	EndSlot   int64
	StartSlot int64
	SyncTime  time.Time
	NodeID    uuid.UUID
}

func NewSyncStatus(nodeID uuid.UUID, startSlot int64, endSlot int64) SyncStatus {
	return SyncStatus{
		EndSlot:   endSlot,
		StartSlot: startSlot,
		SyncTime:  time.Now().UTC(),
		NodeID:    nodeID,
	}
}

func (r SyncStatus) Values() ([]any, error) {
	if err := firstError(
		checkNonNegative("start slot", r.StartSlot),
		checkNonNegative("end slot", r.EndSlot),
	); err != nil {
		return nil, err
	}

	if r.EndSlot < r.StartSlot {
		return nil, fmt.Errorf("end slot %d is before start slot %d", r.EndSlot, r.StartSlot)
	}

	if r.NodeID == uuid.Nil {
		return nil, fmt.Errorf("node id must be set")
	}

	return []any{r.EndSlot, r.StartSlot, r.SyncTime, r.NodeID}, nil
}
