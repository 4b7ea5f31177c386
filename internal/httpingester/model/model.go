package model

import (
	"time"

	"github.com/google/uuid"
)

// Row is a single decoded record, mapping column names to values.
type Row map[string]interface{}

// Batch is one unit of tabular data decoded from a single request body.
// A batch is immutable once constructed; ownership passes from the request
// handler to the queue and on to the source generator, it is never shared
// across that boundary.
type Batch struct {
	Rows       []Row
	ReceivedAt time.Time
}

func NewBatch(rows []Row) *Batch {
	return &Batch{
		Rows:       rows,
		ReceivedAt: time.Now().UTC(),
	}
}

// NumRows returns the number of records in the batch.
func (b *Batch) NumRows() int64 {
	if b == nil {
		return 0
	}
	return int64(len(b.Rows))
}

// BatchMessage is the envelope emitted downstream for each consumed batch.
// SequenceId reflects emission order, not arrival order, and is used by
// downstream bookkeeping only.
type BatchMessage struct {
	SequenceId int64
	MessageId  string
	IngestTime time.Time
	Batch      *Batch
}

func NewBatchMessage(sequenceId int64, batch *Batch) *BatchMessage {
	return &BatchMessage{
		SequenceId: sequenceId,
		MessageId:  uuid.NewString(),
		IngestTime: time.Now().UTC(),
		Batch:      batch,
	}
}
