/*
Package anchor mirrors the saved aggregated operations to IPFS and records
their digests in a ledger.

Every saved operation is serialized to JSON and uploaded to an S3 compatible
IPFS gateway under its document name.  The CID returned by the gateway is
appended to a Queue.  When the queue holds BatchSize*3 references, the list of
references is uploaded as a document of its own, the queue is cleared, and the
CID of that list (the root) is deposited in the ledger.

Anchoring is best effort: a failure is reported to the caller but never
affects the eth tx that was already saved.
*/
package anchor

import (
	"context"
	"encoding/json"
	"fmt"

	"rollup-l1-sender/common"
	"rollup-l1-sender/log"
	"rollup-l1-sender/metric"
)

// queueRefsPerBatch is the number of references of each anchoring batch: one
// per action type
const queueRefsPerBatch = 3

// Publisher stores documents and returns a content reference to them
type Publisher interface {
	Put(ctx context.Context, name string, body []byte) (string, error)
}

// Ledger records anchoring roots
type Ledger interface {
	Deposit(ctx context.Context, root string) error
}

// Anchorer anchors saved operations
type Anchorer struct {
	publisher Publisher
	ledger    Ledger
	batchSize int
}

// NewAnchorer creates a new Anchorer.  The queue is flushed every
// batchSize*3 references.
func NewAnchorer(publisher Publisher, ledger Ledger, batchSize int) *Anchorer {
	return &Anchorer{
		publisher: publisher,
		ledger:    ledger,
		batchSize: batchSize,
	}
}

// OperationDocument returns the JSON document of op
func OperationDocument(op common.AggregatedOperation) ([]byte, error) {
	var contents interface{}
	switch op := op.(type) {
	case *common.CommitOperation:
		contents = []interface{}{op.PrevL1Batch, op.L1Batches, op.PubdataDA}
	case *common.ProveOperation:
		contents = []interface{}{op.PrevL1Batch, op.L1Batches, op.Proofs}
	case *common.ExecuteOperation:
		contents = op.L1Batches
	default:
		return nil, common.Wrap(fmt.Errorf("unknown operation %T", op))
	}
	body, err := json.Marshal(contents)
	return body, common.Wrap(err)
}

// RootDocName returns the name of the document listing refs
func RootDocName(refs []string) string {
	return fmt.Sprintf("batch_%s_%s", refs[0], refs[len(refs)-1])
}

// Anchor uploads op and queues its reference.  When the queue is full, the
// root is uploaded and deposited in the ledger, and returned.  An empty root
// means the queue is not full yet.  If the root upload fails, the queue is
// kept and the root is retried after the next operation.
func (a *Anchorer) Anchor(ctx context.Context, op common.AggregatedOperation,
	queue *Queue) (string, error) {
	body, err := OperationDocument(op)
	if err != nil {
		return "", common.Wrap(err)
	}
	name := common.OperationDocName(op)
	ref, err := a.publisher.Put(ctx, name, body)
	if err != nil {
		metric.AnchorErrors.WithLabelValues("operation").Inc()
		return "", common.Wrap(err)
	}
	queue.Push(ref)
	log.Infow("Anchor: operation uploaded", "name", name, "cid", ref, "queued", queue.Len())

	if queue.Len() < a.batchSize*queueRefsPerBatch {
		return "", nil
	}
	refs := queue.Refs()
	listBody, err := json.Marshal(refs)
	if err != nil {
		return "", common.Wrap(err)
	}
	title := RootDocName(refs)
	root, err := a.publisher.Put(ctx, title, listBody)
	if err != nil {
		metric.AnchorErrors.WithLabelValues("root").Inc()
		return "", common.Wrap(err)
	}
	queue.Clear()
	log.Infow("Anchor: root uploaded", "name", title, "cid", root)

	if err := a.ledger.Deposit(ctx, root); err != nil {
		metric.AnchorErrors.WithLabelValues("ledger").Inc()
		return root, common.Wrap(err)
	}
	metric.AnchorRoots.Inc()
	return root, nil
}
