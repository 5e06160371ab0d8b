package ajax

import "fmt"

// NATS subject constants and helpers.
const (
	// SubjectBatches is the wildcard subscription matching every batch.
	SubjectBatches = "e107.ajax.batch.>"
)

// SubjectBatch is the subject batches for the named action are published on.
func SubjectBatch(action string) string {
	return fmt.Sprintf("e107.ajax.batch.%s", action)
}
