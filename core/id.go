package core

import (
	"github.com/google/uuid"

	"pkt.systems/jove/schema"
)

func newExecutionID() schema.ExecutionID {
	return schema.ExecutionID(uuid.NewString())
}
