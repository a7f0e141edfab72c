package schema

// OutputEvent signals that an execution's output sequence changed.
// Subscribers re-query the execution snapshot; the event carries no
// payload beyond the identity.
type OutputEvent struct {
	ExecutionID ExecutionID
}

// StatusEvent signals that an execution's status changed.
type StatusEvent struct {
	ExecutionID ExecutionID
	Status      ExecutionStatus
}
