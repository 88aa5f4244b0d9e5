package todo

import "time"

// Operation is a requested mutation on a todo. It is a closed set: the
// dispatcher type-switches over the four kinds and rejects anything else, so
// a new kind cannot ship without a matching dispatch arm.
type Operation interface {
	isOperation()
}

// Complete marks the target todo finished.
type Complete struct {
	CutOff time.Time
}

// Create submits the target todo to the service. The todo itself carries the
// data; Create only scopes the call.
type Create struct {
	CutOff time.Time
}

// Delete removes the target todo.
type Delete struct {
	CutOff time.Time
}

// Reassign moves the target todo to another user.
type Reassign struct {
	NewAssignee int64
	CutOff      time.Time
}

func (Complete) isOperation() {}
func (Create) isOperation()   {}
func (Delete) isOperation()   {}
func (Reassign) isOperation() {}
