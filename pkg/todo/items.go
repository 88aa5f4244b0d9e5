package todo

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ItemsOptions configures a collection. JWT and UserID scope every remote
// call; Operator serves the four mutating capabilities.
type ItemsOptions struct {
	JWT      string
	UserID   int64
	Operator ItemOperator
}

// Items owns the pending and done partitions of one user's todos and
// mediates every mutation through the remote capability set. After each
// successful call it swaps both partitions for the set the service returned,
// so the partitions never drift from the authoritative state.
//
// The lock guards the slice swap only. Two operations in flight at once
// still race for which result lands last; the service's full-set contract
// keeps either outcome consistent.
type Items struct {
	mux     sync.RWMutex
	jwt     string
	userID  int64
	ops     ItemOperator
	pending []*Todo
	done    []*Todo
}

// NewItems builds an empty collection. Populate hydrates it.
func NewItems(options ItemsOptions) *Items {
	return &Items{
		jwt:    options.JWT,
		userID: options.UserID,
		ops:    options.Operator,
	}
}

// Pending returns a copy of the unfinished partition.
func (it *Items) Pending() []*Todo {
	it.mux.RLock()
	defer it.mux.RUnlock()

	return append([]*Todo(nil), it.pending...)
}

// Done returns a copy of the finished partition.
func (it *Items) Done() []*Todo {
	it.mux.RLock()
	defer it.mux.RUnlock()

	return append([]*Todo(nil), it.done...)
}

// Populate hydrates the collection from the get capability. On failure the
// partitions are left exactly as they were and the remote message is
// returned in the envelope.
func (it *Items) Populate(ctx context.Context, getter ItemGetter, userID int64, cutOff time.Time) EmptyResponse {
	resp, err := getter.GetItems(ctx, it.jwt, userID, cutOff)
	if err != nil {
		return Fail(err.Error())
	}

	todos, err := it.handleResponse(resp)
	if err != nil {
		return Fail(err.Error())
	}

	it.process(todos)

	return OK()
}

// dispatch translates one (todo, operation) pair into exactly one capability
// call, then replaces the collection state with the result. It is the
// trigger bound to every todo the collection owns.
func (it *Items) dispatch(ctx context.Context, t *Todo, op Operation) error {
	var resp *ToDoResponse
	var err error

	switch op := op.(type) {
	case Complete:
		resp, err = it.ops.CompleteItem(ctx, it.jwt, it.userID, t.ID, op.CutOff)
	case Delete:
		resp, err = it.ops.DeleteItem(ctx, it.jwt, it.userID, t.ID, op.CutOff)
	case Create:
		resp, err = it.ops.CreateItem(ctx, it.jwt, it.userID, t.asNew(), op.CutOff)
	case Reassign:
		resp, err = it.ops.ReassignItem(ctx, it.jwt, it.userID, t.ID, op.NewAssignee, op.CutOff)
	default:
		return fmt.Errorf("unsupported operation %T", op)
	}

	if err != nil {
		return err
	}

	todos, err := it.handleResponse(resp)
	if err != nil {
		return err
	}

	it.process(todos)

	return nil
}

// handleResponse is the single success gate for the envelope.
func (it *Items) handleResponse(resp *ToDoResponse) ([]*Todo, error) {
	if resp.Failed() {
		return nil, fmt.Errorf("todo operation failed: %s", resp.ErrorMessage)
	}

	return resp.ToDos, nil
}

// process partitions the returned set on the finished flag and takes
// ownership of every element by rebinding its trigger. Both partitions are
// replaced wholesale.
func (it *Items) process(todos []*Todo) {
	var pending, done []*Todo

	for _, t := range todos {
		t.Bind(it.dispatch)

		if t.Finished {
			done = append(done, t)
		} else {
			pending = append(pending, t)
		}
	}

	it.mux.Lock()
	it.pending = pending
	it.done = done
	it.mux.Unlock()
}

func (t *Todo) asNew() NewTodo {
	n := NewTodo{
		Name:        t.Name,
		DueDate:     t.DueDate,
		AssignedBy:  t.AssignedBy,
		AssignedTo:  t.AssignedTo,
		Description: t.Description,
	}

	if !t.DateAssigned.IsZero() {
		d := t.DateAssigned
		n.DateAssigned = &d
	}

	return n
}
