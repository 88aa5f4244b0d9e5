package todo

import (
	"context"
	"time"
)

// TriggerFunc is called when a todo asks its owning collection to run an
// operation on its behalf. It is bound by the collection, never by callers.
type TriggerFunc func(ctx context.Context, t *Todo, op Operation) error

// Todo is a single assignable task. The remote service is the source of
// truth: a collection never edits a todo in place, it swaps in the fresh
// copies each call returns.
type Todo struct {
	ID           int64      `json:"id" mapstructure:"id" gorm:"primaryKey"`
	Name         string     `json:"name" mapstructure:"name"`
	DueDate      *time.Time `json:"due_date,omitempty" mapstructure:"due_date"`
	AssignedBy   int64      `json:"assigned_by" mapstructure:"assigned_by" gorm:"index"`
	AssignedTo   int64      `json:"assigned_to" mapstructure:"assigned_to" gorm:"index"`
	Description  string     `json:"description,omitempty" mapstructure:"description"`
	DateAssigned time.Time  `json:"date_assigned" mapstructure:"date_assigned"`
	DateFinished *time.Time `json:"date_finished,omitempty" mapstructure:"date_finished"`
	Finished     bool       `json:"finished" mapstructure:"finished"`

	trigger TriggerFunc
}

// NewTodo is the creation schema. The service assigns the id and stamps
// date_assigned when the caller leaves it zero.
type NewTodo struct {
	Name         string     `json:"name"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	AssignedBy   int64      `json:"assigned_by"`
	AssignedTo   int64      `json:"assigned_to"`
	Description  string     `json:"description,omitempty"`
	DateAssigned *time.Time `json:"date_assigned,omitempty"`
}

// Bind attaches the trigger used by Perform. A collection rebinds every todo
// it takes ownership of; passing nil detaches it.
func (t *Todo) Bind(fn TriggerFunc) {
	t.trigger = fn
}

// Perform forwards the operation to the owning collection. A todo with no
// bound trigger is not an error: the call is a no-op.
func (t *Todo) Perform(ctx context.Context, op Operation) error {
	if t.trigger == nil {
		return nil
	}

	return t.trigger(ctx, t, op)
}
