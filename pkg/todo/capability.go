package todo

import (
	"context"
	"time"
)

// The remote service is split into one capability per verb so a collection
// (or a test fake) only has to implement the calls it actually makes. Every
// call is scoped by a caller-supplied jwt and a cutoff date; the contract is
// that each returns the complete current set for the user as of the cutoff,
// never a delta. The error return is transport failure only; remote
// rejections travel in the envelope.

type ItemGetter interface {
	GetItems(ctx context.Context, jwt string, userID int64, cutOff time.Time) (*ToDoResponse, error)
}

type ItemCompleter interface {
	CompleteItem(ctx context.Context, jwt string, userID, todoID int64, cutOff time.Time) (*ToDoResponse, error)
}

type ItemDeleter interface {
	DeleteItem(ctx context.Context, jwt string, userID, todoID int64, cutOff time.Time) (*ToDoResponse, error)
}

type ItemCreator interface {
	CreateItem(ctx context.Context, jwt string, userID int64, item NewTodo, cutOff time.Time) (*ToDoResponse, error)
}

type ItemReassigner interface {
	ReassignItem(ctx context.Context, jwt string, userID, todoID, newUserID int64, cutOff time.Time) (*ToDoResponse, error)
}

// ItemOperator is the mutating capability set an Items collection dispatches
// against.
type ItemOperator interface {
	ItemCompleter
	ItemDeleter
	ItemCreator
	ItemReassigner
}
