package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/timada-org/taskhub/internal/store"
	"github.com/timada-org/taskhub/pkg/todo"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.Open(":memory:")
	require.NoError(t, err)

	return s
}

func TestStore(t *testing.T) {
	cutOff := time.Now().UTC().Add(time.Hour)

	t.Run("create assigns id and date", func(t *testing.T) {
		s := newStore(t)

		created, err := s.Create(todo.NewTodo{Name: "write report", AssignedBy: 1, AssignedTo: 2})
		require.NoError(t, err)
		require.NotZero(t, created.ID)
		require.False(t, created.DateAssigned.IsZero())
		require.False(t, created.Finished)
	})

	t.Run("for user filters by assignee and cutoff", func(t *testing.T) {
		s := newStore(t)

		_, err := s.Create(todo.NewTodo{Name: "mine", AssignedBy: 1, AssignedTo: 2})
		require.NoError(t, err)
		_, err = s.Create(todo.NewTodo{Name: "someone else's", AssignedBy: 1, AssignedTo: 3})
		require.NoError(t, err)

		future := time.Now().UTC().Add(48 * time.Hour)
		_, err = s.Create(todo.NewTodo{Name: "assigned later", AssignedBy: 1, AssignedTo: 2, DateAssigned: &future})
		require.NoError(t, err)

		todos, err := s.ForUser(2, cutOff)
		require.NoError(t, err)
		require.Len(t, todos, 1)
		require.Equal(t, "mine", todos[0].Name)
	})

	t.Run("complete stamps date finished", func(t *testing.T) {
		s := newStore(t)

		created, err := s.Create(todo.NewTodo{Name: "write report", AssignedBy: 1, AssignedTo: 2})
		require.NoError(t, err)

		completed, err := s.Complete(2, created.ID)
		require.NoError(t, err)
		require.True(t, completed.Finished)
		require.NotNil(t, completed.DateFinished)
	})

	t.Run("reassign moves the todo", func(t *testing.T) {
		s := newStore(t)

		created, err := s.Create(todo.NewTodo{Name: "write report", AssignedBy: 1, AssignedTo: 2})
		require.NoError(t, err)

		_, err = s.Reassign(2, created.ID, 9)
		require.NoError(t, err)

		old, err := s.ForUser(2, cutOff)
		require.NoError(t, err)
		require.Empty(t, old)

		moved, err := s.ForUser(9, cutOff)
		require.NoError(t, err)
		require.Len(t, moved, 1)
	})

	t.Run("delete removes the todo", func(t *testing.T) {
		s := newStore(t)

		created, err := s.Create(todo.NewTodo{Name: "write report", AssignedBy: 1, AssignedTo: 2})
		require.NoError(t, err)

		require.NoError(t, s.Delete(2, created.ID))

		todos, err := s.ForUser(2, cutOff)
		require.NoError(t, err)
		require.Empty(t, todos)
	})

	t.Run("mutations are scoped to the assignee", func(t *testing.T) {
		s := newStore(t)

		created, err := s.Create(todo.NewTodo{Name: "write report", AssignedBy: 1, AssignedTo: 2})
		require.NoError(t, err)

		_, err = s.Complete(3, created.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
		require.ErrorIs(t, s.Delete(3, created.ID), store.ErrNotFound)
	})
}
