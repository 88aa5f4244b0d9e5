package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/timada-org/taskhub/pkg/todo"
)

// ErrNotFound is returned when a mutation targets a todo the user does not
// have.
var ErrNotFound = errors.New("store: todo not found")

// Store persists todos in sqlite through gorm.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the database at path and runs migrations. Use
// ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}

	if err := db.AutoMigrate(&todo.Todo{}); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// ForUser returns every todo assigned to the user as of the cutoff, ordered
// by id. This is the authoritative set the API returns after every call.
func (s *Store) ForUser(userID int64, cutOff time.Time) ([]*todo.Todo, error) {
	todos := []*todo.Todo{}

	err := s.db.
		Where("assigned_to = ? AND date_assigned <= ?", userID, cutOff).
		Order("id").
		Find(&todos).Error
	if err != nil {
		return nil, err
	}

	return todos, nil
}

// Create inserts a new todo. date_assigned defaults to now when the caller
// leaves it unset.
func (s *Store) Create(item todo.NewTodo) (*todo.Todo, error) {
	assigned := time.Now().UTC()
	if item.DateAssigned != nil {
		assigned = *item.DateAssigned
	}

	t := &todo.Todo{
		Name:         item.Name,
		DueDate:      item.DueDate,
		AssignedBy:   item.AssignedBy,
		AssignedTo:   item.AssignedTo,
		Description:  item.Description,
		DateAssigned: assigned,
	}

	if err := s.db.Create(t).Error; err != nil {
		return nil, err
	}

	return t, nil
}

// Complete marks the todo finished and stamps date_finished.
func (s *Store) Complete(userID, todoID int64) (*todo.Todo, error) {
	t, err := s.forUpdate(userID, todoID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	t.Finished = true
	t.DateFinished = &now

	if err := s.db.Save(t).Error; err != nil {
		return nil, err
	}

	return t, nil
}

// Delete removes the todo.
func (s *Store) Delete(userID, todoID int64) error {
	t, err := s.forUpdate(userID, todoID)
	if err != nil {
		return err
	}

	return s.db.Delete(t).Error
}

// Reassign moves the todo to another user.
func (s *Store) Reassign(userID, todoID, newUserID int64) (*todo.Todo, error) {
	t, err := s.forUpdate(userID, todoID)
	if err != nil {
		return nil, err
	}

	t.AssignedTo = newUserID

	if err := s.db.Save(t).Error; err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Store) forUpdate(userID, todoID int64) (*todo.Todo, error) {
	var t todo.Todo

	err := s.db.Where("id = ? AND assigned_to = ?", todoID, userID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}
