package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/timada-org/taskhub/pkg/client"
	"github.com/timada-org/taskhub/pkg/todo"
)

func TestClient(t *testing.T) {
	ctx := context.Background()
	cutOff := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)

	newServer := func(t *testing.T, method, path string, status int, out any) (*httptest.Server, *http.Request) {
		t.Helper()

		var seen http.Request

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = *r
			require.Equal(t, method, r.Method)
			require.Equal(t, path, r.URL.Path)
			require.Equal(t, "Bearer token-a", r.Header.Get("Authorization"))
			require.Equal(t, cutOff.Format(time.RFC3339), r.URL.Query().Get("cutoff"))

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(out)
		}))
		t.Cleanup(server.Close)

		return server, &seen
	}

	t.Run("get items", func(t *testing.T) {
		server, seen := newServer(t, http.MethodGet, "/api/todo/v1/items", http.StatusOK, todo.ToDoResponse{
			ToDos: []*todo.Todo{{ID: 1, Name: "write report"}},
		})

		c, err := client.New(client.ClientOptions{URL: server.URL})
		require.NoError(t, err)

		resp, err := c.GetItems(ctx, "token-a", 2, cutOff)
		require.NoError(t, err)
		require.False(t, resp.Failed())
		require.Len(t, resp.ToDos, 1)
		require.Equal(t, "2", seen.URL.Query().Get("user_id"))
	})

	t.Run("create posts the new todo", func(t *testing.T) {
		server, _ := newServer(t, http.MethodPost, "/api/todo/v1/items", http.StatusCreated, todo.ToDoResponse{
			ToDos: []*todo.Todo{{ID: 1, Name: "write report"}},
		})

		c, err := client.New(client.ClientOptions{URL: server.URL})
		require.NoError(t, err)

		resp, err := c.CreateItem(ctx, "token-a", 2, todo.NewTodo{Name: "write report", AssignedBy: 1, AssignedTo: 2}, cutOff)
		require.NoError(t, err)
		require.Len(t, resp.ToDos, 1)
	})

	t.Run("complete hits the item path", func(t *testing.T) {
		server, _ := newServer(t, http.MethodPost, "/api/todo/v1/items/7/complete", http.StatusOK, todo.ToDoResponse{
			ToDos: []*todo.Todo{},
		})

		c, err := client.New(client.ClientOptions{URL: server.URL})
		require.NoError(t, err)

		resp, err := c.CompleteItem(ctx, "token-a", 2, 7, cutOff)
		require.NoError(t, err)
		require.False(t, resp.Failed())
	})

	t.Run("delete uses the DELETE verb", func(t *testing.T) {
		server, _ := newServer(t, http.MethodDelete, "/api/todo/v1/items/7", http.StatusOK, todo.ToDoResponse{
			ToDos: []*todo.Todo{},
		})

		c, err := client.New(client.ClientOptions{URL: server.URL})
		require.NoError(t, err)

		_, err = c.DeleteItem(ctx, "token-a", 2, 7, cutOff)
		require.NoError(t, err)
	})

	t.Run("reassign sends the new assignee", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/todo/v1/items/7/reassign", r.URL.Path)

			var body struct {
				AssignedTo int64 `json:"assigned_to"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, int64(9), body.AssignedTo)

			_ = json.NewEncoder(w).Encode(todo.ToDoResponse{ToDos: []*todo.Todo{}})
		}))
		defer server.Close()

		c, err := client.New(client.ClientOptions{URL: server.URL})
		require.NoError(t, err)

		_, err = c.ReassignItem(ctx, "token-a", 2, 7, 9, cutOff)
		require.NoError(t, err)
	})

	t.Run("error envelope passes through", func(t *testing.T) {
		server, _ := newServer(t, http.MethodGet, "/api/todo/v1/items", http.StatusNotFound, todo.ToDoResponse{
			ErrorMessage: "not found",
		})

		c, err := client.New(client.ClientOptions{URL: server.URL})
		require.NoError(t, err)

		resp, err := c.GetItems(ctx, "token-a", 2, cutOff)
		require.NoError(t, err)
		require.True(t, resp.Failed())
		require.Equal(t, "not found", resp.ErrorMessage)
	})

	t.Run("undecodable error body becomes a transport error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Bad request.", http.StatusBadRequest)
		}))
		defer server.Close()

		c, err := client.New(client.ClientOptions{URL: server.URL})
		require.NoError(t, err)

		_, err = c.GetItems(ctx, "token-a", 2, cutOff)
		require.Error(t, err)
		require.Contains(t, err.Error(), "400")
	})

	t.Run("requires a URL", func(t *testing.T) {
		_, err := client.New(client.ClientOptions{})
		require.Error(t, err)
	})
}
