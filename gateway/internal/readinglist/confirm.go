package readinglist

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Astemirdum/bookshelf/gateway/internal/model"
)

// State of the destructive-action gate:
// Idle -> ConfirmPending -> Idle (cancel) or Executing -> Idle (confirm, whatever the outcome).
type State string

const (
	StateIdle           State = "idle"
	StateConfirmPending State = "confirm_pending"
	StateExecuting      State = "executing"
)

type Action string

const (
	ActionDeleteList Action = "delete_list"
	ActionRemoveBook Action = "remove_book"
)

// Confirmation describes a destructive action waiting for the user's answer.
type Confirmation struct {
	ID      string `json:"id"`
	Action  Action `json:"action"`
	ListID  string `json:"listId"`
	BookID  string `json:"bookId,omitempty"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Outcome of a confirmed action. Detail is the reloaded list after a book removal.
type Outcome struct {
	Action Action                   `json:"action"`
	ListID string                   `json:"listId"`
	Detail *model.ReadingListDetail `json:"detail,omitempty"`
}

func deleteListConfirmation(listID, name string) Confirmation {
	return Confirmation{
		ID:      uuid.NewString(),
		Action:  ActionDeleteList,
		ListID:  listID,
		Title:   "Delete reading list",
		Message: fmt.Sprintf("Delete %q? The list and its book selection are removed permanently.", name),
	}
}

func removeBookConfirmation(listID, name, bookID string) Confirmation {
	return Confirmation{
		ID:      uuid.NewString(),
		Action:  ActionRemoveBook,
		ListID:  listID,
		BookID:  bookID,
		Title:   "Remove book",
		Message: fmt.Sprintf("Remove this book from %q?", name),
	}
}
