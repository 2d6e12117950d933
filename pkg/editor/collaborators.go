package editor

import (
	"context"

	"github.com/mattsolo1/grove-blockbook/pkg/store"
)

// Saver durably stores a snapshot. *persistence.Persister implements it.
type Saver interface {
	Save(ctx context.Context, s *store.State) error
}

// Prompter asks the user for a file name. ok is false when the prompt was
// cancelled.
type Prompter interface {
	Prompt(message, initial string) (answer string, ok bool)
}

// Notifier shows a blocking message to the user.
type Notifier interface {
	Notify(message string)
}

// PromptFunc adapts a function to Prompter.
type PromptFunc func(message, initial string) (string, bool)

func (f PromptFunc) Prompt(message, initial string) (string, bool) { return f(message, initial) }

// NotifyFunc adapts a function to Notifier.
type NotifyFunc func(message string)

func (f NotifyFunc) Notify(message string) { f(message) }

type cancelPrompter struct{}

func (cancelPrompter) Prompt(string, string) (string, bool) { return "", false }

type discardSaver struct{}

func (discardSaver) Save(context.Context, *store.State) error { return nil }
