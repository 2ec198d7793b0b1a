package workflow

import "context"

const (
	PromptConfirm = "Are you sure you want to confirm this ticket? This action cannot be undone."
	PromptCancel  = "Are you sure you want to cancel this ticket? This action cannot be undone."
)

// Confirmer asks the user to approve an irreversible action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// Approved is a Confirmer for callers that already collected the approval.
var Approved = ConfirmFunc(func(context.Context, string) bool { return true })
