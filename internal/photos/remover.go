package photos

import "context"

// NopRemover satisfies PhotoRemover when no storage bucket is configured.
// Photo rows are still archived and swept; only the remote delete is skipped.
type NopRemover struct{}

func (NopRemover) Remove(context.Context, string) error { return nil }
