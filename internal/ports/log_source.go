package ports

import "context"

// LogSource lists scan logs oldest first and reads their complete lines.
type LogSource interface {
	List(ctx context.Context) ([]string, error)
	ReadLines(ctx context.Context, name string) ([]string, error)
}
