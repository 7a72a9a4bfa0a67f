package formflow

import (
	"context"

	"github.com/goliatone/go-formflow/internal/watch"
)

// WatchSchemaFile calls onReload with the re-decoded schema each time the file
// at path changes. Decode failures go to onError and leave callers on the
// previous schema. Sessions already running keep the schema they started
// with. The returned stop function ends the watch.
func WatchSchemaFile(ctx context.Context, path string, onReload func(*Schema), onError func(error)) (func() error, error) {
	w, err := watch.New(path, watch.Config{OnReload: onReload, OnError: onError})
	if err != nil {
		return nil, err
	}
	if err := w.Start(ctx); err != nil {
		_ = w.Stop()
		return nil, err
	}
	return w.Stop, nil
}
