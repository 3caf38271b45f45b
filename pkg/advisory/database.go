package advisory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/afero"
)

// OpenDatabase walks root for advisory documents (".yaml" or ".yml" files,
// at any depth) and loads them into a Store. The walk is lexical, so load
// order and therefore store order is deterministic for a given tree. This
// function is the only I/O boundary of the package; everything past it
// operates on in-memory data.
func OpenDatabase(ctx context.Context, fsys afero.Fs, root string) (*Store, error) {
	log := clog.FromContext(ctx)

	var docs []Document
	err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		if ext := filepath.Ext(path); ext != ".yaml" && ext != ".yml" {
			return nil
		}

		f, err := fsys.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()

		doc, err := DecodeDocument(f)
		if err != nil {
			return &LoadError{ID: path, Err: err}
		}
		docs = append(docs, *doc)

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debugf("decoded %d advisory documents from %s", len(docs), root)

	return Load(ctx, docs)
}
