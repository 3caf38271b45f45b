package report

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/chainguard-dev/clog"
	"github.com/google/osv-scanner/pkg/models"
	"github.com/spf13/afero"

	"github.com/lockaudit/lockaudit/pkg/advisory"
)

// OSVOptions contains the options for building an OSV dataset.
type OSVOptions struct {
	// Store is the loaded advisory data to export.
	Store *advisory.Store

	// OutputDirectory is the path to a local directory in which the generated
	// OSV dataset will be written.
	OutputDirectory string
}

// BuildOSVDataset exports the store as an OSV dataset: one "{ID}.json" file
// per advisory, plus an "all.json" index listing each advisory's ID and
// modified time, the shape OSV mirrors expect.
func BuildOSVDataset(ctx context.Context, fsys afero.Fs, opts OSVOptions) error {
	entries := make(map[string]models.Vulnerability)
	for _, adv := range opts.Store.Advisories() {
		entries[adv.ID] = OSV(adv)
	}

	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if err := fsys.MkdirAll(opts.OutputDirectory, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	all := []models.Vulnerability{}
	for _, id := range ids {
		entry := entries[id]

		// for the all.json we just need the id and modified date
		all = append(all, models.Vulnerability{
			ID:       entry.ID,
			Modified: entry.Modified,
		})

		data, err := json.MarshalIndent(entry, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling OSV entry %s: %w", id, err)
		}

		path := filepath.Join(opts.OutputDirectory, fmt.Sprintf("%s.json", id))
		if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
			return fmt.Errorf("writing OSV entry %s: %w", id, err)
		}
	}

	allData, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("marshaling all.json index: %w", err)
	}
	if err := afero.WriteFile(fsys, filepath.Join(opts.OutputDirectory, "all.json"), allData, 0o644); err != nil {
		return fmt.Errorf("writing all.json index: %w", err)
	}

	clog.FromContext(ctx).Debugf("wrote OSV dataset: %d advisories to %s", len(ids), opts.OutputDirectory)

	return nil
}
