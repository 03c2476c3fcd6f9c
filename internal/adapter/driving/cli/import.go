package cli

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/credstash/internal/adapter/driven/legacy"
	"github.com/ericfisherdev/credstash/internal/domain/model"
)

type importResult struct {
	Imported   int         `json:"imported"`
	Collisions []int       `json:"collisions,omitempty"`
	Remapped   map[int]int `json:"remapped,omitempty"`
}

// NewImportCommand creates the import command.
func NewImportCommand(app *App, opts *RootOptions) *cobra.Command {
	var remap bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Merge records from a plaintext JSON file",
		Long: `Merge records from a plaintext JSON array of objects with the keys name,
link, login, email, password, other_data, codes and id.

By default foreign ids are kept as they are, even when they collide with
existing records; the colliding ids are reported. --remap assigns fresh ids
to imported records whose id is missing or already taken.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := legacy.ParseFile(args[0])
			if err != nil {
				if errors.Is(err, legacy.ErrInvalidLegacy) {
					return WrapExitError(ExitCommandError, "import", err)
				}
				return WrapExitError(ExitFailure, "import", err)
			}
			if err := app.Unlock(cmd.Context()); err != nil {
				return err
			}
			return runImport(cmd, app, opts, records, remap)
		},
	}

	cmd.Flags().BoolVar(&remap, "remap", false, "Assign fresh ids to colliding or missing ids")

	return cmd
}

func runImport(cmd *cobra.Command, app *App, opts *RootOptions, records []model.Record, remap bool) error {
	// Persist the current state first so a failed import leaves it intact.
	if err := app.Save(); err != nil {
		return err
	}

	result := importResult{Imported: len(records)}
	var err error
	if remap {
		result.Remapped, err = app.Store.ImportLegacyRemapped(records)
	} else {
		result.Collisions, err = app.Store.ImportLegacy(records)
	}
	if err != nil {
		return classify("import", err)
	}

	if err := app.Save(); err != nil {
		return err
	}
	for _, id := range result.Collisions {
		app.Logger.Warn("imported record shares an existing id", "id", id)
	}
	app.Logger.Info("records imported", "count", len(records), "remapped", len(result.Remapped))
	app.Record(cmd.Context(), model.AuditActionImport, nil, "count="+strconv.Itoa(len(records)))

	return formatter(cmd, opts).Success(result, func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, "Imported %d records\n", result.Imported); err != nil {
			return err
		}
		for _, id := range result.Collisions {
			if _, err := fmt.Fprintf(w, "warning: id %d is now used by more than one record\n", id); err != nil {
				return err
			}
		}
		for _, oldID := range slices.Sorted(maps.Keys(result.Remapped)) {
			if _, err := fmt.Fprintf(w, "id %d imported as %d\n", oldID, result.Remapped[oldID]); err != nil {
				return err
			}
		}
		return nil
	})
}
