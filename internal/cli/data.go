package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	service "github.com/okian/raidlog/internal/app"
	"github.com/okian/raidlog/internal/seed"
)

const exportFileMode = 0o600

// ErrNotConfirmed is returned by clear without --yes.
var ErrNotConfirmed = errors.New("refusing to clear data without --yes")

func (a *app) exportCmd() *cobra.Command {
	var (
		outPath string
		toClip  bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every raid and the roster as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				data, err := svc.Export(ctx)
				if err != nil {
					return err
				}
				var buf bytes.Buffer
				if err := writeIndented(&buf, data); err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if outPath != "" {
					if err := os.WriteFile(outPath, buf.Bytes(), exportFileMode); err != nil {
						return fmt.Errorf("write export: %w", err)
					}
					fmt.Fprintf(out, "Exported %d raids to %s\n", len(data.Raids), outPath)
				}
				if toClip {
					if err := a.copy(buf.String()); err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not copy to clipboard: %v\n", err)
					} else {
						fmt.Fprintln(out, "Export copied to clipboard")
					}
				}
				if outPath == "" && !toClip {
					_, err = out.Write(buf.Bytes())
					return err
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write to this file instead of stdout")
	cmd.Flags().BoolVar(&toClip, "clipboard", false, "copy the export to the clipboard")
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Load an export, merging by default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readExport(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			return a.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				res, err := svc.Import(ctx, data, replace)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d raids (%d skipped), roster has %d teammates\n",
					res.RaidsAdded, res.RaidsSkipped, res.TeammatesTotal)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "replace existing data instead of merging")
	return cmd
}

func readExport(stdin io.Reader, path string) (service.Export, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return service.Export{}, fmt.Errorf("open import: %w", err)
		}
		defer f.Close()
		r = f
	}
	var data service.Export
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		return service.Export{}, fmt.Errorf("%w: %v", service.ErrInvalidImport, err)
	}
	return data, nil
}

func (a *app) seedCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Add randomly generated raid history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count <= 0 {
				return fmt.Errorf("--count must be positive, got %d", count)
			}
			hist := seed.New(a.seedOpts...).History(count, a.now())
			return a.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				res, err := svc.Import(ctx, hist, false)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d raids\n", res.RaidsAdded)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 50, "number of raids to generate")
	return cmd
}

func (a *app) clearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every raid and the roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return ErrNotConfirmed
			}
			return a.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				if err := svc.Clear(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "All data cleared")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}
