package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/pbaille/skycat/internal/catalogfile"
	"github.com/pbaille/skycat/internal/domain"
	"github.com/pbaille/skycat/internal/fetcher"
	"github.com/pbaille/skycat/internal/store"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Width(10)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func addCmd(a *app) *cobra.Command {
	var (
		rec    catalogfile.Record
		upsert bool
	)

	cmd := &cobra.Command{
		Use:   "add [name] [coordinates...]",
		Short: "Add an object to the catalog",
		Example: `  skycat add "HD 7034" -- 01 10 12.98 -60 04 35.9
  skycat add M31 --v 3.44 00 42 44.3 +41 16 09`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec.Name = strings.TrimSpace(args[0])
			rec.Coordinates = strings.Join(args[1:], " ")
			obj, err := rec.Object()
			if err != nil {
				return err
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			var stored *domain.CelestialObject
			if upsert {
				stored, err = s.UpsertObject(&obj)
			} else {
				stored, err = s.AddObject(&obj)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Added object: %s\n", shortID(stored.ID))
			fmt.Fprintf(out, "%s %s %s\n", stored.Name, stored.RA, stored.Dec)
			return nil
		},
	}

	cmd.Flags().IntVar(&rec.Number, "number", 0, "catalog number, distinguishes objects sharing a name")
	cmd.Flags().StringVar(&rec.Type, "type", "", "object type")
	cmd.Flags().StringVar(&rec.SpectralType, "spectral", "", "spectral type")
	cmd.Flags().Float64Var(&rec.B, "b", 0, "B magnitude")
	cmd.Flags().Float64Var(&rec.V, "v", 0, "V magnitude")
	cmd.Flags().Float64Var(&rec.R, "r", 0, "R magnitude")
	cmd.Flags().StringVar(&rec.Comment, "comment", "", "free-form comment")
	cmd.Flags().BoolVar(&upsert, "upsert", false, "update an existing object with the same name and number")
	return cmd
}

func listCmd(a *app) *cobra.Command {
	var (
		limit  int
		offset int
		sortBy string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog objects",
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := domain.ParseOrdering(sortBy)
			if err != nil {
				return err
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			objects, err := s.ListObjects(limit, offset, order, a.cfg.MatchRadius)
			if err != nil {
				return err
			}

			if len(objects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No objects yet. Use 'skycat add' or 'skycat import' to create some.")
				return nil
			}
			printObjects(cmd.OutOrStdout(), objects)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of objects to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of objects to skip")
	cmd.Flags().StringVarP(&sortBy, "sort", "s", "position", "ordering: position, b, v or r")
	return cmd
}

func showCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show object details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			// Find object by prefix
			id, err := s.ResolveID(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			obj, err := s.GetObject(id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render(obj.Name))
			field := func(label, value string) {
				if value != "" {
					fmt.Fprintln(out, labelStyle.Render(label)+value)
				}
			}
			field("ID", obj.ID)
			field("Number", fmt.Sprint(obj.Number))
			field("RA", fmt.Sprintf("%s  %s", obj.RA, mutedStyle.Render(fmt.Sprintf("%.6f°", obj.RA.Degrees()))))
			field("Dec", fmt.Sprintf("%s  %s", obj.Dec, mutedStyle.Render(fmt.Sprintf("%+.6f°", obj.Dec.DecimalDegrees()))))
			field("Type", obj.Type)
			field("Spectral", obj.SpectralType)
			field("B/V/R", fmt.Sprintf("%g / %g / %g", obj.BMagnitude, obj.VMagnitude, obj.RMagnitude))
			field("Comment", obj.Comment)
			field("Created", obj.CreatedAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}

func searchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Search objects by name, type or comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			objects, err := s.SearchObjects(args[0])
			if err != nil {
				return err
			}

			if len(objects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matching objects found.")
				return nil
			}
			printObjects(cmd.OutOrStdout(), objects)
			return nil
		},
	}
}

func nearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "near [ra] [dec]",
		Short: "Find objects inside the match radius of a position",
		Example: `  skycat near 01:10:12.98 +60:04:35.9
  skycat near --radius 30 -- 05:35:17 -05:23:28`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ra, err := domain.ParseRA(args[0], domain.DetectSeparator(args[0]))
			if err != nil {
				return err
			}
			var dec domain.Dec
			if err := dec.ParseRelaxed(args[1], domain.DetectSeparator(args[1])); err != nil {
				return err
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			matches, err := s.FindNear(ra, dec, a.cfg.MatchRadius)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(matches) == 0 {
				fmt.Fprintf(out, "No objects within %g\" of %s %s.\n", a.cfg.MatchRadius, ra, dec)
				return nil
			}
			for _, m := range matches {
				fmt.Fprintf(out, "%s  %-20s %s %s  %6.2f\"\n",
					shortID(m.Object.ID), truncate(m.Object.Name, 20), m.Object.RA, m.Object.Dec, m.Separation)
			}
			return nil
		},
	}
}

func deleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			id, err := s.ResolveID(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if err := s.DeleteObject(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted object: %s\n", shortID(id))
			return nil
		},
	}
}

func importCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file or url]",
		Short: "Import a TOML catalog, updating objects that already exist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			objects, err := loadCatalog(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := upsertAll(s, objects)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d objects from %s\n", n, args[0])
			return nil
		},
	}
}

func loadCatalog(ctx context.Context, source string) ([]domain.CelestialObject, error) {
	if !fetcher.IsURL(source) {
		return catalogfile.Load(source)
	}
	body, _, err := fetcher.Get(ctx, nil, source)
	if err != nil {
		return nil, err
	}
	return catalogfile.Decode(body)
}

func upsertAll(s *store.Store, objects []domain.CelestialObject) (int, error) {
	for i := range objects {
		if _, err := s.UpsertObject(&objects[i]); err != nil {
			return i, fmt.Errorf("%s: %w", objects[i].Name, err)
		}
	}
	return len(objects), nil
}

func exportCmd(a *app) *cobra.Command {
	var sortBy string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export the catalog as TOML (to stdout without a file)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := domain.ParseOrdering(sortBy)
			if err != nil {
				return err
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			objects, err := s.ListObjects(0, 0, order, a.cfg.MatchRadius)
			if err != nil {
				return err
			}

			if len(args) == 0 || args[0] == "-" {
				data, err := catalogfile.Encode(objects)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := catalogfile.Save(args[0], objects); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d objects to %s\n", len(objects), args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&sortBy, "sort", "s", "position", "ordering: position, b, v or r")
	return cmd
}

func lookupCmd(a *app) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "lookup [name...]",
		Short: "Resolve an object name through the configured lookup service",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			resolver := fetcher.NewResolver(a.cfg.ResolverURL)

			obj, err := resolver.Lookup(cmd.Context(), name)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, obj)
			if obj.SpectralType != "" {
				fmt.Fprintf(out, "Spectral type: %s\n", obj.SpectralType)
			}
			if !save {
				return nil
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			stored, err := s.UpsertObject(obj)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Saved object: %s\n", shortID(stored.ID))
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "store the resolved object in the catalog")
	return cmd
}

func printObjects(w io.Writer, objects []domain.CelestialObject) {
	for _, o := range objects {
		fmt.Fprintf(w, "%s  %-20s %s %s  V=%g\n",
			shortID(o.ID), truncate(o.Name, 20), o.RA, o.Dec, o.VMagnitude)
	}
}
