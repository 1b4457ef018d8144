package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-crudconsole/pkg/devserver"
	"github.com/goliatone/go-crudconsole/pkg/formbind"
	"github.com/goliatone/go-crudconsole/pkg/importer"
	"github.com/goliatone/go-crudconsole/pkg/notify"
	"github.com/goliatone/go-crudconsole/pkg/orchestrator"
	"github.com/goliatone/go-crudconsole/pkg/renderers/tui"
	"github.com/goliatone/go-crudconsole/pkg/table"
)

func newConsoleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "console <resource>",
		Short: "Run the interactive console for a resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			console := tui.New(
				tui.WithOutput(cmd.OutOrStdout()),
				tui.WithRowActions(a.cfg.Console.ShowActions),
			)
			ctrl, err := a.orch.Controller(cmd.Context(), orchestrator.Request{
				Resource:  args[0],
				Form:      console.Form(),
				Confirmer: console,
				Notifier:  console,
				Sinks:     []table.Sink{console},
			})
			if err != nil {
				return err
			}
			return console.Run(cmd.Context(), ctrl)
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var (
		filters []string
		params  []string
		id      string
		query   string
		actions bool
	)
	cmd := &cobra.Command{
		Use:   "list <resource>",
		Short: "Print the records of a resource as a table",
		Long: `Print the records of a resource as a table.

Without selectors the resource default result set is shown. --filter sends
name=value pairs as query parameters, --query runs a declared query with
--param values and --id shows a single record.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := a.renderRequest(cmd, args[0], "tui", id, query, params, filters)
			if err != nil {
				return err
			}
			req.ShowActions = actions
			out, err := a.orch.Render(cmd.Context(), req)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "Filter as name=value (repeatable)")
	cmd.Flags().StringArrayVar(&params, "param", nil, "Query parameter as name=value (repeatable, with --query)")
	cmd.Flags().StringVar(&id, "id", "", "Show the record with this identity")
	cmd.Flags().StringVar(&query, "query", "", "Run the named query")
	cmd.Flags().BoolVar(&actions, "actions", false, "Show the row actions column")
	return cmd
}

func newRenderCmd(a *app) *cobra.Command {
	var (
		renderer string
		themeArg string
		variant  string
		title    string
		out      string
		filters  []string
	)
	cmd := &cobra.Command{
		Use:   "render <resource>",
		Short: "Render the console page of a resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := a.renderRequest(cmd, args[0], renderer, "", "", nil, filters)
			if err != nil {
				return err
			}
			req.Theme = themeArg
			req.Variant = variant
			req.Title = title
			req.ShowActions = a.cfg.Console.ShowActions
			data, err := a.orch.Render(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeOutput(cmd, out, data)
		},
	}
	cmd.Flags().StringVar(&renderer, "renderer", "vanilla", "Renderer to use")
	cmd.Flags().StringVar(&themeArg, "theme", "", "Theme name")
	cmd.Flags().StringVar(&variant, "variant", "", "Theme variant")
	cmd.Flags().StringVar(&title, "title", "", "Page title")
	cmd.Flags().StringVar(&out, "out", "", "Output file (stdout if empty)")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "Filter as name=value (repeatable)")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var (
		out     string
		filters []string
	)
	cmd := &cobra.Command{
		Use:   "export <resource>",
		Short: "Export records to an xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := a.renderRequest(cmd, args[0], "xlsx", "", "", nil, filters)
			if err != nil {
				return err
			}
			data, err := a.orch.Render(cmd.Context(), req)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", args[0], out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Workbook to write")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "Filter as name=value (repeatable)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	var (
		in    string
		sheet string
	)
	cmd := &cobra.Command{
		Use:   "import <resource>",
		Short: "Create records from an xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.orch.Resource(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			file, err := os.Open(in)
			if err != nil {
				return err
			}
			defer file.Close()

			imp := importer.New(res, importer.WithSheet(sheet), importer.WithLogger(a.logger))
			rows, err := imp.Read(file)
			if err != nil {
				return err
			}
			ctrl, err := a.orch.Controller(cmd.Context(), orchestrator.Request{
				Resource: res.Name,
				Notifier: notify.Log{Logger: a.logger},
			})
			if err != nil {
				return err
			}
			result, err := imp.Import(cmd.Context(), ctrl, rows)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Created %d of %d %s\n", result.Created, len(rows), strings.ToLower(res.DisplayLabel()))
			for _, failure := range result.Failures {
				fmt.Fprintln(w, failure.Error())
			}
			if len(result.Failures) > 0 {
				return fmt.Errorf("%d rows failed", len(result.Failures))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "Workbook to read")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet name (resource name or first sheet if empty)")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func newDevserverCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Serve an in-memory backend for every resource",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.orch.Resources(cmd.Context())
			if err != nil {
				return err
			}
			srv, err := devserver.New(list, devserver.WithLogger(a.logger))
			if err != nil {
				return err
			}
			names := make([]string, 0, len(list))
			for _, res := range list {
				names = append(names, res.Name)
			}
			sort.Strings(names)
			a.logger.Info().Str("addr", addr).Strs("resources", names).Msg("devserver listening")
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	return cmd
}

func (a *app) renderRequest(cmd *cobra.Command, resource, renderer, id, query string, params, filters []string) (orchestrator.RenderRequest, error) {
	req := orchestrator.RenderRequest{
		Resource: resource,
		Renderer: renderer,
		ID:       id,
		Query:    query,
	}
	if len(params) > 0 {
		req.Params = make(map[string]string, len(params))
		for _, pair := range params {
			name, value, ok := strings.Cut(pair, "=")
			if !ok {
				return req, fmt.Errorf("--param %q must be name=value", pair)
			}
			req.Params[strings.TrimSpace(name)] = value
		}
	}
	if len(filters) > 0 {
		res, err := a.orch.Resource(cmd.Context(), resource)
		if err != nil {
			return req, err
		}
		filter, err := formbind.ParseFilter(res, filters)
		if err != nil {
			return req, err
		}
		req.Filter = filter
	}
	return req, nil
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Written to %s\n", path)
	return nil
}
