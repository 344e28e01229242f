package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-settingspage/internal/auth"
	"github.com/goliatone/go-settingspage/pkg/page"
	"github.com/goliatone/go-settingspage/pkg/renderers/tui"
)

func newShowCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the stored options record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := operatorContext(cmd.Context())
			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			p, err := a.buildPage(ctx, st, auth.Authorizer{}, nil)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if format == "html" {
				return p.Controller.Render(ctx, out, page.Request{})
			}

			record, err := p.Controller.Load(ctx)
			if err != nil {
				return err
			}
			switch format {
			case "json":
				data, err := json.MarshalIndent(record, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			case "yaml":
				return yaml.NewEncoder(out).Encode(record)
			case string(tui.OutputFormatPrettyText), string(tui.OutputFormatFormURLEncoded):
				data, err := tui.New(tui.WithOutputFormat(tui.OutputFormat(format))).Encode(p.Service.OptionName(), record)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			default:
				return fmt.Errorf("unknown format %q (json, yaml, pretty, form, html)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, yaml, pretty, form or html")
	return cmd
}
