package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-settingspage/internal/auth"
	"github.com/goliatone/go-settingspage/pkg/render"
	"github.com/goliatone/go-settingspage/pkg/renderers/tui"
)

func newEditCmd(a *app) *cobra.Command {
	var (
		format string
		yes    bool
	)
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the options record with interactive prompts",
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
			translator, err := a.translator()
			if err != nil {
				return err
			}

			record, err := p.Controller.Load(ctx)
			if err != nil {
				return err
			}
			model, err := p.Service.Registry().Page(p.Service.PageSlug(), p.Service.Group())
			if err != nil {
				return err
			}

			opts := []tui.Option{
				tui.WithOutputFormat(tui.OutputFormat(format)),
				tui.WithConfirmSave(!yes),
				tui.WithTextValidator(singleLine),
			}
			if a.driver != nil {
				opts = append(opts, tui.WithPromptDriver(a.driver))
			}
			editor := tui.New(opts...)

			edited, err := editor.Edit(ctx, model, render.RenderOptions{
				Values:     record,
				Locale:     a.cfg.Page.Locale,
				Translator: translator,
			})
			if err != nil {
				return err
			}
			saved, err := p.Controller.Replace(ctx, edited)
			if err != nil {
				return err
			}
			a.logger.Info().Str("option", p.Service.OptionName()).Msg("settings saved from terminal")

			data, err := editor.Encode(p.Service.OptionName(), saved)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(tui.OutputFormatJSON), "output format of the saved record: json, form or pretty")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "save without asking for confirmation")
	return cmd
}

// singleLine mirrors the HTML text input, which cannot carry line breaks.
func singleLine(value string) error {
	if strings.ContainsAny(value, "\r\n") {
		return errors.New("text must fit on one line")
	}
	return nil
}
