package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	settingspage "github.com/goliatone/go-settingspage"
	"github.com/goliatone/go-settingspage/internal/auth"
	"github.com/goliatone/go-settingspage/internal/config"
	xlog "github.com/goliatone/go-settingspage/internal/log"
	"github.com/goliatone/go-settingspage/internal/themes"
	"github.com/goliatone/go-settingspage/pkg/page"
	"github.com/goliatone/go-settingspage/pkg/render"
	"github.com/goliatone/go-settingspage/pkg/renderers/tui"
	"github.com/goliatone/go-settingspage/pkg/settings"
	"github.com/goliatone/go-settingspage/pkg/store"
	"github.com/goliatone/go-settingspage/pkg/store/badgerstore"
	"github.com/goliatone/go-settingspage/pkg/store/filestore"
	"github.com/goliatone/go-settingspage/pkg/store/redisstore"
	"github.com/goliatone/go-settingspage/pkg/store/sqlitestore"
)

type app struct {
	configPath string
	cfg        *config.Config
	logger     zerolog.Logger

	// driver overrides the survey prompts of the edit command.
	driver tui.PromptDriver
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "settingsd",
		Short:         "Settings page server and editor",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			xlog.Configure(xlog.Config{Level: cfg.Log.Level, Output: cmd.ErrOrStderr()})
			a.logger = xlog.WithComponent("settingsd")
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", os.Getenv("SETTINGSD_CONFIG"), "YAML config file")

	root.AddCommand(newServeCmd(a))
	root.AddCommand(newShowCmd(a))
	root.AddCommand(newEditCmd(a))
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newEnvCmd())
	return root
}

// openStore opens the configured option store.
func (a *app) openStore(ctx context.Context) (store.Store, error) {
	sc := a.cfg.Store
	var (
		st  store.Store
		err error
	)
	switch sc.Driver {
	case config.DriverMemory:
		st = store.NewMemory()
	case config.DriverFile:
		st, err = filestore.Open(sc.Path)
	case config.DriverSQLite:
		st, err = sqlitestore.Open(ctx, sc.Path, sqlitestore.DefaultConfig())
	case config.DriverBadger:
		st, err = badgerstore.Open(sc.Path)
	case config.DriverRedis:
		st, err = redisstore.Open(ctx, redisstore.Config{
			Addr:     sc.RedisAddr,
			Password: sc.RedisPassword,
			DB:       sc.RedisDB,
		}, a.logger.With().Str("component", "redis").Logger())
	default:
		err = fmt.Errorf("unknown store driver %q", sc.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", sc.Driver, err)
	}
	a.logger.Debug().Str("driver", sc.Driver).Msg("store opened")
	return st, nil
}

// translator loads the configured catalog, if any.
func (a *app) translator() (render.Translator, error) {
	path := a.cfg.Page.Translations
	if path == "" {
		return nil, nil
	}
	catalog, err := render.LoadCatalog(os.DirFS(filepath.Dir(path)), filepath.Base(path))
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

// theme resolves the configured theme. Template partials named by the theme
// resolve relative to the theme file.
func (a *app) theme() (*render.ThemeConfig, fs.FS, error) {
	pc := a.cfg.Page
	if pc.ThemeFile == "" {
		return nil, nil, nil
	}
	selector, err := themes.LoadFile(pc.ThemeFile)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := selector.Config(pc.Theme, pc.Variant)
	if err != nil {
		return nil, nil, err
	}
	return cfg, os.DirFS(filepath.Dir(pc.ThemeFile)), nil
}

// buildPage initializes the record and assembles the page around st.
func (a *app) buildPage(ctx context.Context, st store.Store, authz page.Authorizer, verify page.TokenVerifier) (*settingspage.Page, error) {
	translator, err := a.translator()
	if err != nil {
		return nil, err
	}
	themeCfg, templates, err := a.theme()
	if err != nil {
		return nil, err
	}

	opts := []settingspage.Option{
		settingspage.WithOptionName(a.cfg.Page.OptionName),
		settingspage.WithSanitizeInput(a.cfg.Page.SanitizeInput),
		settingspage.WithAuthorizer(authz),
		settingspage.WithTranslator(a.cfg.Page.Locale, translator),
		settingspage.WithTheme(themeCfg),
		settingspage.WithLogger(a.logger),
	}
	if templates != nil {
		opts = append(opts, settingspage.WithTemplatesFS(templates))
	}
	if verify != nil {
		opts = append(opts, settingspage.WithTokenVerifier(verify))
	}
	return settingspage.New(ctx, st, opts...)
}

// directory builds the token directory from config.
func (a *app) directory() *auth.Directory {
	tokens := make(map[string]auth.Principal, len(a.cfg.Auth.Tokens)+1)
	for token, p := range a.cfg.Auth.Tokens {
		tokens[token] = auth.NewPrincipal(token, p.User, p.Capabilities)
	}
	if a.cfg.Auth.AdminToken != "" {
		tokens[a.cfg.Auth.AdminToken] = auth.NewPrincipal(a.cfg.Auth.AdminToken, "admin", []string{settings.DefaultCapability})
	}
	return auth.NewDirectory(tokens)
}

// operatorContext grants the local operator the page capability.
func operatorContext(ctx context.Context) context.Context {
	return auth.WithPrincipal(ctx, auth.NewPrincipal("", "cli", []string{settings.DefaultCapability}))
}
