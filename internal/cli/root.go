// Package cli provides the command-line interface for criteria.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pay-theory/criteria"
	"github.com/pay-theory/criteria/pkg/config"
	"github.com/pay-theory/criteria/pkg/logger"
)

// Version information (set at build time).
var (
	Version = "0.1.0"
)

// engineKey is used to store the engine in context.
type engineKey struct{}

// rendererKey is used to store the renderer in context.
type rendererKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "criteria",
		Short: "Inspect criteria expressions, paging and sorting",
		Long: `criteria parses the request grammars of the criteria engine.

It compiles name=value criteria expressions against a YAML schema into a
condition tree and explains paging, sorting and range strings.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			log := logger.NewWithWriter(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
			ctx := logger.ContextWithRequestID(cmd.Context(), uuid.NewString())

			engine, err := criteria.New(cfg, criteria.WithLogger(log.WithContext(ctx)))
			if err != nil {
				return err
			}

			ctx = context.WithValue(ctx, engineKey{}, engine)
			ctx = context.WithValue(ctx, rendererKey{}, NewRenderer(cmd.OutOrStdout(), cfg.Output))
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./criteria.yaml)")
	flags.StringP("output", "o", config.FormatText, "Output format (text|json)")
	flags.String("log-level", "", "Log level (debug|info|warn|error|disabled)")
	flags.String("log-format", "", "Log format (console|json)")
	flags.String("naming", "", "Default condition name convention (preserve|camel|snake)")
	flags.Bool("strict", false, "Fail on the first invalid assignment")
	flags.String("wildcard", "", "Wildcard character applied to like values")
	flags.String("wildcard-mode", "", "Wildcard placement (trailing|both)")
	flags.Int("page-size", 0, "Default page size")
	flags.Int("max-length", 0, "Maximum criteria expression length")
	flags.Int("max-depth", 0, "Maximum property path depth")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.FormatText, config.FormatJSON}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(NewPagingCommand())
	rootCmd.AddCommand(NewSortingCommand())
	rootCmd.AddCommand(NewRangeCommand())
	rootCmd.AddCommand(NewCompileCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetEngine retrieves the engine from the command context.
func GetEngine(ctx context.Context) *criteria.Engine {
	if e, ok := ctx.Value(engineKey{}).(*criteria.Engine); ok {
		return e
	}
	engine, _ := criteria.New(nil)
	return engine
}

// GetRenderer retrieves the renderer from the command context.
func GetRenderer(ctx context.Context) *Renderer {
	if r, ok := ctx.Value(rendererKey{}).(*Renderer); ok {
		return r
	}
	return NewRenderer(os.Stdout, config.FormatText)
}
