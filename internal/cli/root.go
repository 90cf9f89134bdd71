package cli

import (
	"errors"
	"io/fs"
	"strings"

	"gemini-chat/internal/config"
	"gemini-chat/internal/llm"
	"gemini-chat/internal/version"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envFile = ".env"

type Options struct {
	Config string
}

func NewRootCmd() *cobra.Command {
	opts := &Options{}
	v := viper.New()
	root := &cobra.Command{
		Use:   "gemini-chat [prompt]",
		Short: "Chat with a hosted generative-language model",
		Long: `gemini-chat keeps one conversation open for the life of the process.

The optional prompt argument is sent as the first message before the
interactive session starts. Type 'quit' or 'exit', press Ctrl+D or Ctrl+C to leave.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, opts.Config)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var prompt string
			if len(args) > 0 {
				prompt = args[0]
			}
			return runChat(cmd, v, prompt)
		},
	}

	root.PersistentFlags().StringVar(
		&opts.Config,
		"config",
		"",
		"config file (default: ./gemini-chat.yaml)",
	)
	_ = v.BindPFlag("config", root.PersistentFlags().Lookup("config"))
	return root
}

// initConfig merges .env into the process environment, then prepares v to
// read the config file and GEMINI_CHAT_* overrides.
func initConfig(v *viper.Viper, configFile string) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return llm.ConfigError("load "+envFile, err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("gemini-chat")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/gemini-chat")
	}

	v.SetEnvPrefix("GEMINI_CHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	config.SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// An explicit --config must exist; the search paths are optional.
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return llm.ConfigError("read config", err)
	}
	return nil
}
