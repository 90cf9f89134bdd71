package cli

import (
	"gemini-chat/internal/chat"
	"gemini-chat/internal/config"
	"gemini-chat/internal/llm"
	"gemini-chat/internal/observability"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func runChat(cmd *cobra.Command, v *viper.Viper, prompt string) error {
	cfg, err := config.LoadFrom(v)
	if err != nil {
		return llm.ConfigError("load config", err)
	}
	logger, err := observability.NewLogger(cmd.ErrOrStderr(), cfg.Log.Level)
	if err != nil {
		return llm.ConfigError("configure logging", err)
	}
	logger = logger.With("provider", cfg.LLM.Type)

	if cfg.LLM.Token == "" {
		return llm.CredentialError("", &missingCredentialError{env: cfg.CredentialEnv()})
	}

	client, err := llm.NewClient(llm.Options{
		Provider:  cfg.LLM.Type,
		BaseURL:   cfg.LLM.URL,
		Token:     cfg.LLM.Token,
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
	})
	if err != nil {
		return err
	}

	session, err := chat.NewSession(client, cfg.LLM.Model, logger)
	if err != nil {
		return err
	}
	loop, err := chat.NewLoop(session, cmd.InOrStdin(), cmd.OutOrStdout(),
		chat.WithLabel(llm.Label(cfg.LLM.Type)),
		chat.WithLogger(logger),
	)
	if err != nil {
		return llm.ConfigError("create session", err)
	}
	return loop.Run(cmd.Context(), prompt)
}
