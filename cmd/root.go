package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codeviz-ai/codeviz/analyzer"
	analyzer_contracts "github.com/codeviz-ai/codeviz/analyzer/contracts"
	"github.com/codeviz-ai/codeviz/cache"
	"github.com/codeviz-ai/codeviz/chat_history"
	chat_contracts "github.com/codeviz-ai/codeviz/chat_history/contracts"
	"github.com/codeviz-ai/codeviz/config"
	"github.com/codeviz-ai/codeviz/constants/lipgloss"
	"github.com/codeviz-ai/codeviz/providers"
	providers_contracts "github.com/codeviz-ai/codeviz/providers/contracts"
	"github.com/codeviz-ai/codeviz/registry"
	"github.com/codeviz-ai/codeviz/token_management"
	token_contracts "github.com/codeviz-ai/codeviz/token_management/contracts"
)

// RootDependencies holds the resolved configuration and every service the
// commands share.
type RootDependencies struct {
	Cwd             string
	Config          *config.Config
	Credential      config.Credential
	CacheManager    *cache.Manager
	Analyzer        analyzer_contracts.ICodeAnalyzer
	CurrentProvider providers_contracts.INarrativeProvider
	TokenManagement token_contracts.ITokenManagement
	ChatHistory     chat_contracts.IChatHistory
}

var rootCmd = &cobra.Command{
	Use:   "codeviz",
	Short: "Analyze a project folder: file tree, language stats, complexity hotspots, dependency freshness and an AI narrative.",
	Run: func(cmd *cobra.Command, args []string) {
		if version, _ := cmd.Flags().GetBool("version"); version {
			fmt.Println(config.DefaultConfig.Version)
			return
		}
		_ = cmd.Help()
	},
}

func init() {
	config.InitFlags(rootCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}
}

// handleRootCommand resolves configuration and credential once and wires the
// shared services.
func handleRootCommand(cmd *cobra.Command) *RootDependencies {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error getting current directory: %v", err)))
		return nil
	}

	cfg := config.LoadConfigs(cmd, cwd)

	// The ambient environment key always wins; a key from flags or config
	// counts as user-supplied.
	credential := config.ResolveCredential()
	if credential.Available() {
		cfg.AIProviderConfig.ApiKey = credential.Value
	} else if cfg.AIProviderConfig.ApiKey != "" {
		credential = config.Credential{Source: config.CredentialUser, Value: cfg.AIProviderConfig.ApiKey}
	}

	var cacheManager *cache.Manager
	if cfg.EnableCache {
		cacheManager, err = cache.NewManager("")
		if err != nil {
			fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Warning: failed to initialize cache: %v", err)))
			cacheManager = nil
		}
	}

	registryClient := registry.NewClient(cfg.RegistryBaseURL, cacheManager)
	resolver := registry.NewResolver(registryClient)
	tokenManagement := token_management.NewTokenManager()

	var currentProvider providers_contracts.INarrativeProvider
	if credential.Available() {
		currentProvider, err = providers.NarrativeProviderFactory(cfg.AIProviderConfig, tokenManagement)
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			return nil
		}
	}

	return &RootDependencies{
		Cwd:             cwd,
		Config:          cfg,
		Credential:      credential,
		CacheManager:    cacheManager,
		Analyzer:        analyzer.NewCodeAnalyzer(resolver, cacheManager),
		CurrentProvider: currentProvider,
		TokenManagement: tokenManagement,
		ChatHistory:     chat_history.NewChatHistory(),
	}
}
