package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/codeviz-ai/codeviz/analyzer"
	analyzer_models "github.com/codeviz-ai/codeviz/analyzer/models"
	"github.com/codeviz-ai/codeviz/constants/lipgloss"
	"github.com/codeviz-ai/codeviz/providers/models"
	"github.com/codeviz-ai/codeviz/session"
	"github.com/codeviz-ai/codeviz/utils"
)

// AnalyzeCmd: codeviz analyze
var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Analyze a project folder and explore the result in an interactive session.",
	Long: `The 'analyze' subcommand ingests every file under the given path (the current
directory by default), builds the file tree, language and size statistics, a
cyclomatic complexity report and a dependency freshness report, and asks the
configured AI provider for a narrative overview. The result is then explored
interactively: filter the tree by extension, open files at a highlighted line,
or chat with the AI about the codebase.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)
		if rootDependencies == nil {
			return
		}

		path := rootDependencies.Cwd
		if len(args) == 1 {
			path = args[0]
		}
		handleAnalyzeCommand(rootDependencies, path)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func handleAnalyzeCommand(rootDependencies *RootDependencies, path string) {

	// Create a context with cancel function
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").WithDelay(100).WithRemoveWhenDone(true)

	go utils.GracefulShutdown(ctx, cancel, func() {
		rootDependencies.ChatHistory.ClearHistory()
		rootDependencies.TokenManagement.ClearToken()
	})

	reader := bufio.NewReader(os.Stdin)

	spinnerAnalyze, _ := spinner.Start("Analyzing project...")

	source := &analyzer.DirectorySource{Root: path, CacheManager: rootDependencies.CacheManager}
	result, err := rootDependencies.Analyzer.Analyze(ctx, source)

	spinnerAnalyze.Stop()
	fmt.Print("\r")

	if err != nil {
		// A batch failure aborts the whole run; nothing partial survives.
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Analysis failed: %v", err)))
		fmt.Println(lipgloss.Yellow.Render("Fix the path or permissions and run the command again."))
		return
	}

	analysisSession := session.New(result)

	renderSummary(os.Stdout, result)

	if rootDependencies.CurrentProvider == nil {
		fmt.Println(lipgloss.Yellow.Render("No API key configured. Set GEMINI_API_KEY (or --api_key) and run /ai to generate the AI narrative."))
	} else {
		if err := runNarrative(ctx, rootDependencies, result, spinner); err != nil {
			fmt.Println(lipgloss.Red.Render(narrativeErrorMessage(err)))
			fmt.Println(lipgloss.Yellow.Render("The analysis itself succeeded; run /ai to retry the narrative."))
		}
	}

	analyzeOptionsBox := lipgloss.BoxStyle.Render("/help  Help for analyze subcommand")
	fmt.Println(analyzeOptionsBox)

startLoop: // Label for the start loop
	for {
		select {
		case <-ctx.Done():
			// Wait for GracefulShutdown to complete
			return

		default:
			displayTokens := func() {
				rootDependencies.TokenManagement.DisplayTokens(rootDependencies.Config.AIProviderConfig.Model)
			}

			// Get user input with context cancellation support
			userInput, err := utils.InputPromptWithContext(ctx, reader)

			if err != nil {
				// Check if the error is due to context cancellation (Ctrl+C)
				if err == context.Canceled {
					fmt.Println(lipgloss.Yellow.Render("\n🔄 Exiting..."))
					return
				}
				fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
				continue
			}

			if userInput == "" {
				fmt.Print("\r")
				continue
			}

			handled, exit := findAnalyzeSubCommand(ctx, userInput, rootDependencies, analysisSession, spinner)

			if handled {
				continue
			}

			if exit {
				return
			}

			// Anything that is not a subcommand is a chat turn.
			if rootDependencies.CurrentProvider == nil {
				fmt.Println(lipgloss.Yellow.Render("Chat needs an API key. Set GEMINI_API_KEY (or --api_key) and restart."))
				continue
			}

			var aiResponseBuilder strings.Builder

			chatRequestOperation := func() error {
				finalPrompt := rootDependencies.Analyzer.BuildChatPrompt(result, rootDependencies.ChatHistory.GetHistory())

				responseChan := rootDependencies.CurrentProvider.ChatCompletionRequest(ctx, userInput, finalPrompt)

				// Iterate over response channel to handle streamed data or errors.
				for response := range responseChan {
					if response.Err != nil {
						return response.Err
					}

					if response.Done {
						rootDependencies.ChatHistory.AddToHistory(userInput, aiResponseBuilder.String())
						return nil
					}

					aiResponseBuilder.WriteString(response.Content)

					language := utils.DetectLanguageFromCodeBlock(response.Content)
					if err := utils.RenderAndPrintMarkdownWithContext(ctx, response.Content, language, rootDependencies.Config.Theme); err != nil {
						if err == context.Canceled {
							return fmt.Errorf("output cancelled by user")
						}
						return fmt.Errorf("error rendering markdown: %v", err)
					}
				}

				return nil
			}

			if err := chatRequestOperation(); err != nil {
				fmt.Println(lipgloss.Red.Render(narrativeErrorMessage(err)))
				displayTokens()
				continue startLoop
			}

			fmt.Println()
			displayTokens()
		}
	}
}

// runNarrative asks the AI provider for the structured overview and renders
// it. The first successful response is pinned to the snapshot; a failed
// attempt leaves the snapshot untouched so /ai can retry.
func runNarrative(ctx context.Context, rootDependencies *RootDependencies, result *analyzer_models.AnalysisResult, spinner *pterm.SpinnerPrinter) error {
	spinnerNarrative, _ := spinner.Start("Generating AI narrative...")

	prompt := rootDependencies.Analyzer.BuildNarrativePrompt(result)
	narrative, tokenCount, err := rootDependencies.CurrentProvider.Analyze(ctx, prompt)

	spinnerNarrative.Stop()
	fmt.Print("\r")

	if err != nil {
		return err
	}

	result.SetNarrative(narrative, tokenCount)
	renderNarrative(os.Stdout, result.Narrative)
	return nil
}

// narrativeErrorMessage maps provider errors to actionable messages.
func narrativeErrorMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrRateLimited):
		return "The AI provider is rate limiting requests. Wait a moment and retry with /ai."
	case errors.Is(err, models.ErrInvalidAPIKey):
		return "The configured API key was rejected. Check GEMINI_API_KEY or --api_key."
	default:
		return fmt.Sprintf("%v", err)
	}
}

func findAnalyzeSubCommand(ctx context.Context, command string, rootDependencies *RootDependencies, analysisSession *session.Session, spinner *pterm.SpinnerPrinter) (bool, bool) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return false, false
	}
	result := analysisSession.Result()

	switch fields[0] {
	case "/help":
		helps := "/tree  Show the file tree (respects the active filter)\n" +
			"/filter <ext>  Toggle an extension filter on the tree\n" +
			"/view <path> [line]  Open a file, optionally highlighting a line\n" +
			"/close  Close the open file\n" +
			"/stats  Language distribution and largest files\n" +
			"/deps  Dependency freshness report\n" +
			"/complexity [n]  Top complexity findings (default 10)\n" +
			"/ai  Generate or retry the AI narrative\n" +
			"/token  Token information\n" +
			"/clear-history  Clear history of chat from session\n" +
			"/clear  Clear screen\n" +
			"/exit  Exit from codeviz"
		styledHelps := lipgloss.BoxStyle.Render(helps)
		fmt.Println(styledHelps)
		return true, false

	case "/tree":
		tree := analysisSession.Tree()
		if tree == nil {
			fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("No files match the '%s' filter.", analysisSession.Filter())))
			return true, false
		}
		renderTree(os.Stdout, tree, 0)
		return true, false

	case "/filter":
		if len(fields) != 2 {
			fmt.Println("Usage: /filter <extension>  (e.g. /filter ts)")
			return true, false
		}
		ext := strings.TrimPrefix(strings.ToLower(fields[1]), ".")
		analysisSession.ToggleFilter(ext)
		if analysisSession.State() == session.Filtered {
			fmt.Println(lipgloss.Green.Render(fmt.Sprintf("Filter active: .%s (file selection cleared)", ext)))
			if analysisSession.Tree() == nil {
				fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("No files match the '%s' filter.", ext)))
			}
		} else {
			fmt.Println(lipgloss.Green.Render("Filter cleared."))
		}
		return true, false

	case "/view":
		if len(fields) < 2 || len(fields) > 3 {
			fmt.Println("Usage: /view <path> [line]")
			return true, false
		}
		line := 0
		if len(fields) == 3 {
			parsed, err := strconv.Atoi(fields[2])
			if err != nil || parsed < 1 {
				fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Invalid line number: %s", fields[2])))
				return true, false
			}
			line = parsed
		}
		if !analysisSession.SelectFile(fields[1], line) {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("No file at path: %s", fields[1])))
			return true, false
		}
		_ = utils.RenderCodeViewer(os.Stdout, analysisSession.SelectedFile(), analysisSession.HighlightLine(), rootDependencies.Config.Theme)
		return true, false

	case "/close":
		analysisSession.CloseViewer()
		fmt.Println(lipgloss.Green.Render("Viewer closed."))
		return true, false

	case "/stats":
		renderStats(os.Stdout, result)
		return true, false

	case "/deps":
		renderDependencies(os.Stdout, result)
		return true, false

	case "/complexity":
		limit := 10
		if len(fields) == 2 {
			parsed, err := strconv.Atoi(fields[1])
			if err != nil || parsed < 1 {
				fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Invalid count: %s", fields[1])))
				return true, false
			}
			limit = parsed
		}
		renderComplexity(os.Stdout, result, limit)
		return true, false

	case "/ai":
		if rootDependencies.CurrentProvider == nil {
			fmt.Println(lipgloss.Yellow.Render("No API key configured. Set GEMINI_API_KEY (or --api_key) and restart."))
			return true, false
		}
		if result.Narrative != nil {
			renderNarrative(os.Stdout, result.Narrative)
			return true, false
		}
		if err := runNarrative(ctx, rootDependencies, result, spinner); err != nil {
			fmt.Println(lipgloss.Red.Render(narrativeErrorMessage(err)))
		}
		return true, false

	case "/token":
		rootDependencies.TokenManagement.DisplayTokens(rootDependencies.Config.AIProviderConfig.Model)
		return true, false

	case "/clear-history":
		rootDependencies.ChatHistory.ClearHistory()
		fmt.Println(lipgloss.Green.Render("Chat history cleared."))
		return true, false

	case "/clear":
		fmt.Print("\033[2J\033[H")
		return true, false

	case "/exit":
		return false, true

	default:
		if strings.HasPrefix(fields[0], "/") {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Unknown command: %s (try /help)", fields[0])))
			return true, false
		}
		return false, false
	}
}
