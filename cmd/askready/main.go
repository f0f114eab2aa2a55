package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	cfgPkg "github.com/askready/askready/pkg/config"
	"github.com/askready/askready/pkg/llm"
	"github.com/askready/askready/pkg/rag"
	"github.com/askready/askready/pkg/store"
)

func main() {
	var configPath string
	var k int

	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.IntVar(&k, "k", 0, "Number of chunks to retrieve per question (overrides config)")
	flag.Parse()

	cfgPkg.LoadDotenv()

	cfg, err := cfgPkg.LoadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if k > 0 {
		cfg.Retriever.K = k
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			color.Red("config: %v", e)
		}
		log.Fatal("invalid configuration")
	}

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func run(cfg *cfgPkg.Config) error {
	ctx := context.Background()

	embedder, err := llm.NewEmbedder(llm.EmbedderConfig{
		Model:   cfg.Embeddings.Model,
		BaseURL: cfg.Embeddings.BaseURL,
		APIKey:  cfg.Embeddings.APIKey,
		Dim:     cfg.Embeddings.VectorDim,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize embedder: %v", err)
	}

	chatEngine, err := llm.NewChatEngine(llm.ChatConfig{
		Model:       cfg.LLM.Model,
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize chat engine: %v", err)
	}

	vectorStore, err := store.NewWithConfig(ctx, store.VectorStoreConfig{
		ConnString: cfg.Database.URL,
		TableName:  cfg.Database.TableName,
		VectorDim:  cfg.Embeddings.VectorDim,
		BatchSize:  cfg.Database.BatchSize,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize vector store: %v", err)
	}
	defer vectorStore.Close()

	retriever := rag.NewRetriever(embedder, vectorStore)
	generator := rag.NewGenerator(chatEngine)

	if count, err := vectorStore.Count(ctx); err == nil && count == 0 {
		color.Yellow("The %q collection is empty; run the ingest command first.", cfg.Database.TableName)
	}

	color.Cyan("\nAsk about disaster preparedness (type 'exit' to quit)")

	scanner := bufio.NewScanner(os.Stdin)
	userPrompt := color.New(color.FgGreen).PrintfFunc()
	assistantPrompt := color.New(color.FgCyan).PrintfFunc()

	for {
		userPrompt("\nYou: ")
		if !scanner.Scan() {
			break
		}

		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if strings.ToLower(query) == "exit" {
			break
		}

		searchSpinner := getSpinner(" Searching trusted sources...")
		results, err := retriever.Retrieve(ctx, query, cfg.Retriever.K)
		searchSpinner.Finish()

		if err != nil {
			if errors.Is(err, rag.ErrDimensionMismatch) {
				return fmt.Errorf("embedding configuration does not match the collection: %v", err)
			}
			color.Red("Error retrieving context: %v\n", err)
			continue
		}

		responseSpinner := getSpinner(" Generating answer...")
		answer, err := generator.Answer(ctx, query, results)
		responseSpinner.Finish()

		if err != nil {
			// Upstream failure: say so plainly, never fabricate an answer.
			color.Red("The answer service is unavailable right now: %v\n", err)
			continue
		}

		assistantPrompt("\nAssistant: %s\n", answer.Text)

		if answer.Grounded && len(answer.Sources) > 0 {
			fmt.Println()
			color.Blue("Sources: %s", strings.Join(answer.Sources, ", "))
		}
	}

	return nil
}

func getSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}
