package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/askready/askready/internal/models"
	"github.com/askready/askready/pkg/chunker"
	cfgPkg "github.com/askready/askready/pkg/config"
	"github.com/askready/askready/pkg/ingest"
	"github.com/askready/askready/pkg/llm"
	"github.com/askready/askready/pkg/scraper"
	"github.com/askready/askready/pkg/store"
)

func main() {
	var configPath string
	var scrape bool
	var dataFile string

	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.BoolVar(&scrape, "scrape", false, "Fetch fresh documents from the trusted sources before ingesting")
	flag.StringVar(&dataFile, "data-file", "", "Path to the scraped document JSON file (overrides config)")
	flag.Parse()

	cfgPkg.LoadDotenv()

	cfg, err := cfgPkg.LoadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if dataFile != "" {
		cfg.Ingest.DataFile = dataFile
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			color.Red("config: %v", e)
		}
		log.Fatal("invalid configuration")
	}

	if err := run(cfg, scrape); err != nil {
		log.Fatal(err)
	}
}

func run(cfg *cfgPkg.Config, scrape bool) error {
	ctx := context.Background()

	var docs []models.Document
	var err error

	if scrape {
		docs, err = scrapeSources(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to scrape sources: %v", err)
		}

		if err := ingest.SaveDocuments(cfg.Ingest.DataFile, docs); err != nil {
			return err
		}
		color.Green("✓ Saved %d documents to %s\n", len(docs), cfg.Ingest.DataFile)
	} else {
		docs, err = ingest.LoadDocuments(cfg.Ingest.DataFile)
		if err != nil {
			return fmt.Errorf("%v (run with -scrape to fetch documents first)", err)
		}
		color.Blue("Loaded %d documents from %s\n", len(docs), cfg.Ingest.DataFile)
	}

	ch, err := chunker.New(chunker.Config{
		ChunkSize:      cfg.Chunker.ChunkSize,
		Overlap:        cfg.Chunker.Overlap,
		MinChunkLength: cfg.Chunker.MinChunkLength,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize chunker: %v", err)
	}

	embedder, err := llm.NewEmbedder(llm.EmbedderConfig{
		Model:   cfg.Embeddings.Model,
		BaseURL: cfg.Embeddings.BaseURL,
		APIKey:  cfg.Embeddings.APIKey,
		Dim:     cfg.Embeddings.VectorDim,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize embedder: %v", err)
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

	ingestBar := getProgressBar(len(docs), "Embedding and storing documents...")

	pipeline, err := ingest.NewPipeline(ingest.PipelineConfig{
		BatchSize: cfg.Database.BatchSize,
		OnDocument: func(doc models.Document, chunks int) {
			ingestBar.Add(1)
		},
	}, ch, embedder, vectorStore)
	if err != nil {
		return fmt.Errorf("failed to initialize pipeline: %v", err)
	}

	stats, err := pipeline.Run(ctx, docs)
	ingestBar.Finish()
	if err != nil {
		return fmt.Errorf("ingestion failed: %v", err)
	}

	color.Green("\n✓ Ingestion complete\n")
	fmt.Printf("Documents processed: %d (skipped %d empty)\n", stats.Documents, stats.Skipped)
	fmt.Printf("Chunks stored in %q: %d\n", cfg.Database.TableName, stats.Chunks)
	return nil
}

func scrapeSources(ctx context.Context, cfg *cfgPkg.Config) ([]models.Document, error) {
	var scrapedCount int32

	s, err := scraper.NewWithConfig(scraper.ScraperConfig{
		RateLimit:        cfg.Scraper.RateLimit,
		Timeout:          time.Duration(cfg.Scraper.TimeoutSeconds) * time.Second,
		MinContentLength: cfg.Scraper.MinContentLength,
		OnProgress: func(url string) {
			atomic.AddInt32(&scrapedCount, 1)
		},
	})
	if err != nil {
		return nil, err
	}

	scrapingBar := getProgressBar(-1, "Scraping trusted sources...")
	startTime := time.Now()
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case <-time.After(100 * time.Millisecond):
				count := atomic.LoadInt32(&scrapedCount)
				scrapingBar.Set(int(count))
				if count > 0 {
					elapsed := time.Since(startTime).Seconds()
					scrapingBar.Describe(color.BlueString(
						"Scraping trusted sources (%.1f pages/sec)", float64(count)/elapsed))
				}
			}
		}
	}()

	docs, err := s.ScrapeAll(ctx)
	close(done)
	scrapingBar.Finish()
	if err != nil {
		return nil, err
	}

	color.Green("\n✓ Scraped %d documents\n", len(docs))
	return docs, nil
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("items"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	)
}
