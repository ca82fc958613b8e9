package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/faqbot/internal/chunker"
	"github.com/kailas-cloud/faqbot/internal/config"
	"github.com/kailas-cloud/faqbot/internal/corpus"
	dbRedis "github.com/kailas-cloud/faqbot/internal/db/redis"
	"github.com/kailas-cloud/faqbot/internal/domain"
	"github.com/kailas-cloud/faqbot/internal/index"
	"github.com/kailas-cloud/faqbot/internal/metrics"
	"github.com/kailas-cloud/faqbot/internal/repository/embcache"
	openaiTransport "github.com/kailas-cloud/faqbot/internal/transport/openai"
	"github.com/kailas-cloud/faqbot/internal/transport/tfidf"
	answeruc "github.com/kailas-cloud/faqbot/internal/usecase/answer"
	assistantuc "github.com/kailas-cloud/faqbot/internal/usecase/assistant"
	embeddinguc "github.com/kailas-cloud/faqbot/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/faqbot/internal/usecase/health"
	retrievaluc "github.com/kailas-cloud/faqbot/internal/usecase/retrieval"
)

// app is the composition root shared by the serve and ask commands.
type app struct {
	assistant *assistantuc.Service
	health    *healthuc.Service
	index     *index.Index
	closers   []func()
}

// newApp loads the corpus, builds the index and wires the query pipeline.
// Any failure here is fatal: the bot never serves on a partial index.
func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterAnswerMetrics()

	corp, err := corpus.Load(cfg.Corpus.QuestionsPath, cfg.Corpus.AnswersPath)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}

	chunks := chunker.NewFixedChunker(cfg.Corpus.ChunkSize).ChunkAll(corp.Documents)
	logger.Info("Corpus loaded",
		zap.Int("documents", len(corp.Documents)),
		zap.Int("chunks", len(chunks)),
	)

	a := &app{}
	embedder, cache, err := a.buildEmbedder(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	start := time.Now()
	idx, err := index.Build(ctx, embedder, chunks)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("build index: %w", err)
	}
	metrics.IndexChunks.Set(float64(idx.Len()))
	logger.Info("Index built",
		zap.String("provider", cfg.Embedding.Provider),
		zap.Int("chunks", idx.Len()),
		zap.Int("dimensions", idx.Dimension()),
		zap.Duration("took", time.Since(start)),
	)

	completer := openaiTransport.NewCompleter(&openaiTransport.Config{
		APIKey:   cfg.Generation.APIKey,
		BaseURL:  cfg.Generation.BaseURL,
		Model:    cfg.Generation.Model,
		Provider: config.ProviderOpenAI,
		Timeout:  cfg.GenerationTimeout(),
	})

	retriever := retrievaluc.New(idx, cfg.Retrieval.TopK, cfg.RetrievalTimeout())
	composer := answeruc.New(completer, corp.DefaultResponse, cfg.Generation.Temperature, cfg.GenerationTimeout())

	a.assistant = assistantuc.New(retriever, composer, corp.DefaultResponse, logger)
	a.index = idx

	// Pass nil interface (not typed nil pointer!) when the cache is disabled.
	var pinger healthuc.CachePinger
	if cache != nil {
		pinger = cache
	}
	a.health = healthuc.New(idx, pinger, embedder, completer)

	return a, nil
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented,
// or TF-IDF -> Instrumented. TF-IDF vectors depend on the corpus, so they are never cached.
func (a *app) buildEmbedder(
	ctx context.Context, cfg config.Config, logger *zap.Logger,
) (*embeddinguc.InstrumentedEmbedder, *dbRedis.Store, error) {
	if cfg.Embedding.Provider == config.ProviderTFIDF {
		return embeddinguc.NewInstrumentedEmbedder(
			tfidf.NewEmbedder(), config.ProviderTFIDF, tfidf.ModelName, cfg.Embedding.BatchSize, logger,
		), nil, nil
	}

	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   config.ProviderOpenAI,
	})

	var embedder domain.Embedder = base
	var store *dbRedis.Store
	if cfg.Cache.Enabled {
		var err error
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create cache store: %w", err)
		}
		a.closers = append(a.closers, store.Close)

		timeout := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, timeout); err != nil {
			return nil, nil, fmt.Errorf("cache not ready: %w", err)
		}
		logger.Info("Connected to embedding cache",
			zap.String("driver", cfg.Cache.Driver),
			zap.Strings("addrs", cfg.Cache.Addrs),
		)

		scope := embcache.Scope{
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		}
		embedder = embcache.New(base, store, scope, cfg.CacheTTL(), metrics.EmbeddingCacheTotal, logger)
	}

	return embeddinguc.NewInstrumentedEmbedder(
		embedder, config.ProviderOpenAI, cfg.Embedding.Model, cfg.Embedding.BatchSize, logger,
	), store, nil
}

// Close releases external connections.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
