// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"

	"github.com/similigh/triagebot/internal/core/config"
	"github.com/similigh/triagebot/internal/core/pipeline"
	"github.com/similigh/triagebot/internal/integrations/github"
	"github.com/similigh/triagebot/internal/integrations/llm"
	"github.com/similigh/triagebot/internal/integrations/qdrant"
	"github.com/similigh/triagebot/internal/orchestrator"
)

const defaultQdrantURL = "localhost:6334"

// needs selects the optional clients a command requires.
type needs struct {
	oracle bool
	index  bool
}

// runtime holds the wired dependencies of one command invocation.
type runtime struct {
	deps    *pipeline.Dependencies
	org     string
	repo    string
	closers []func() error
}

func (rt *runtime) engine(opts ...orchestrator.Option) *orchestrator.Engine {
	return orchestrator.New(rt.deps, rt.org, rt.repo, opts...)
}

func (rt *runtime) Close() {
	for _, c := range rt.closers {
		_ = c()
	}
}

func newRuntime(ctx context.Context, n needs) (*runtime, error) {
	log := clog.FromContext(ctx)

	env, err := config.LoadEnv(ctx)
	if err != nil {
		return nil, err
	}
	if env.GitHubToken == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN is required")
	}
	gh := github.NewClient(ctx, env.GitHubToken)

	cfg, err := loadConfig(ctx, gh)
	if err != nil {
		return nil, err
	}
	org, repo, err := resolveRepository(repoFlag, cfg, env)
	if err != nil {
		return nil, err
	}

	rt := &runtime{
		deps: &pipeline.Dependencies{
			GitHub: gh,
			Config: cfg,
			DryRun: !live,
		},
		org:  org,
		repo: repo,
	}
	if rt.deps.DryRun {
		log.Infof("Dry-run mode: no labels or comments will be written (pass --live to apply)")
	}

	if n.oracle {
		oracle, provider, err := llm.NewOracle(cfg, env)
		if err != nil {
			return nil, err
		}
		rt.deps.Oracle = oracle
		rt.closers = append(rt.closers, oracle.Close)
		log.Infof("Using %s oracle", provider)
	}

	if n.index || cfg.Related.Enabled {
		if err := rt.wireVectorStore(ctx, cfg, env); err != nil {
			if n.index {
				rt.Close()
				return nil, err
			}
			log.Warnf("Related-issue hints disabled: %v", err)
		}
	}
	return rt, nil
}

// wireVectorStore sets the embedder and vector store only when both are
// available, so the dependencies never hold a typed nil.
func (rt *runtime) wireVectorStore(ctx context.Context, cfg *config.Config, env *config.Env) error {
	embedder, err := llm.NewEmbedder(env, cfg.Related.EmbeddingModel)
	if err != nil {
		return err
	}

	url := env.QdrantURL
	if url == "" {
		url = defaultQdrantURL
	}
	store, err := qdrant.NewClient(url, env.QdrantAPIKey)
	if err != nil {
		_ = embedder.Close()
		return err
	}

	rt.deps.Embedder = embedder
	rt.deps.VectorStore = store
	rt.closers = append(rt.closers, embedder.Close, store.Close)
	clog.FromContext(ctx).Infof("Related issues: %s embeddings in %s at %s", embedder.Model(), cfg.Related.Collection, url)
	return nil
}

// loadConfig loads the config file with remote inheritance, or the defaults
// when no file exists.
func loadConfig(ctx context.Context, gh *github.Client) (*config.Config, error) {
	path := config.FindConfigPath(cfgFile)
	if path == "" {
		if cfgFile != "" {
			return nil, fmt.Errorf("config file %s not found", cfgFile)
		}
		clog.FromContext(ctx).Debugf("No configuration file found, using defaults")
		return config.Default(), nil
	}

	cfg, err := config.LoadWithInheritance(path, remoteFetcher(ctx, gh))
	if err != nil {
		return nil, err
	}
	clog.FromContext(ctx).Debugf("Loaded config from %s", path)
	return cfg, nil
}

func remoteFetcher(ctx context.Context, gh *github.Client) func(string) ([]byte, error) {
	return func(ref string) ([]byte, error) {
		org, repo, branch, path, err := config.ParseExtendsRef(ref)
		if err != nil {
			return nil, err
		}
		return gh.GetFileContent(ctx, org, repo, path, branch)
	}
}

// resolveRepository picks the target repository: the flag, then the config,
// then GITHUB_REPOSITORY.
func resolveRepository(flag string, cfg *config.Config, env *config.Env) (string, string, error) {
	if flag != "" {
		return splitRepository(flag)
	}
	if cfg.Repository.Owner != "" && cfg.Repository.Name != "" {
		return cfg.Repository.Owner, cfg.Repository.Name, nil
	}
	if env.Repository != "" {
		return splitRepository(env.Repository)
	}
	return "", "", errors.New("no repository given (use --repo, repository in config, or GITHUB_REPOSITORY)")
}

func splitRepository(s string) (string, string, error) {
	org, repo, ok := strings.Cut(s, "/")
	if !ok || org == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("invalid repository %q (expected owner/name)", s)
	}
	return org, repo, nil
}
