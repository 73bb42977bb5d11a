// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package scrivener

import (
	"log/slog"

	"github.com/poiesic/scrivener/ai"
	"github.com/poiesic/scrivener/ai/openai"
	"github.com/poiesic/scrivener/pipeline"
	"github.com/poiesic/scrivener/storage"
	"github.com/poiesic/scrivener/storage/badger"
)

// Workspace bundles the durable state of the generator: the badger
// backend with its caches and artifact store, plus the AI provider.
// One Workspace serves any number of pipeline runs.
type Workspace struct {
	backend       *badger.Backend
	indexCache    storage.IndexCache
	queryCache    storage.QueryCache
	artifactStore storage.ArtifactStore
	provider      ai.AIProvider
	logger        *slog.Logger
}

// WorkspaceOption configures a Workspace.
type WorkspaceOption func(*workspaceOptions)

type workspaceOptions struct {
	aiConfig *ai.Config
}

// WithAIConfig replaces the default AI service configuration.
func WithAIConfig(config *ai.Config) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.aiConfig = config
	}
}

// OpenWorkspace opens the workspace state at filePath.
func OpenWorkspace(filePath string, opts ...WorkspaceOption) (*Workspace, error) {
	options := &workspaceOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	indexCache := badger.NewIndexCache(backend)
	queryCache := badger.NewQueryCache(backend)
	artifactStore := badger.NewArtifactStore(backend)

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Workspace{
		backend:       backend,
		indexCache:    indexCache,
		queryCache:    queryCache,
		artifactStore: artifactStore,
		provider:      provider,
		logger:        slog.Default(),
	}, nil
}

// Close releases the AI provider and the storage backend.
func (w *Workspace) Close() error {
	if err := w.provider.Close(); err != nil {
		w.logger.Error("error closing AI provider", "err", err)
	}

	if err := w.indexCache.Close(); err != nil {
		w.logger.Error("error closing index cache", "err", err)
		return err
	}
	if err := w.queryCache.Close(); err != nil {
		w.logger.Error("error closing query cache", "err", err)
		return err
	}
	if err := w.artifactStore.Close(); err != nil {
		w.logger.Error("error closing artifact store", "err", err)
		return err
	}

	if err := w.backend.Close(); err != nil {
		w.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// IndexCache returns the persisted semantic index cache.
func (w *Workspace) IndexCache() storage.IndexCache {
	return w.indexCache
}

// QueryCache returns the persisted section query cache.
func (w *Workspace) QueryCache() storage.QueryCache {
	return w.queryCache
}

// ArtifactStore returns the persisted artifact metadata store.
func (w *Workspace) ArtifactStore() storage.ArtifactStore {
	return w.artifactStore
}

// NewPipeline constructs a generation pipeline over this workspace.
func (w *Workspace) NewPipeline(opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	return pipeline.NewPipeline(w.provider, w.indexCache, w.queryCache, w.artifactStore, opts...)
}
