// Package mocks holds testify mocks for the domain ports.
package mocks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
)

// MockTextGenerator is a mock of domain.TextGenerator.
type MockTextGenerator struct{ mock.Mock }

// NewMockTextGenerator creates a mock whose expectations are asserted on test cleanup.
func NewMockTextGenerator(t testing.TB) *MockTextGenerator {
	m := &MockTextGenerator{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Generate provides a mock function.
func (m *MockTextGenerator) Generate(ctx domain.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt, maxTokens)
	return args.String(0), args.Error(1)
}

// MockSearchProvider is a mock of domain.SearchProvider.
type MockSearchProvider struct{ mock.Mock }

// NewMockSearchProvider creates a mock whose expectations are asserted on test cleanup.
func NewMockSearchProvider(t testing.TB) *MockSearchProvider {
	m := &MockSearchProvider{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Search provides a mock function.
func (m *MockSearchProvider) Search(ctx domain.Context, query string) ([]domain.SearchResult, error) {
	args := m.Called(ctx, query)
	var out []domain.SearchResult
	if v := args.Get(0); v != nil {
		out = v.([]domain.SearchResult)
	}
	return out, args.Error(1)
}

// MockEnrichmentQueue is a mock of domain.EnrichmentQueue.
type MockEnrichmentQueue struct{ mock.Mock }

// NewMockEnrichmentQueue creates a mock whose expectations are asserted on test cleanup.
func NewMockEnrichmentQueue(t testing.TB) *MockEnrichmentQueue {
	m := &MockEnrichmentQueue{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Enqueue provides a mock function.
func (m *MockEnrichmentQueue) Enqueue(ctx domain.Context, task domain.EnrichmentTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// MockEnrichmentHandler is a mock of domain.EnrichmentHandler.
type MockEnrichmentHandler struct{ mock.Mock }

// NewMockEnrichmentHandler creates a mock whose expectations are asserted on test cleanup.
func NewMockEnrichmentHandler(t testing.TB) *MockEnrichmentHandler {
	m := &MockEnrichmentHandler{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Handle provides a mock function.
func (m *MockEnrichmentHandler) Handle(ctx domain.Context, task domain.EnrichmentTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// MockCache is a mock of domain.Cache.
type MockCache struct{ mock.Mock }

// NewMockCache creates a mock whose expectations are asserted on test cleanup.
func NewMockCache(t testing.TB) *MockCache {
	m := &MockCache{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Get provides a mock function.
func (m *MockCache) Get(ctx domain.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

// Set provides a mock function.
func (m *MockCache) Set(ctx domain.Context, key, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

// Delete provides a mock function.
func (m *MockCache) Delete(ctx domain.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}
