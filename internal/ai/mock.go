package ai

import (
	"context"
	"errors"
	"sync"

	"github.com/artifactlab/artifact-service/internal/model"
)

// MockClient returns canned responses for tests. Register per-model outcomes
// with SetResponse/SetError; every GenerateContent call is logged so tests can
// assert which models were attempted and in what order.
type MockClient struct {
	mu sync.Mutex

	models  []model.ModelDescriptor
	listErr error

	responses map[string]string
	errors    map[string]error

	callLog []GenerateCall
}

// GenerateCall records one GenerateContent invocation for test assertions.
type GenerateCall struct {
	Model string
	Parts []Part
}

// NewMockClient creates a mock with the given catalog.
func NewMockClient(models ...model.ModelDescriptor) *MockClient {
	return &MockClient{
		models:    models,
		responses: make(map[string]string),
		errors:    make(map[string]error),
	}
}

// SetListError makes ListModels fail, simulating a catalog query failure.
func (m *MockClient) SetListError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listErr = err
}

// SetResponse registers the text a model returns on success.
func (m *MockClient) SetResponse(modelName, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[modelName] = text
}

// SetError makes generation against the named model fail.
func (m *MockClient) SetError(modelName string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[modelName] = err
}

// Calls returns all GenerateContent invocations received so far.
func (m *MockClient) Calls() []GenerateCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]GenerateCall, len(m.callLog))
	copy(out, m.callLog)
	return out
}

func (m *MockClient) ListModels(_ context.Context) ([]model.ModelDescriptor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]model.ModelDescriptor, len(m.models))
	copy(out, m.models)
	return out, nil
}

func (m *MockClient) GenerateContent(_ context.Context, modelName string, parts []Part) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callLog = append(m.callLog, GenerateCall{Model: modelName, Parts: parts})

	if err, ok := m.errors[modelName]; ok {
		return "", err
	}
	if text, ok := m.responses[modelName]; ok {
		return text, nil
	}
	return "", errors.New("mock: no response registered for " + modelName)
}
