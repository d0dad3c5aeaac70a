package llm

import (
	"context"
)

// MockClient is a configurable reasoning-service client for testing.
// Set the response fields to control what Generate returns.
type MockClient struct {
	GenerateResponse string
	GenerateError    error

	// Call tracking for assertions
	GenerateCalls []string
}

func NewMockClient() *MockClient {
	return &MockClient{
		GenerateResponse: `{"verified": false, "confidence_score": 0, "summary": "Mock reply"}`,
	}
}

func (c *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	c.GenerateCalls = append(c.GenerateCalls, prompt)
	if c.GenerateError != nil {
		return "", c.GenerateError
	}
	return c.GenerateResponse, nil
}

// Reset clears recorded calls and restores the default response.
func (c *MockClient) Reset() {
	c.GenerateResponse = `{"verified": false, "confidence_score": 0, "summary": "Mock reply"}`
	c.GenerateError = nil
	c.GenerateCalls = nil
}
