package inference

import (
	"context"
	"errors"
	"testing"

	"github.com/khaledhikmat/vs-analyzer/service/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSelectsProvider(t *testing.T) {
	s := config.DefaultSettings()
	s.Oracle.Provider = "FAKE"

	svc, err := New(context.Background(), config.NewStatic(s))
	require.NoError(t, err)
	assert.Equal(t, "fake", svc.Name())

	s.Oracle.Provider = "openai"
	s.Oracle.APIKey = "sk-test"
	s.Oracle.Model = "gpt-4o-mini"
	svc, err = New(context.Background(), config.NewStatic(s))
	require.NoError(t, err)
	assert.Equal(t, config.OpenAIProvider, svc.Name())
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	s := config.DefaultSettings()
	s.Oracle.Provider = "llama"

	_, err := New(context.Background(), config.NewStatic(s))
	assert.Error(t, err)
}

func TestNewRequiresAPIKey(t *testing.T) {
	s := config.DefaultSettings()
	s.Oracle.APIKey = ""

	_, err := New(context.Background(), config.NewStatic(s))
	assert.Error(t, err)

	s.Oracle.Provider = config.OpenAIProvider
	_, err = New(context.Background(), config.NewStatic(s))
	assert.Error(t, err)
}

func TestFakeCyclesReplies(t *testing.T) {
	boom := errors.New("quota exceeded")
	svc := NewFake(Reply{Text: "first"}, Reply{Err: boom})

	text, err := svc.Generate(context.Background(), Request{Prompt: "p1"})
	require.NoError(t, err)
	assert.Equal(t, "first", text)

	_, err = svc.Generate(context.Background(), Request{Prompt: "p2"})
	assert.ErrorIs(t, err, boom)

	text, _ = svc.Generate(context.Background(), Request{Prompt: "p3"})
	assert.Equal(t, "first", text)

	assert.Equal(t, 3, Calls(svc))
	assert.Equal(t, "p2", Requests(svc)[1].Prompt)
}
