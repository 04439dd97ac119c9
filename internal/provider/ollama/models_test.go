package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		json.NewEncoder(w).Encode(tagsResponse{
			Models: []Model{
				{Name: "llama3.2:1b", Model: "llama3.2:1b"},
				{Name: "qwen2.5-coder", Model: "qwen2.5-coder"},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	models, err := c.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "llama3.2:1b", models[0].Name)
}

func TestAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(tagsResponse{})
	}))
	c := New(srv.URL)
	assert.True(t, c.Available(context.Background()))

	srv.Close()
	assert.False(t, c.Available(context.Background()))
}

func TestNewDefaults(t *testing.T) {
	c := New("")
	assert.Equal(t, DefaultBaseURL, c.BaseURL())

	c = New("http://remote:11434/")
	assert.Equal(t, "http://remote:11434", c.BaseURL())
}
