package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tieubaoca/docqa-be/types"
)

func TestBuildContextUsesBestResultOnly(t *testing.T) {
	results := []types.SearchResult{
		{Content: "best match content", Score: 0.95},
		{Content: "runner up content", Score: 0.80},
	}
	assert.Equal(t, "best match content", buildContext(results, 100))
}

func TestBuildContextCapsWords(t *testing.T) {
	results := []types.SearchResult{{Content: "one two three four five"}}
	assert.Equal(t, "one two three", buildContext(results, 3))
}

func TestBuildContextEmptyResults(t *testing.T) {
	assert.Equal(t, "No context available", buildContext(nil, 100))
}

func TestRetryDelayGrowsAndCaps(t *testing.T) {
	assert.Equal(t, 200*time.Millisecond, retryDelay(0))
	assert.Equal(t, 400*time.Millisecond, retryDelay(1))
	assert.Equal(t, 800*time.Millisecond, retryDelay(2))
	assert.Equal(t, 5*time.Second, retryDelay(10))
	assert.Equal(t, 200*time.Millisecond, retryDelay(-1))
}
