package readme

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockdata/pkg/domain"
)

func testGroups() []domain.Group {
	return []domain.Group{
		{Name: domain.GroupSP500, Dir: "SP500", Description: "All companies in the Standard & Poor's 500 Index"},
		{Name: domain.GroupHangSeng, Dir: "HangSengTech", Description: "Technology companies listed on the Hong Kong Stock Exchange"},
		{Name: domain.GroupMag7, Dir: "MAG7", Description: "The \"Magnificent Seven\" tech giants"},
		{Name: domain.GroupIndexes, Dir: "Indexes", Description: "Major market indexes"},
	}
}

func TestRender_Idempotent(t *testing.T) {
	now := time.Date(2024, 3, 15, 6, 30, 0, 0, time.UTC)

	first, err := Render(now, testGroups())
	require.NoError(t, err)
	second, err := Render(now, testGroups())
	require.NoError(t, err)

	assert.Equal(t, first, second, "same timestamp renders byte-identical output")
}

func TestRender_Content(t *testing.T) {
	now := time.Date(2024, 3, 15, 6, 30, 0, 0, time.UTC)

	content, err := Render(now, testGroups())
	require.NoError(t, err)

	assert.Contains(t, content, "# Tech-Stocks-Data")
	assert.Contains(t, content, "2024-03-15 06:30:00 UTC")
	assert.Contains(t, content, "**S&P 500**: All companies in the Standard & Poor's 500 Index")
	assert.Contains(t, content, "**Hang Seng Tech Index**")
	assert.Contains(t, content, "**MAG7**")
	assert.Contains(t, content, "**Market Indexes**")
}

func TestRender_TimestampIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, loc)

	content, err := Render(now, testGroups())
	require.NoError(t, err)

	assert.Contains(t, content, "2024-03-15 06:30:00 UTC")
}

func TestWrite_ReplacesFileWholesale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.md")
	require.NoError(t, os.WriteFile(path, []byte("old content that must disappear"), 0o644))

	now := time.Date(2024, 3, 15, 6, 30, 0, 0, time.UTC)
	require.NoError(t, Write(path, now, testGroups()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "old content")

	expected, err := Render(now, testGroups())
	require.NoError(t, err)
	assert.Equal(t, expected, string(content))
}
