package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_TitleAndTags(t *testing.T) {
	content := []byte(`Title: Login works
Tags: smoke, login
1. Navigate to https://example.com
2. Click the PIM link
`)
	p := Parse("login.txt", content)
	assert.Equal(t, "Login works", p.Title)
	assert.Equal(t, "Login works", p.Name)
	assert.Equal(t, []string{"smoke", "login"}, p.Tags)
	assert.Equal(t, 3, p.BodyLine)
	assert.Equal(t, "1. Navigate to https://example.com\n2. Click the PIM link", p.Body)
}

func TestParse_NoMetadata(t *testing.T) {
	p := Parse("prompts/checkout.txt", []byte("Click the PIM link\n"))
	assert.Empty(t, p.Title)
	assert.Nil(t, p.Tags)
	assert.Equal(t, "checkout", p.Name)
	assert.Equal(t, "Click the PIM link", p.Body)
}

func TestParse_MetadataIsCaseInsensitive(t *testing.T) {
	p := Parse("x.txt", []byte("title: Lower\ntags: a,,b\nWait 2s"))
	assert.Equal(t, "Lower", p.Title)
	assert.Equal(t, []string{"a", "b"}, p.Tags)
	assert.Equal(t, "Wait 2s", p.Body)
}

func TestParse_LeadingCommentsAndBlanks(t *testing.T) {
	content := []byte(`# a comment

Title: Commented
Wait 1s`)
	p := Parse("x.txt", content)
	assert.Equal(t, "Commented", p.Title)
	assert.Equal(t, "Wait 1s", p.Body)
	assert.Equal(t, 4, p.BodyLine)
}

func TestParse_MetadataOnlyAtHead(t *testing.T) {
	p := Parse("x.txt", []byte("Wait 1s\nTitle: not metadata"))
	assert.Empty(t, p.Title)
	assert.Equal(t, "Wait 1s\nTitle: not metadata", p.Body)
}

func TestParse_EmptyFile(t *testing.T) {
	p := Parse("empty.txt", []byte(""))
	assert.Equal(t, "empty", p.Name)
	assert.Empty(t, p.Body)
}

func TestParse_CRLF(t *testing.T) {
	p := Parse("x.txt", []byte("Title: Win\r\nWait 1s\r\n"))
	assert.Equal(t, "Win", p.Title)
	assert.Equal(t, "Wait 1s", p.Body)
	require.Len(t, Segment(p.Body), 1)
}
