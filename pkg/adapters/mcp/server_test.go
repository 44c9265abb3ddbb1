package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tabula"
	"github.com/aretw0/tabula/pkg/domain"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	eng, err := tabula.New()
	require.NoError(t, err)
	return NewServer(eng, nil)
}

func TestHandleValidate(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleValidate(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"machine": "expression",
		"input":   "3+2-1",
	})
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.Equal(t, "number", res.Final)

	res, err = s.handleValidate(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"machine": "binary",
		"input":   "",
	})
	require.NoError(t, err)
	assert.False(t, res.Accepted, "the empty string is not a binary number")

	_, err = s.handleValidate(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"machine": "roman",
		"input":   "XIV",
	})
	assert.ErrorIs(t, err, domain.ErrUnknownMachine)

	_, err = s.handleValidate(ctx, mcp.CallToolRequest{}, map[string]interface{}{"machine": "binary"})
	assert.ErrorContains(t, err, "required")
}

func TestHandleDescribe(t *testing.T) {
	s := newTestServer(t)

	desc, err := s.handleDescribe(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"machine": "binary"})
	require.NoError(t, err)
	assert.Equal(t, "binary", desc.Definition.Name)
	assert.Equal(t, []string{"start", "digits", "dead"}, desc.Definition.States)
	assert.Contains(t, desc.Mermaid, "stateDiagram-v2")

	_, err = s.handleDescribe(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"machine": "nope"})
	assert.ErrorIs(t, err, domain.ErrUnknownMachine)
}
