package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "show")

	show, _, err := root.Find([]string{"show"})
	require.NoError(t, err)
	assert.NotNil(t, show.Flags().Lookup("timeout"))
}

func TestShowRequiresPartregion(t *testing.T) {
	t.Setenv("DWD_PARTREGION_ID", "")

	root := newRootCmd()
	root.SetArgs([]string{"show"})
	var out bytes.Buffer
	root.SetOut(&out)

	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DWD_PARTREGION_ID is required")
	assert.Empty(t, out.String())
}
