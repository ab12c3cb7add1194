package root_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"costeo/ingesta/cmd/root"
)

func TestRootCommandMetadata(t *testing.T) {
	assert.Equal(t, "ingesta", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "ingest restaurant financial documents")
	assert.NotNil(t, root.Cmd.Run)
	assert.NotNil(t, root.Cmd.PersistentPreRun)
}

func TestRootCommandFlags(t *testing.T) {
	root.Init()

	inputFlag := root.Cmd.PersistentFlags().Lookup("input")
	if assert.NotNil(t, inputFlag) {
		assert.Equal(t, "i", inputFlag.Shorthand)
	}

	tenantFlag := root.Cmd.PersistentFlags().Lookup("tenant")
	if assert.NotNil(t, tenantFlag) {
		assert.Equal(t, "default", tenantFlag.DefValue)
	}

	kindFlag := root.Cmd.PersistentFlags().Lookup("kind")
	if assert.NotNil(t, kindFlag) {
		assert.Equal(t, "auto", kindFlag.DefValue)
	}
}
