package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/alecthomas/kong"
	main "github.com/fwojciec/leadbook/cmd/leadbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allCommands = []string{"search", "add", "list", "export", "show", "update", "delete", "track", "categories"}

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	helpOutput := stdout.String()
	for _, cmd := range allCommands {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
}

func TestCLI_ParsesViewFlags(t *testing.T) {
	t.Parallel()

	t.Run("accepts tri-state and repeatable status flags", func(t *testing.T) {
		t.Parallel()

		cli := &main.CLI{}
		parser, err := kong.New(cli, kong.Exit(func(int) {}))
		require.NoError(t, err)

		_, err = parser.Parse([]string{"list", "--website", "no", "--status", "contacted", "--status", "none", "--sort", "has-phone"})
		require.NoError(t, err)

		assert.Equal(t, "no", cli.List.Website)
		assert.Equal(t, "any", cli.List.Phone)
		assert.Equal(t, []string{"contacted", "none"}, cli.List.Status)
		assert.Equal(t, "has-phone", cli.List.Sort)
	})

	t.Run("rejects an unknown tri-state value", func(t *testing.T) {
		t.Parallel()

		cli := &main.CLI{}
		parser, err := kong.New(cli, kong.Exit(func(int) {}), kong.Writers(&bytes.Buffer{}, &bytes.Buffer{}))
		require.NoError(t, err)

		_, err = parser.Parse([]string{"list", "--website", "maybe"})
		require.Error(t, err)
	})

	t.Run("leaves unset update fields nil", func(t *testing.T) {
		t.Parallel()

		cli := &main.CLI{}
		parser, err := kong.New(cli, kong.Exit(func(int) {}))
		require.NoError(t, err)

		_, err = parser.Parse([]string{"update", "biz-1", "--phone", "555-0100"})
		require.NoError(t, err)

		require.NotNil(t, cli.Update.Phone)
		assert.Equal(t, "555-0100", *cli.Update.Phone)
		assert.Nil(t, cli.Update.Name)
		assert.Nil(t, cli.Update.Email)
	})
}

func TestMain_Run_HelpShowsKongOutput(t *testing.T) {
	t.Parallel()

	m := main.NewMain()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"--help"}, stdout, stderr)
	require.NoError(t, err)

	helpOutput := stdout.String()
	for _, cmd := range allCommands {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}

	assert.Contains(t, helpOutput, "Usage:", "Help should have Kong-style Usage prefix")
	assert.Contains(t, helpOutput, "Flags:", "Help should have Kong-style Flags section")
}
