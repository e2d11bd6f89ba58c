package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/keboola/ai-kit/cmd"
)

func TestPrintVersion(t *testing.T) {
	origVersion, origCommit, origDate := cmd.Version, cmd.Commit, cmd.Date
	t.Cleanup(func() { cmd.Version, cmd.Commit, cmd.Date = origVersion, origCommit, origDate })

	cmd.Version, cmd.Commit, cmd.Date = "1.2.3", "abc1234", "2026-01-02"

	var out bytes.Buffer
	printVersion(&out)
	assert.Equal(t, "aikit version 1.2.3\n  commit: abc1234\n  built:  2026-01-02\n", out.String())
}
