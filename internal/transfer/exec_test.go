// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transfer

import (
	"bytes"
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSExecutorOutput_SeparatesStderr(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}

	var stderr bytes.Buffer
	ex := &osExecutor{stderr: &stderr}
	out, err := ex.Output(context.Background(), sh, "-c", "echo out; echo err >&2")
	require.NoError(t, err)
	assert.Equal(t, "out\n", string(out))
	assert.Equal(t, "err\n", stderr.String())
}

func TestOSExecutorOutput_Failure(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}

	var stderr bytes.Buffer
	ex := &osExecutor{stderr: &stderr}
	out, err := ex.Output(context.Background(), sh, "-c", "echo partial; echo boom >&2; exit 3")
	require.Error(t, err)
	assert.Equal(t, "partial\n", string(out))
	assert.Equal(t, "boom\n", stderr.String())
}
