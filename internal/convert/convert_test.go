package convert

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_DryRunProducesBlocksWithoutNotionCall(t *testing.T) {
	req := Request{
		ContentHTML: `<article><p>Set <code>sys_id</code> to the record ID.</p></article>`,
		DryRun:      true,
	}

	result, err := Run(context.Background(), Deps{}, req)

	require.NoError(t, err)
	require.NotEmpty(t, result.Blocks)
	assert.False(t, result.Progress.PageCreated)
	assert.Empty(t, result.PageID)
}

func TestRun_DryRunDetectsVideo(t *testing.T) {
	req := Request{
		ContentHTML: `<article><iframe src="https://www.youtube.com/embed/abc123"></iframe></article>`,
		DryRun:      true,
	}

	result, err := Run(context.Background(), Deps{}, req)

	require.NoError(t, err)
	assert.True(t, result.HasVideos)
}
