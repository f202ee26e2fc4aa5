package research

import (
	"testing"

	"github.com/hupe1980/agentmesh/core"
	"github.com/stretchr/testify/assert"
)

func TestTaskStatusTerminal(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		terminal bool
	}{
		{StatusQueued, false},
		{StatusRunning, false},
		{StatusCompleted, true},
		{StatusFailed, true},
		{StatusCancelled, true},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.terminal, tc.status.Terminal(), "status %s", tc.status)
	}
}

func TestEventText(t *testing.T) {
	ev := core.Event{
		Content: &core.Content{
			Role: "assistant",
			Parts: []core.Part{
				core.TextPart{Text: "first "},
				core.TextPart{Text: "second"},
			},
		},
	}
	assert.Equal(t, "first second", eventText(ev))

	assert.Empty(t, eventText(core.Event{}), "nil content yields empty text")
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", preview("short", 10))
	assert.Equal(t, "1234567890", preview("1234567890abc", 10))
}

func TestResearcherInstructionMentionsTools(t *testing.T) {
	text := researcherInstruction(styleBalanced)
	assert.Contains(t, text, "search_documents")
	assert.Contains(t, text, "search_web")
	assert.Contains(t, text, "recall_context")
	assert.Contains(t, text, "store_memory")
	assert.Contains(t, text, styleBalanced)
}
