package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranscriptAppendAndTruncate(t *testing.T) {
	var tr Transcript
	tr.Append(ChatRoleAssistant, "hello")
	tr.Append(ChatRoleUser, "2+2?")
	assert.Equal(t, 2, tr.Len())

	tr.Truncate(1)
	assert.Equal(t, Transcript{{Role: ChatRoleAssistant, Content: "hello"}}, tr)

	tr.Truncate(5)
	assert.Equal(t, 1, tr.Len())
}

func TestTranscriptFirstUserMessage(t *testing.T) {
	tr := Transcript{
		{Role: ChatRoleAssistant, Content: "How can I help you today?"},
		{Role: ChatRoleUser, Content: "  "},
		{Role: ChatRoleUser, Content: "What is Go?"},
	}

	msg, ok := tr.FirstUserMessage()
	assert.True(t, ok)
	assert.Equal(t, "What is Go?", msg)

	_, ok = Transcript{{Role: ChatRoleAssistant, Content: "hi"}}.FirstUserMessage()
	assert.False(t, ok)
}

func TestTranscriptCloneIsIndependent(t *testing.T) {
	tr := Transcript{{Role: ChatRoleUser, Content: "a"}}
	cl := tr.Clone()
	cl[0].Content = "b"

	assert.Equal(t, "a", tr[0].Content)
	assert.False(t, tr.Equal(cl))
	assert.True(t, tr.Equal(tr.Clone()))
}
