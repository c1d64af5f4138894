package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestNormalizeDropsMalformedRows(t *testing.T) {
	n := NewNormalizer(nil)
	raw := []RawMessage{
		{Body: strptr("hola"), IsUser: true},
		{Body: nil, IsUser: false},
		{Body: strptr(""), IsUser: true},
		{Body: strptr("¡hola! ¿en qué puedo ayudarte?"), IsUser: false},
	}

	turns := n.Normalize(raw, "")

	require.Len(t, turns, 2)
	assert.Equal(t, RoleUser, turns[0].Role)
	assert.Equal(t, "hola", turns[0].Content)
	assert.Equal(t, RoleAssistant, turns[1].Role)
}

func TestNormalizeRestoresChronologicalOrder(t *testing.T) {
	n := NewNormalizer(nil)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	// Newest-first, as the store returns rows.
	raw := []RawMessage{
		{Body: strptr("tercero"), IsUser: true, CreatedAt: base.Add(2 * time.Minute)},
		{Body: strptr("segundo"), IsUser: false, CreatedAt: base.Add(time.Minute)},
		{Body: strptr("primero"), IsUser: true, CreatedAt: base},
	}

	turns := n.Normalize(raw, "")

	require.Len(t, turns, 3)
	assert.Equal(t, "primero", turns[0].Content)
	assert.Equal(t, "segundo", turns[1].Content)
	assert.Equal(t, "tercero", turns[2].Content)
}

func TestNormalizeKeepsChronologicalInput(t *testing.T) {
	n := NewNormalizer(nil)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	raw := []RawMessage{
		{Body: strptr("primero"), IsUser: true, CreatedAt: base},
		{Body: strptr("segundo"), IsUser: false, CreatedAt: base.Add(time.Minute)},
	}

	turns := n.Normalize(raw, "")

	require.Len(t, turns, 2)
	assert.Equal(t, "primero", turns[0].Content)
}

func TestNormalizeAppendsCurrentMessageLast(t *testing.T) {
	n := NewNormalizer(nil)
	raw := []RawMessage{
		{Body: strptr("hola"), IsUser: true},
	}

	turns := n.Normalize(raw, "¿qué programas ofrecen?")

	require.Len(t, turns, 2)
	last := turns[len(turns)-1]
	assert.Equal(t, RoleUser, last.Role)
	assert.Equal(t, "¿qué programas ofrecen?", last.Content)
}

func TestNormalizeEmptyInput(t *testing.T) {
	n := NewNormalizer(nil)

	turns := n.Normalize(nil, "primer mensaje")

	require.Len(t, turns, 1)
	assert.Equal(t, "primer mensaje", turns[0].Content)
}
