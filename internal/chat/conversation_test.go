package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversationIDCommutative(t *testing.T) {
	pairs := [][2]string{
		{"alice@example.com", "dr-sarah-johnson"},
		{"dr-sarah-johnson", "alice@example.com"},
		{"a", "b"},
		{"b", "a"},
		{"user.one#x", "user$two[3]"},
	}
	for _, p := range pairs {
		assert.Equal(t, ConversationID(p[0], p[1]), ConversationID(p[1], p[0]), "pair %v", p)
	}
}

func TestConversationIDSanitizesStoreKeys(t *testing.T) {
	id := ConversationID("a.b#c", "d$e[f]")
	assert.Equal(t, "a_b_c_d_e_f_", id)
	assert.NotContains(t, id, ".")
	assert.NotContains(t, id, "#")
	assert.NotContains(t, id, "$")
	assert.NotContains(t, id, "[")
	assert.NotContains(t, id, "]")
}

func TestConversationIDSortsLexicographically(t *testing.T) {
	assert.Equal(t, "abc_xyz", ConversationID("xyz", "abc"))
	assert.Equal(t, "abc_xyz", ConversationID("abc", "xyz"))
}
