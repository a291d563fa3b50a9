package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
)

func ids(listings []model.Listing) []string {
	out := make([]string, len(listings))
	for i, l := range listings {
		out[i] = l.ID
	}
	return out
}

func TestMergeRanking(t *testing.T) {
	listings := []model.Listing{listing("a", "A"), listing("b", "B"), listing("c", "C"), listing("d", "D")}

	tests := []struct {
		name   string
		ranked []string
		want   []string
	}{
		{name: "full ranking", ranked: []string{"d", "c", "b", "a"}, want: []string{"d", "c", "b", "a"}},
		{name: "partial ranking keeps rest in order", ranked: []string{"c"}, want: []string{"c", "a", "b", "d"}},
		{name: "unknown ids ignored", ranked: []string{"x", "b", "y"}, want: []string{"b", "a", "c", "d"}},
		{name: "repeated ids ignored", ranked: []string{"b", "b", "a", "b"}, want: []string{"b", "a", "c", "d"}},
		{name: "empty ranking", ranked: nil, want: []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(MergeRanking(listings, tt.ranked)))
		})
	}
}

func TestMergeRanking_DuplicateInputIDs(t *testing.T) {
	first := listing("a", "first")
	second := listing("a", "second")
	out := MergeRanking([]model.Listing{first, listing("b", "B"), second}, []string{"a", "b"})

	require.Len(t, out, 3)
	assert.Equal(t, "first", out[0].Title)
	assert.Equal(t, "b", out[1].ID)
	assert.Equal(t, "second", out[2].Title)
}

func TestMergeRanking_AlwaysPermutation(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for round := 0; round < 200; round++ {
		n := r.Intn(12)
		listings := make([]model.Listing, n)
		for i := range listings {
			listings[i] = listing(fmt.Sprintf("l%d", i), "item")
		}
		ranked := make([]string, r.Intn(15))
		for i := range ranked {
			ranked[i] = fmt.Sprintf("l%d", r.Intn(n+3))
		}

		out := MergeRanking(listings, ranked)
		assert.ElementsMatch(t, ids(listings), ids(out), "round %d", round)
	}
}

func TestRanker_ShortCircuits(t *testing.T) {
	one := []model.Listing{listing("a", "A")}
	many := []model.Listing{listing("a", "A"), listing("b", "B")}

	chat := newFakeChat(map[string]string{"ranking": `{"rankedIds":["b","a"]}`})
	assert.Equal(t, one, NewRanker(chat, 200, zap.NewNop()).Rank(context.Background(), "q", one))
	assert.Zero(t, chat.callCount())

	disabled := &fakeChat{enabled: false}
	assert.Equal(t, many, NewRanker(disabled, 200, zap.NewNop()).Rank(context.Background(), "q", many))
	assert.Equal(t, many, NewRanker(nil, 200, zap.NewNop()).Rank(context.Background(), "q", many))
	assert.Zero(t, disabled.callCount())
}

func TestRanker_AppliesModelOrder(t *testing.T) {
	listings := []model.Listing{listing("a", "Hammer"), listing("b", "Drill"), listing("c", "Saw")}
	chat := newFakeChat(map[string]string{"ranking": `{"rankedIds":["b","c"]}`})

	out := NewRanker(chat, 200, zap.NewNop()).Rank(context.Background(), "drill", listings)
	assert.Equal(t, []string{"b", "c", "a"}, ids(out))

	require.Len(t, chat.calls, 1)
	assert.Equal(t, "ranking", chat.calls[0].Operation)
	assert.True(t, strings.HasPrefix(chat.calls[0].User, "Query: drill\nCandidates: "))
}

func TestRanker_SendsTruncatedDescriptions(t *testing.T) {
	long := listing("a", "Camera")
	long.Description = strings.Repeat("é", 50)
	chat := newFakeChat(map[string]string{"ranking": `{"rankedIds":["a"]}`})

	NewRanker(chat, 10, zap.NewNop()).Rank(context.Background(), "camera", []model.Listing{long, listing("b", "Tripod")})

	require.Len(t, chat.calls, 1)
	payload := strings.SplitN(chat.calls[0].User, "Candidates: ", 2)[1]
	var candidates []map[string]string
	require.NoError(t, json.Unmarshal([]byte(payload), &candidates))
	require.Len(t, candidates, 2)
	assert.Equal(t, strings.Repeat("é", 10), candidates[0]["description"])
	assert.Equal(t, "Tools", candidates[0]["category"])
	assert.NotContains(t, candidates[0], "price")
}

func TestRanker_FailuresKeepOrder(t *testing.T) {
	listings := []model.Listing{listing("a", "A"), listing("b", "B"), listing("c", "C")}

	tests := []struct {
		name string
		chat *fakeChat
	}{
		{name: "model error", chat: &fakeChat{enabled: true, err: errors.New("rate limited")}},
		{name: "not json", chat: newFakeChat(map[string]string{"ranking": "b, a, c"})},
		{name: "missing rankedIds", chat: newFakeChat(map[string]string{"ranking": `{"order":["b"]}`})},
		{name: "wrong element type", chat: newFakeChat(map[string]string{"ranking": `{"rankedIds":[1,2]}`})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewRanker(tt.chat, 200, zap.NewNop()).Rank(context.Background(), "q", listings)
			assert.Equal(t, []string{"a", "b", "c"}, ids(out))
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héll", truncateRunes("héllo", 4))
	assert.Equal(t, "hi", truncateRunes("hi", 4))
	assert.Equal(t, "hello", truncateRunes("hello", 0))
}
