package server

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/scopekit/scopeserve/pkg/config"
	"github.com/scopekit/scopeserve/pkg/fuzzy"
	"github.com/scopekit/scopeserve/pkg/gate"
	"github.com/scopekit/scopeserve/pkg/pool"
	"github.com/scopekit/scopeserve/pkg/rank"
	"github.com/scopekit/scopeserve/pkg/resolve"
	"github.com/scopekit/scopeserve/pkg/selector"
)

func newTestSession(t *testing.T) *selector.Selector {
	t.Helper()
	index := pool.NewFileIndex(pool.StaticLister{Paths: []string{
		"src/util/parse.go",
		"src/util/format.go",
		"src/main.go",
	}}, time.Minute)
	t.Cleanup(index.Close)

	g := gate.New()
	ranker := rank.NewRanker(fuzzy.NewScorer, rank.Options{})
	providers := map[gate.Mode]pool.Provider{
		gate.Files:   pool.FilesProvider{Index: index},
		gate.Folders: pool.FoldersProvider{Index: index},
	}
	s := selector.New(g, ranker, providers, &resolve.Resolver{Index: index})
	t.Cleanup(s.Close)
	return s
}

// runServer feeds the encoded requests through a server instance and
// returns a decoder over everything it wrote back.
func runServer(t *testing.T, requests ...Request) *msgpack.Decoder {
	t.Helper()

	var in, out bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, req := range requests {
		require.NoError(t, enc.Encode(req))
	}

	srv := NewServerIO(newTestSession(t), config.DefaultConfig(), &in, &out)
	require.NoError(t, srv.Start(), "server should exit cleanly on EOF")

	return msgpack.NewDecoder(&out)
}

func TestCompleteRoundTrip(t *testing.T) {
	dec := runServer(t, Request{ID: "r1", Op: "complete", Pattern: "parse"})

	var resp CompleteResponse
	require.NoError(t, dec.Decode(&resp))

	assert.Equal(t, "r1", resp.ID)
	assert.Equal(t, "files", resp.Mode)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "parse.go", resp.Suggestions[0].Short)
	assert.Equal(t, "src/util/parse.go", resp.Suggestions[0].Value)
	assert.Equal(t, uint16(1), resp.Suggestions[0].Rank)
}

func TestCompleteRespectsLimit(t *testing.T) {
	dec := runServer(t, Request{ID: "r1", Op: "complete", Pattern: "go", Limit: 1})

	var resp CompleteResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, 1, resp.Count)
}

func TestCompleteValidation(t *testing.T) {
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'a'
	}

	dec := runServer(t,
		Request{ID: "r1", Op: "complete"},
		Request{ID: "r2", Op: "complete", Pattern: string(long)},
	)

	var errResp RequestError
	require.NoError(t, dec.Decode(&errResp))
	assert.Equal(t, "r1", errResp.ID)
	assert.Equal(t, 400, errResp.Code)

	require.NoError(t, dec.Decode(&errResp))
	assert.Equal(t, "r2", errResp.ID)
	assert.Equal(t, 400, errResp.Code)
}

func TestModeAndCaps(t *testing.T) {
	dec := runServer(t,
		// classes is gated off until capabilities arrive
		Request{ID: "m1", Op: "mode", Mode: "classes"},
		Request{ID: "c1", Op: "caps", Ready: true, Skeleton: true},
		Request{ID: "m2", Op: "mode", Mode: "classes"},
		Request{ID: "m3", Op: "mode", Mode: "bogus"},
	)

	var m ModeResponse
	require.NoError(t, dec.Decode(&m))
	assert.False(t, m.Switched)
	assert.Equal(t, "files", m.Mode)

	var c CapsResponse
	require.NoError(t, dec.Decode(&c))
	assert.Equal(t, "files", c.Mode)
	assert.ElementsMatch(t, []string{"files", "folders", "classes"}, c.Enabled)

	require.NoError(t, dec.Decode(&m))
	assert.True(t, m.Switched)
	assert.Equal(t, "classes", m.Mode)

	var e RequestError
	require.NoError(t, dec.Decode(&e))
	assert.Equal(t, "m3", e.ID)
}

func TestConfirmRoundTrip(t *testing.T) {
	dec := runServer(t,
		Request{ID: "m1", Op: "mode", Mode: "folders"},
		Request{ID: "cf1", Op: "confirm", Text: "src/util", Summarize: true},
	)

	var m ModeResponse
	require.NoError(t, dec.Decode(&m))
	require.True(t, m.Switched)

	var resp ConfirmResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, 2, resp.Count)
	for _, f := range resp.Fragments {
		assert.Equal(t, "folders", f.Origin)
		assert.True(t, f.Summarize)
		assert.False(t, f.Symbol)
	}
}

func TestHealthAndUnknownOp(t *testing.T) {
	dec := runServer(t,
		Request{ID: "h1", Op: "health"},
		Request{ID: "x1", Op: "explode"},
	)

	var health map[string]string
	require.NoError(t, dec.Decode(&health))
	assert.Equal(t, "ok", health["status"])

	var e RequestError
	require.NoError(t, dec.Decode(&e))
	assert.Equal(t, "x1", e.ID)
	assert.Equal(t, 400, e.Code)
}
