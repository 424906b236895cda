package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/blockmodel/block"
	"github.com/inference-sim/blockmodel/block/modelio"
	"github.com/inference-sim/blockmodel/block/predict"
	"github.com/inference-sim/blockmodel/graph"
)

// fittedTwoCliques writes two disjoint K5 to disk, labels each clique as
// its own group, and returns the model as read back from the plain format.
func fittedTwoCliques(t *testing.T) (*block.Undirected, string) {
	t.Helper()
	dir := t.TempDir()
	graphPath := filepath.Join(dir, "cliques.txt")
	f, err := os.Create(graphPath)
	require.NoError(t, err)
	require.NoError(t, graph.WriteEdgelist(f, graph.DisjointUnion(graph.Full(5), graph.Full(5))))
	require.NoError(t, f.Close())

	g, err := graph.Load(graphPath)
	require.NoError(t, err)
	fitted, err := block.NewUndirected(g, 2)
	require.NoError(t, err)
	require.NoError(t, fitted.SetTypes([]int{0, 0, 0, 0, 0, 1, 1, 1, 1, 1}))

	var buf bytes.Buffer
	require.NoError(t, (&modelio.PlainTextWriter{}).Write(&buf, fitted))
	m, filename, err := modelio.Read(&buf)
	require.NoError(t, err)
	return m, filename
}

func TestAttachGraph_BindsRecordedGraph(t *testing.T) {
	// GIVEN a model whose INFO section names the graph it was fitted to
	m, filename := fittedTwoCliques(t)
	require.NotEmpty(t, filename)

	// WHEN the graph is attached
	attachGraph(m, filename)

	// THEN the model is bound and its likelihood is that of a perfect split
	require.NotNil(t, m.Graph())
	assert.Equal(t, 20, m.Graph().EdgeCount())
	assert.InDelta(t, 0.0, m.LogLikelihood(), 1e-12)
}

func TestAttachGraph_MissingGraphKeepsModelUnbound(t *testing.T) {
	m, _ := fittedTwoCliques(t)

	attachGraph(m, filepath.Join(t.TempDir(), "gone.txt"))

	assert.Nil(t, m.Graph())
	assert.Equal(t, 1.0, m.Probability(0, 0), "supplied probabilities survive")
}

func TestAttachGraph_VertexCountMismatch(t *testing.T) {
	m, _ := fittedTwoCliques(t)
	path := filepath.Join(t.TempDir(), "small.txt")
	require.NoError(t, os.WriteFile(path, []byte("0 1\n"), 0o644))

	attachGraph(m, path)

	assert.Nil(t, m.Graph())
}

func TestSamplePredictions_SingleSampleIsStartingState(t *testing.T) {
	// GIVEN the bound two-clique model
	m, filename := fittedTwoCliques(t)
	attachGraph(m, filename)

	// WHEN one sample is requested
	cfg := predict.Config{SamplingFreq: 0.1, Samples: 1}
	preds, err := samplePredictions(context.Background(), m, cfg, 42, true)
	require.NoError(t, err)

	// THEN every pair is listed and the 20 intra-clique pairs come first with probability 1
	require.Len(t, preds, 45)
	for i, p := range preds {
		if i < 20 {
			assert.Equal(t, 1.0, p.P, "pair %d-%d", p.U, p.V)
			assert.Equal(t, p.U < 5, p.V < 5, "pair %d-%d must be inside one clique", p.U, p.V)
		} else {
			assert.Equal(t, 0.0, p.P, "pair %d-%d", p.U, p.V)
		}
	}
}

func TestSamplePredictions_ManySamplesNeedGraph(t *testing.T) {
	m, _ := fittedTwoCliques(t)

	_, err := samplePredictions(context.Background(), m, predict.Config{SamplingFreq: 1, Samples: 5}, 42, false)

	assert.ErrorIs(t, err, predict.ErrNoGraph)
}

func TestSamplePredictions_AveragesChain(t *testing.T) {
	m, filename := fittedTwoCliques(t)
	attachGraph(m, filename)

	cfg := predict.Config{SamplingFreq: 0.5, Samples: 200}
	preds, err := samplePredictions(context.Background(), m, cfg, 7, false)
	require.NoError(t, err)

	require.Len(t, preds, 45)
	for _, p := range preds {
		assert.GreaterOrEqual(t, p.P, 0.0)
		assert.LessOrEqual(t, p.P, 1.0)
	}
}

func TestWritePredictions(t *testing.T) {
	var out bytes.Buffer
	err := writePredictions(&out, []predict.Prediction{{U: 0, V: 1, P: 0.5}, {U: 0, V: 2, P: 1}, {U: 1, V: 2, P: 0.123456789}})
	require.NoError(t, err)
	assert.Equal(t, "0\t1\t0.5\n0\t2\t1\n1\t2\t0.123457\n", out.String())
}
