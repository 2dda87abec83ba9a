package topo

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ringYAML = `
name: ring
nodes:
  - {name: s1, kind: switch}
  - {name: s2, kind: switch}
  - {name: h1, kind: host, ip: 10.0.0.1/24, mac: "00:00:00:00:00:01"}
  - {name: h2, kind: host, ip: 0.0.0.0}
links:
  - {nodeA: h1, nodeB: s1, shaped: true, properties: {latency: 10, rate: 100}}
  - {nodeA: h2, nodeB: s2}
  - {nodeA: s1, nodeB: s2}
`

func TestParse(t *testing.T) {
	topology, err := Parse([]byte(ringYAML))
	require.NoError(t, err)

	assert.Equal(t, "ring", topology.Name)
	switches, hosts := Counts(topology)
	assert.Equal(t, 2, switches)
	assert.Equal(t, 2, hosts)
	require.Len(t, topology.Links, 3)
	assert.True(t, topology.Links[0].Shaped)
	assert.EqualValues(t, 10, topology.Links[0].Properties.Latency)
	assert.EqualValues(t, 100, topology.Links[0].Properties.Rate)
	assert.False(t, HasCycle(topology))
}

func TestParseRejectsDanglingLink(t *testing.T) {
	_, err := Parse([]byte(`
name: broken
nodes:
  - {name: s1, kind: switch}
links:
  - {nodeA: h1, nodeB: s1}
`))
	assert.ErrorIs(t, err, ErrDanglingLink)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mytopo.yaml")
	require.NoError(t, Save(FinalProject(), path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, FinalProject(), loaded)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
