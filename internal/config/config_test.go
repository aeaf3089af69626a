package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_EmptyConfigReportsAllViolations(t *testing.T) {
	c := Config{}
	err := c.Validate()
	assert.ErrorContains(t, err, "node_id")
	assert.ErrorContains(t, err, "listen")
	assert.ErrorContains(t, err, "nodes")
}

func TestValidate_NodeIDNotInNodes(t *testing.T) {
	c := Default()
	c.NodeID = "node-9"
	c.Nodes = map[string]string{"node-1": "http://node-1:8080"}

	err := c.Validate()
	assert.ErrorContains(t, err, `"node-9"`)
}

func TestValidate_Valid(t *testing.T) {
	c := Default()
	c.NodeID = "node-1"
	c.Nodes = map[string]string{"node-1": "http://node-1:8080", "node-2": "http://node-2:8080"}

	assert.NoError(t, c.Validate())
}

func TestNodeList_IsSorted(t *testing.T) {
	c := Default()
	c.Nodes = map[string]string{"node-3": "", "node-1": "", "node-2": ""}

	assert.Equal(t, []string{"node-1", "node-2", "node-3"}, c.NodeList())
}
