// Package config loads and validates this node's configuration, grounded in
// the teacher corpus's viper-based cmd/scheduler/cmd bootstrap, but
// validated all-at-once via multierror rather than the teacher's
// fail-on-first-unmarshal-error style, per SPEC_FULL.md §7.
package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix viper uses for environment-variable overrides,
// e.g. URLCOUNTER_NODE_ID.
const EnvPrefix = "urlcounter"

// Config is the full node configuration: this node's identity, the
// clusterwide topology, and ambient concerns (logging, RPC timeouts).
type Config struct {
	NodeID    string            `mapstructure:"node_id"`
	Listen    string            `mapstructure:"listen"`
	Nodes     map[string]string `mapstructure:"nodes"` // node id -> base URL, including self
	RPCTimeout time.Duration    `mapstructure:"rpc_timeout"`
	Verbose   bool              `mapstructure:"verbose"`
	LogFile   string            `mapstructure:"log_file"`
}

// Default returns a Config with the same conservative defaults the teacher
// corpus hardcodes into its own config.SchedulerConfig package var, before
// any file or environment override is applied.
func Default() Config {
	return Config{
		Listen:     ":8080",
		RPCTimeout: 2 * time.Second,
	}
}

// Load reads configFile (if non-empty) and environment overrides into a
// Config seeded from Default.
func Load(configFile string) (Config, error) {
	v := viper.New()
	cfg := Default()

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// Unmarshal only sees keys viper already knows, so each scalar key is
	// bound explicitly; nodes is read from the config file only.
	for _, key := range []string{"node_id", "listen", "rpc_timeout", "verbose", "log_file"} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("config: binding env for %q: %w", key, err)
		}
	}

	if configFile != "" {
		v.AddConfigPath(filepath.Dir(configFile))
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: reading %q: %w", configFile, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshaling: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid field at once via multierror, rather than
// returning on the first violation, so an operator fixing a bad config file
// sees every problem in a single run.
func (c Config) Validate() error {
	var errs error

	if c.NodeID == "" {
		errs = multierror.Append(errs, fmt.Errorf("config: node_id must not be empty"))
	}
	if c.Listen == "" {
		errs = multierror.Append(errs, fmt.Errorf("config: listen must not be empty"))
	}
	if len(c.Nodes) == 0 {
		errs = multierror.Append(errs, fmt.Errorf("config: nodes must list at least this node"))
	} else if _, ok := c.Nodes[c.NodeID]; !ok && c.NodeID != "" {
		errs = multierror.Append(errs, fmt.Errorf("config: node_id %q is not present in nodes", c.NodeID))
	}
	if c.RPCTimeout < 0 {
		errs = multierror.Append(errs, fmt.Errorf("config: rpc_timeout must not be negative"))
	}

	return errs
}

// NodeList returns the configured node identities in a stable, sorted
// order, suitable for passing to topology.New.
func (c Config) NodeList() []string {
	nodes := make([]string, 0, len(c.Nodes))
	for id := range c.Nodes {
		nodes = append(nodes, id)
	}
	sort.Strings(nodes)
	return nodes
}
