package models

import "strings"

// NodeConfig is the configuration document a node serves from its config
// endpoint. Only the fields the client acts on are decoded.
type NodeConfig struct {
	Version string            `json:"version,omitempty"`
	Network string            `json:"network,omitempty"`
	Plugins map[string]Plugin `json:"plugins,omitempty"`
}

// Plugin describes one optional sub-service a node may expose.
type Plugin struct {
	Enabled bool `json:"enabled"`
	Port    int  `json:"port"`
}

// Plugin looks up a plugin by name. Nodes key plugins either by the bare
// name or by a scoped package name ("@vendor/core-api"), so a suffix match
// after the last slash is accepted too.
func (c NodeConfig) Plugin(name string) (Plugin, bool) {
	if c.Plugins == nil || name == "" {
		return Plugin{}, false
	}
	if plugin, ok := c.Plugins[name]; ok {
		return plugin, true
	}
	for key, plugin := range c.Plugins {
		if strings.HasSuffix(key, "/"+name) {
			return plugin, true
		}
	}
	return Plugin{}, false
}
