package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/hilite/internal/log"
)

// SavePreset sets theme.preset in the config file, creating the file if
// needed. Comments and formatting in other sections are preserved.
func SavePreset(configPath, preset string) error {
	if err := ValidateTheme(ThemeConfig{Preset: preset}); err != nil {
		return err
	}
	return SaveValue(configPath, []string{"theme", "preset"}, preset)
}

// SaveValue sets the scalar at keys (a path of mapping keys) in the config
// file. Missing mappings along the path are created.
func SaveValue(configPath string, keys []string, value string) error {
	if len(keys) == 0 {
		return fmt.Errorf("saving config: empty key path")
	}

	// Read existing file content
	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	// Parse into yaml.Node to preserve comments
	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	// Empty, comment-only or new file - create document structure
	if doc.Kind == 0 || len(doc.Content) == 0 {
		comment := doc.HeadComment
		doc = yaml.Node{
			Kind:        yaml.DocumentNode,
			HeadComment: comment,
			Content:     []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("parsing config: top level is not a mapping")
	}

	node := root
	for _, k := range keys[:len(keys)-1] {
		node, err = childMapping(node, k)
		if err != nil {
			return err
		}
	}
	setScalar(node, keys[len(keys)-1], value)

	// Marshal back to YAML
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	if err := writeAtomic(configPath, buf.Bytes()); err != nil {
		return err
	}
	log.Info(log.CatConfig, "Saved config value", "path", configPath, "key", Key(keys...), "value", value)
	return nil
}

// childMapping returns the mapping stored under key, adding it when absent.
func childMapping(m *yaml.Node, key string) (*yaml.Node, error) {
	for i := 0; i < len(m.Content)-1; i += 2 {
		if m.Content[i].Value != key {
			continue
		}
		child := m.Content[i+1]
		switch {
		case child.Kind == yaml.MappingNode:
			return child, nil
		case child.Kind == yaml.ScalarNode && child.Tag == "!!null":
			*child = yaml.Node{Kind: yaml.MappingNode}
			return child, nil
		default:
			return nil, fmt.Errorf("config key %q is not a mapping", key)
		}
	}
	child := &yaml.Node{Kind: yaml.MappingNode}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, child)
	return child, nil
}

// setScalar replaces or appends key: value in mapping m.
func setScalar(m *yaml.Node, key, value string) {
	for i := 0; i < len(m.Content)-1; i += 2 {
		if m.Content[i].Value == key {
			v := m.Content[i+1]
			v.Kind = yaml.ScalarNode
			v.Tag = "!!str"
			v.Value = value
			v.Content = nil
			return
		}
	}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value},
	)
}

// writeAtomic writes data to path via a temp file and rename.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".hilite.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
