// Package fixture builds directory trees on disk for search tests, either
// from a YAML layout or at random from a seed.
package fixture

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644

	symlinkPrefix = "-> "
)

// FromYAML creates the tree described by layout under root. Every key of a
// mapping is an entry name; its value decides what is created:
//
//	name: file        empty regular file
//	name: dir         empty directory
//	name:             empty directory
//	name: {...}       directory with the nested entries
//	name: -> target   symbolic link to target
//
// Entries are created in document order.
func FromYAML(root string, layout []byte) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(layout, &doc); err != nil {
		return ErrParseLayout.SetError(err)
	}

	if err := createDir(root); err != nil {
		return err
	}

	if len(doc.Content) == 0 {
		return nil
	}

	top := doc.Content[0]
	if isNull(top) {
		return nil
	}
	if top.Kind != yaml.MappingNode {
		return newInvalidLayoutError(root, top.Line, "top level must be a mapping")
	}

	return build(root, top)
}

func build(dir string, node *yaml.Node) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		name := key.Value
		if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
			return newInvalidLayoutError(dir, key.Line, "invalid entry name "+name)
		}
		path := filepath.Join(dir, name)

		switch {
		case isNull(value):
			if err := createDir(path); err != nil {
				return err
			}
		case value.Kind == yaml.MappingNode:
			if err := createDir(path); err != nil {
				return err
			}
			if err := build(path, value); err != nil {
				return err
			}
		case value.Kind == yaml.ScalarNode:
			if err := createScalar(path, value); err != nil {
				return err
			}
		default:
			return newInvalidLayoutError(path, value.Line, "entry must be a scalar or a mapping")
		}
	}

	return nil
}

func createScalar(path string, value *yaml.Node) error {
	switch v := strings.TrimSpace(value.Value); {
	case v == "file":
		return createFile(path)
	case v == "dir":
		return createDir(path)
	case strings.HasPrefix(v, symlinkPrefix):
		target := strings.TrimSpace(strings.TrimPrefix(v, symlinkPrefix))
		if target == "" {
			return newInvalidLayoutError(path, value.Line, "symlink without target")
		}
		return createSymlink(target, path)
	default:
		return newInvalidLayoutError(path, value.Line, "unknown entry kind "+v)
	}
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}

func createDir(path string) error {
	if err := os.MkdirAll(path, dirPerm); err != nil {
		return newCreateDirectoryError(path, err)
	}
	return nil
}

func createFile(path string) error {
	if err := os.WriteFile(path, nil, filePerm); err != nil {
		return newCreateFileError(path, err)
	}
	return nil
}

func createSymlink(target, path string) error {
	if err := os.Symlink(filepath.FromSlash(target), path); err != nil {
		return newCreateSymlinkError(path, err)
	}
	return nil
}
