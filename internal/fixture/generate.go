package fixture

import (
	"encoding/binary"
	"math/rand/v2"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/boostgo/searchdir"
)

const (
	alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	nameLength      = 10
	extensionLength = 4

	dirChance     = 0.7
	descendChance = 0.6
	targetChance  = 1.0 / 12.0
)

// Item is the entry a generated tree hides somewhere below its root
type Item struct {
	Name string             `yaml:"name"`
	Type searchdir.ItemType `yaml:"type"`
}

// Entry is one created file or directory, relative to the tree root
type Entry struct {
	Path string             `yaml:"path"`
	Kind searchdir.ItemType `yaml:"kind"`
}

// Tree describes a generated tree
type Tree struct {
	Root    string  `yaml:"root"`
	Seed    uint64  `yaml:"seed"`
	Target  Item    `yaml:"target"`
	Placed  Entry   `yaml:"placed"`
	Entries []Entry `yaml:"entries"`
}

// Manifest renders the tree as YAML
func (t *Tree) Manifest() ([]byte, error) {
	return yaml.Marshal(t)
}

// NewRand returns a ChaCha8 generator seeded from seed
func NewRand(seed uint64) *rand.Rand {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	return rand.New(rand.NewChaCha8(key))
}

// Generate builds a random tree under root and hides target in it.
//
// Each step creates either a directory (and descends into it with some
// probability) or a file in the current directory, until a step places the
// target. The target goes into the directory the last step created, or next
// to the file it created. A target of type Either becomes a file or a directory at
// random. Generated names never equal the target name.
func Generate(root string, seed uint64, target Item) (*Tree, error) {
	if target.Name == "" || !target.Type.Valid() {
		return nil, ErrInvalidTarget.SetData(target)
	}

	rng := NewRand(seed)
	tree := &Tree{
		Root:   root,
		Seed:   seed,
		Target: target,
	}

	if err := createDir(root); err != nil {
		return nil, err
	}

	var next string
	current := root
	for {
		next = current
		if chance(rng, dirChance) {
			path := filepath.Join(current, DirName(rng, target.Name))
			if err := createDir(path); err != nil {
				return nil, err
			}
			tree.add(path, searchdir.Directory)

			next = path
			if chance(rng, descendChance) {
				current = path
			}
		} else {
			path := filepath.Join(current, FileName(rng, target.Name))
			if err := createFile(path); err != nil {
				return nil, err
			}
			tree.add(path, searchdir.File)
		}

		if chance(rng, targetChance) {
			break
		}
	}

	placed := target.Type
	if placed == searchdir.Either {
		placed = searchdir.File
		if chance(rng, 0.5) {
			placed = searchdir.Directory
		}
	}

	path := filepath.Join(next, target.Name)
	create := createFile
	if placed == searchdir.Directory {
		create = createDir
	}
	if err := create(path); err != nil {
		return nil, err
	}
	tree.Placed = tree.add(path, placed)

	return tree, nil
}

func (t *Tree) add(path string, kind searchdir.ItemType) Entry {
	rel, err := filepath.Rel(t.Root, path)
	if err != nil {
		rel = path
	}

	entry := Entry{Path: filepath.ToSlash(rel), Kind: kind}
	t.Entries = append(t.Entries, entry)
	return entry
}

// DirName returns a random directory name different from avoid
func DirName(rng *rand.Rand, avoid string) string {
	for {
		name := randomString(rng, nameLength)
		if name != avoid {
			return name
		}
	}
}

// FileName returns a random file name with an extension, different from avoid
func FileName(rng *rand.Rand, avoid string) string {
	for {
		name := randomString(rng, nameLength) + "." + randomString(rng, extensionLength)
		if name != avoid {
			return name
		}
	}
}

func randomString(rng *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphanumeric[rng.IntN(len(alphanumeric))]
	}
	return string(b)
}

func chance(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}
