package trie

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash"

	"github.com/domino14/boop/move"
)

var ErrCorrupt = errors.New("trie data is corrupt")

const snapshotVersion = 1

// snapshot is the arena flattened into parallel slices. Node i owns
// Syms[start:start+NumEdges[i]] and the matching Children, where start is
// the sum of the earlier counts.
type snapshot struct {
	Version  int
	Values   []float64
	NumEdges []int32
	Syms     []byte
	Children []int32
}

func (t *Trie) snapshot() *snapshot {
	s := &snapshot{
		Version:  snapshotVersion,
		Values:   make([]float64, len(t.nodes)),
		NumEdges: make([]int32, len(t.nodes)),
	}
	for i, n := range t.nodes {
		s.Values[i] = n.value
		s.NumEdges[i] = int32(len(n.edges))
		for _, e := range n.edges {
			s.Syms = append(s.Syms, byte(e.sym))
			s.Children = append(s.Children, int32(e.child))
		}
	}
	return s
}

func (s *snapshot) rebuild() ([]node, error) {
	if s.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: unknown version %d", ErrCorrupt, s.Version)
	}
	n := len(s.Values)
	if n == 0 || len(s.NumEdges) != n || len(s.Syms) != len(s.Children) {
		return nil, fmt.Errorf("%w: inconsistent lengths", ErrCorrupt)
	}
	nodes := make([]node, n)
	parents := make([]int, n)
	pos := 0
	for i := range nodes {
		nodes[i].value = s.Values[i]
		ne := int(s.NumEdges[i])
		if ne < 0 || pos+ne > len(s.Syms) {
			return nil, fmt.Errorf("%w: node %d has too many edges", ErrCorrupt, i)
		}
		if ne > 0 {
			nodes[i].edges = make([]edge, ne)
		}
		for j := 0; j < ne; j++ {
			sym := move.Symbol(s.Syms[pos+j])
			child := s.Children[pos+j]
			// Children always follow their parent, which rules out cycles.
			if !sym.Valid() || int(child) <= i || int(child) >= n {
				return nil, fmt.Errorf("%w: bad edge out of node %d", ErrCorrupt, i)
			}
			if j > 0 && sym <= nodes[i].edges[j-1].sym {
				return nil, fmt.Errorf("%w: edges of node %d out of order", ErrCorrupt, i)
			}
			if parents[child]++; parents[child] > 1 {
				return nil, fmt.Errorf("%w: node %d has more than one parent", ErrCorrupt, child)
			}
			nodes[i].edges[j] = edge{sym: sym, child: NodeID(child)}
		}
		pos += ne
	}
	if pos != len(s.Syms) {
		return nil, fmt.Errorf("%w: trailing edges", ErrCorrupt)
	}
	for i := 1; i < n; i++ {
		if parents[i] == 0 {
			return nil, fmt.Errorf("%w: node %d is unreachable", ErrCorrupt, i)
		}
	}
	return nodes, nil
}

// Save writes the whole trie to w. The encoding is opaque; read it back
// with Load.
func (t *Trie) Save(w io.Writer) error {
	t.mu.RLock()
	snap := t.snapshot()
	t.mu.RUnlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return err
	}
	var footer [8]byte
	binary.LittleEndian.PutUint64(footer[:], xxhash.Sum64(buf.Bytes()))
	buf.Write(footer[:])
	_, err := buf.WriteTo(w)
	return err
}

// Load replaces the contents of the trie with what Save wrote. On error the
// trie is unchanged.
func (t *Trie) Load(r io.Reader) error {
	bts, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if len(bts) < 8 {
		return fmt.Errorf("%w: too short", ErrCorrupt)
	}
	payload, footer := bts[:len(bts)-8], bts[len(bts)-8:]
	if xxhash.Sum64(payload) != binary.LittleEndian.Uint64(footer) {
		return fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}
	var snap snapshot
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&snap); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	nodes, err := snap.rebuild()
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.nodes = nodes
	t.mu.Unlock()
	return nil
}

// SaveFile writes the trie to path, replacing it atomically.
func (t *Trie) SaveFile(path string) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := t.Save(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func (t *Trie) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return t.Load(f)
}

// LoadFile reads a trie saved with SaveFile.
func LoadFile(path string) (*Trie, error) {
	t := New()
	if err := t.LoadFile(path); err != nil {
		return nil, err
	}
	return t, nil
}
