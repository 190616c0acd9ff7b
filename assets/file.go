package assets

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	glbMagic     = 0x46546C67 // "glTF"
	glbChunkJSON = 0x4E4F534A // "JSON"
	glbHeaderLen = 12
	glbChunkHdr  = 8

	// maxJSONChunk bounds how much of a GLB JSON chunk is read for validation
	maxJSONChunk = 16 << 20
)

// gltfDoc is the subset of a glTF document needed for validation.
type gltfDoc struct {
	Asset struct {
		Version string `json:"version"`
	} `json:"asset"`
	Meshes []json.RawMessage `json:"meshes"`
}

// FileLoader loads .glb and .gltf files from a directory. It validates the
// container header and document, and records the path for the renderer.
type FileLoader struct {
	Dir string
}

// NewFileLoader creates a loader rooted at dir.
func NewFileLoader(dir string) *FileLoader {
	return &FileLoader{Dir: dir}
}

// Load implements Loader. id is a file name relative to Dir.
func (l *FileLoader) Load(ctx context.Context, id string) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(l.Dir, filepath.FromSlash(id))
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrUnknownAsset, id, err)
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	m := &Model{ID: id, Path: path, Size: info.Size()}
	var doc *gltfDoc
	switch strings.ToLower(filepath.Ext(id)) {
	case ".glb":
		m.Format = FormatGLB
		doc, err = readGLB(f, info.Size())
	case ".gltf":
		m.Format = FormatGLTF
		doc, err = readGLTF(f)
	default:
		return nil, fmt.Errorf("%w: %s: unsupported extension", ErrInvalidModel, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidModel, id, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return nil, fmt.Errorf("%w: %s: unsupported glTF version %q", ErrInvalidModel, id, doc.Asset.Version)
	}
	m.Version = doc.Asset.Version
	m.Meshes = len(doc.Meshes)
	return m, nil
}

func readGLB(r io.Reader, size int64) (*gltfDoc, error) {
	var hdr [glbHeaderLen + glbChunkHdr]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	magic := binary.LittleEndian.Uint32(hdr[0:4])
	version := binary.LittleEndian.Uint32(hdr[4:8])
	length := binary.LittleEndian.Uint32(hdr[8:12])
	if magic != glbMagic {
		return nil, fmt.Errorf("bad magic %#x", magic)
	}
	if version != 2 {
		return nil, fmt.Errorf("container version %d", version)
	}
	if int64(length) > size {
		return nil, fmt.Errorf("declared length %d exceeds file size %d", length, size)
	}

	chunkLen := binary.LittleEndian.Uint32(hdr[12:16])
	chunkType := binary.LittleEndian.Uint32(hdr[16:20])
	if chunkType != glbChunkJSON {
		return nil, fmt.Errorf("first chunk type %#x is not JSON", chunkType)
	}
	if chunkLen > maxJSONChunk || int64(chunkLen) > size-glbHeaderLen-glbChunkHdr {
		return nil, fmt.Errorf("JSON chunk length %d out of range", chunkLen)
	}

	buf := make([]byte, chunkLen)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("reading JSON chunk: %w", err)
	}
	return decodeDoc(bytes.NewReader(buf))
}

func readGLTF(r io.Reader) (*gltfDoc, error) {
	return decodeDoc(io.LimitReader(r, maxJSONChunk))
}

func decodeDoc(r io.Reader) (*gltfDoc, error) {
	var doc gltfDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return &doc, nil
}
