package persistence

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"breach-tactics/server/models"
)

// Archive files hold one save: a JSON header line followed by the
// scenario text. Paths ending in ".zst" are zstd compressed.

type archiveHeader struct {
	Name    string `json:"name"`
	Level   string `json:"level"`
	Turn    int    `json:"turn"`
	SavedAt string `json:"saved_at"`
}

// WriteArchive writes save to path, replacing any existing file
func WriteArchive(path string, save *models.SavedGame) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	var w io.Writer = f
	var enc *zstd.Encoder
	if compressed(path) {
		enc, err = zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			f.Close()
			return err
		}
		w = enc
	}

	werr := writeArchive(w, save)
	if enc != nil {
		if err := enc.Close(); err != nil && werr == nil {
			werr = err
		}
	}
	if err := f.Close(); err != nil && werr == nil {
		werr = err
	}
	return werr
}

func writeArchive(w io.Writer, save *models.SavedGame) error {
	bw := bufio.NewWriter(w)
	hb, err := json.Marshal(archiveHeader{
		Name:    save.Name,
		Level:   save.Level,
		Turn:    save.Turn,
		SavedAt: save.SavedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	if _, err := bw.WriteString(save.State); err != nil {
		return err
	}
	return bw.Flush()
}

// ReadArchive reads a save written by WriteArchive
func ReadArchive(path string) (*models.SavedGame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if compressed(path) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		r = dec
	}

	br := bufio.NewReader(r)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("%s: missing header: %w", path, err)
	}
	var hdr archiveHeader
	if err := json.Unmarshal(line, &hdr); err != nil {
		return nil, fmt.Errorf("%s: bad header: %w", path, err)
	}
	state, err := io.ReadAll(br)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	save := &models.SavedGame{
		Name:  hdr.Name,
		Level: hdr.Level,
		Turn:  hdr.Turn,
		State: string(state),
	}
	if hdr.SavedAt != "" {
		if err := save.SavedAt.UnmarshalText([]byte(hdr.SavedAt)); err != nil {
			return nil, fmt.Errorf("%s: bad timestamp: %w", path, err)
		}
	}
	return save, nil
}

func compressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}
