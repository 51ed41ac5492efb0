package sprite

import (
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"

	"github.com/matzehuels/iconsprite/pkg/errors"
)

const (
	documentOpen  = `<svg xmlns="http://www.w3.org/2000/svg" style="display: none;">`
	documentClose = `</svg>`
)

// Symbol is one icon of the sprite.
type Symbol struct {
	ID         string
	Attributes string // root attributes of the source icon, already cleaned
	Content    string
}

// String renders the symbol element.
func (s Symbol) String() string {
	var b bytes.Buffer
	s.writeTo(&b)
	return b.String()
}

func (s Symbol) writeTo(b *bytes.Buffer) {
	b.WriteString(`<symbol id="`)
	_ = xml.EscapeText(b, []byte(s.ID))
	b.WriteByte('"')
	if s.Attributes != "" {
		b.WriteByte(' ')
		b.WriteString(s.Attributes)
	}
	b.WriteByte('>')
	b.WriteString(s.Content)
	b.WriteString("</symbol>")
}

// Document is an ordered list of symbols wrapped in a hidden root element.
type Document struct {
	Symbols []Symbol
}

// Add appends a symbol.
func (d *Document) Add(s Symbol) {
	d.Symbols = append(d.Symbols, s)
}

// Len returns the number of symbols.
func (d *Document) Len() int {
	return len(d.Symbols)
}

// IDs returns the symbol ids in document order.
func (d *Document) IDs() []string {
	ids := make([]string, len(d.Symbols))
	for i, s := range d.Symbols {
		ids[i] = s.ID
	}
	return ids
}

// Bytes renders the sprite. Symbols are concatenated without separators.
func (d *Document) Bytes() []byte {
	var b bytes.Buffer
	b.WriteString(documentOpen)
	for _, s := range d.Symbols {
		s.writeTo(&b)
	}
	b.WriteString(documentClose)
	return b.Bytes()
}

// WriteFile replaces path with data. Parent directories are created and the
// data is written to a temporary file in the same directory first, so readers
// never observe a partial sprite.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.KindWrite, err, "failed to create %s", dir).WithPath(path)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(errors.KindWrite, err, "failed to write %s", path).WithPath(path)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.KindWrite, err, "failed to write %s", path).WithPath(path)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(errors.KindWrite, err, "failed to sync %s", path).WithPath(path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.KindWrite, err, "failed to write %s", path).WithPath(path)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return errors.Wrap(errors.KindWrite, err, "failed to write %s", path).WithPath(path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(errors.KindWrite, err, "failed to replace %s", path).WithPath(path)
	}
	return nil
}
