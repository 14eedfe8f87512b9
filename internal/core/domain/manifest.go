package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// ManifestFile is the name of the per-checkout record written next to the
// extracted sources.
const ManifestFile = ".hex"

// Manifest is the durable record of what is currently checked out at a
// destination directory. Checksum and Managers may be empty.
type Manifest struct {
	Name     string
	Version  string
	Checksum string
	Managers []string
}

// Encode renders the manifest in its two-line text form: the first line is
// "name,version,checksum" (checksum empty when absent), the second the
// comma-joined manager identifiers (empty when none).
func (m *Manifest) Encode() string {
	return m.EncodeLegacy() + "\n" + strings.Join(m.Managers, ",")
}

// EncodeLegacy renders the historical one-line form without the managers
// line. Kept for hosts that predate manager tracking.
func (m *Manifest) EncodeLegacy() string {
	return strings.Join([]string{m.Name, m.Version, m.Checksum}, ",")
}

// DecodeManifest parses a manifest in either the one-line or the two-line
// shape. A missing managers line decodes as no managers; neither shape is
// an error. Surrounding whitespace is trimmed before splitting.
func DecodeManifest(text string) (*Manifest, error) {
	lines := strings.SplitN(strings.TrimSpace(text), "\n", 2)

	fields := strings.Split(strings.TrimSpace(lines[0]), ",")
	if len(fields) < 2 {
		return nil, zerr.With(ErrManifestMalformed, "line", lines[0])
	}

	m := &Manifest{
		Name:    fields[0],
		Version: fields[1],
	}
	if len(fields) > 2 {
		m.Checksum = fields[2]
	}

	if len(lines) == 2 {
		for _, manager := range strings.Split(strings.TrimSpace(lines[1]), ",") {
			if manager != "" {
				m.Managers = append(m.Managers, manager)
			}
		}
	}

	return m, nil
}
