// SPDX-License-Identifier: MIT

package archive

import (
	"fmt"
	"io"
	"slices"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/supermode/mode"
	"github.com/katalvlaran/supermode/profile"
	"github.com/katalvlaran/supermode/superset"
)

// Document is the YAML form of a SuperSet.
type Document struct {
	Wavelength float64     `yaml:"wavelength"`
	ITR        []float64   `yaml:"itr,flow"`
	Modes      []ModeDoc   `yaml:"modes"`
	Profile    *ProfileDoc `yaml:"profile,omitempty"`
}

// ModeDoc is one supermode.
type ModeDoc struct {
	Solver   int           `yaml:"solver"`
	Binding  int           `yaml:"binding"`
	Name     string        `yaml:"name,omitempty"`
	Beta     []float64     `yaml:"beta,flow"`
	Index    []float64     `yaml:"index,omitempty,flow"`
	Field    []FieldDoc    `yaml:"field,omitempty"`
	Coupling []CouplingDoc `yaml:"coupling,omitempty"`
}

// FieldDoc is a row-major field mesh.
type FieldDoc struct {
	Rows int       `yaml:"rows"`
	Cols int       `yaml:"cols"`
	Data []float64 `yaml:"data,flow"`
}

// CouplingDoc is the coupling series towards another mode.
type CouplingDoc struct {
	Solver  int       `yaml:"solver"`
	Binding int       `yaml:"binding"`
	Values  []float64 `yaml:"values,flow"`
}

// ProfileDoc is a tabulated taper profile.
type ProfileDoc struct {
	Distance []float64 `yaml:"distance,flow"`
	ITR      []float64 `yaml:"itr,flow"`
}

// NewDocument captures the active modes of s and, when p is non-nil, the
// sampled profile.
func NewDocument(s *superset.SuperSet, p profile.Profile) *Document {
	doc := &Document{
		Wavelength: s.Wavelength(),
		ITR:        s.ITRList(),
	}
	for _, m := range s.Modes() {
		doc.Modes = append(doc.Modes, modeDoc(m))
	}
	if p != nil {
		doc.Profile = &ProfileDoc{Distance: p.Distance(), ITR: p.ITRList()}
	}
	return doc
}

func modeDoc(m *mode.Supermode) ModeDoc {
	md := ModeDoc{
		Solver:  m.SolverNumber(),
		Binding: m.BindingNumber(),
		Name:    m.Name,
		Beta:    append([]float64(nil), m.Beta()...),
	}
	if idx := m.Index(); idx != nil {
		md.Index = append([]float64(nil), idx...)
	}
	if m.HasField() {
		for k := 0; k < m.Slices(); k++ {
			d := mat.DenseCopyOf(m.FieldAt(k))
			r, c := d.Dims()
			md.Field = append(md.Field, FieldDoc{Rows: r, Cols: c, Data: d.RawMatrix().Data})
		}
	}
	for _, k := range m.CouplingKeys() {
		other, _ := m.CouplingTo(k)
		md.Coupling = append(md.Coupling, CouplingDoc{
			Solver:  k.Solver,
			Binding: k.Binding,
			Values:  append([]float64(nil), other...),
		})
	}
	return md
}

// Encode writes s (and p, if non-nil) to w as YAML.
func Encode(w io.Writer, s *superset.SuperSet, p profile.Profile) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(s, p)); err != nil {
		return fmt.Errorf("archive: encode: %w", err)
	}
	return enc.Close()
}

// Decode reads a Document. Unknown keys are rejected.
func Decode(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("archive: decode: %w", err)
	}
	return &doc, nil
}

// Build reconstructs the SuperSet and, when the document carries one, the
// profile (nil otherwise).
func (d *Document) Build(opts ...superset.Option) (*superset.SuperSet, *profile.Tabulated, error) {
	modes := make([]*mode.Supermode, 0, len(d.Modes))
	byKey := make(map[mode.Key]*mode.Supermode, len(d.Modes))
	for _, md := range d.Modes {
		m, err := md.build()
		if err != nil {
			return nil, nil, err
		}
		modes = append(modes, m)
		byKey[m.Key()] = m
	}

	// A pair may be listed from either side or both; both sides must agree.
	type pairKey struct{ lo, hi mode.Key }
	seen := make(map[pairKey]bool)
	for i, md := range d.Modes {
		a := modes[i]
		for _, cd := range md.Coupling {
			k := mode.Key{Solver: cd.Solver, Binding: cd.Binding}
			b, ok := byKey[k]
			if !ok {
				return nil, nil, fmt.Errorf("archive: %s couples to absent %s: %w", a.Key(), k, ErrInvalidDocument)
			}
			pk := pairKey{a.Key(), k}
			if a.Key().Compare(k) > 0 {
				pk = pairKey{k, a.Key()}
			}
			if seen[pk] {
				if stored, _ := a.CouplingTo(k); !slices.Equal(stored, cd.Values) {
					return nil, nil, fmt.Errorf("archive: coupling %s-%s is not antisymmetric: %w", a.Key(), k, ErrInvalidDocument)
				}
				continue
			}
			if err := mode.Couple(a, b, cd.Values); err != nil {
				return nil, nil, fmt.Errorf("archive: %w", err)
			}
			seen[pk] = true
		}
	}

	s, err := superset.New(d.ITR, d.Wavelength, modes, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("archive: %w", err)
	}

	var p *profile.Tabulated
	if d.Profile != nil {
		if p, err = profile.NewTabulated(d.Profile.Distance, d.Profile.ITR); err != nil {
			return nil, nil, fmt.Errorf("archive: %w", err)
		}
	}
	return s, p, nil
}

func (md ModeDoc) build() (*mode.Supermode, error) {
	key := mode.Key{Solver: md.Solver, Binding: md.Binding}
	m, err := mode.New(key, md.Beta, md.Index)
	if err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	m.Name = md.Name

	if len(md.Field) > 0 {
		field := make([]*mat.Dense, len(md.Field))
		for k, fd := range md.Field {
			if fd.Rows <= 0 || fd.Cols <= 0 || len(fd.Data) != fd.Rows*fd.Cols {
				return nil, fmt.Errorf("archive: %s field %d is %dx%d with %d values: %w",
					key, k, fd.Rows, fd.Cols, len(fd.Data), ErrInvalidDocument)
			}
			field[k] = mat.NewDense(fd.Rows, fd.Cols, append([]float64(nil), fd.Data...))
		}
		if err := m.SetField(field); err != nil {
			return nil, fmt.Errorf("archive: %w", err)
		}
	}
	return m, nil
}
