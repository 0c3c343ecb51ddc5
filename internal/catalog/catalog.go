// Package catalog holds the static semester/subject catalog. The catalog is
// loaded once at startup and never mutated afterwards.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog maps semester labels to their ordered subject lists while keeping
// the semester order stable.
type Catalog struct {
	order    []string
	subjects map[string][]string
}

// fileEntry is the YAML shape for an external catalog override.
type fileEntry struct {
	Semester string   `yaml:"semester"`
	Subjects []string `yaml:"subjects"`
}

// Default returns the built-in B.Pharm catalog: eight semesters with their
// subject lists.
func Default() *Catalog {
	c := &Catalog{subjects: make(map[string][]string)}
	add := func(semester string, subjects ...string) {
		c.order = append(c.order, semester)
		c.subjects[semester] = subjects
	}

	add("1st Semester",
		"Human Anatomy and Physiology I",
		"Pharmaceutical Analysis I",
		"Pharmaceutics I",
		"Pharmaceutical Inorganic Chemistry",
	)
	add("2nd Semester",
		"Human Anatomy and Physiology II",
		"Pharmaceutical Organic Chemistry I",
		"Biochemistry",
		"Pathophysiology",
	)
	add("3rd Semester",
		"Pharmaceutical Organic Chemistry II",
		"Physical Pharmaceutics I",
		"Pharmaceutical Microbiology",
		"Pharmaceutical Engineering",
		"Universal Human Values",
	)
	add("4th Semester",
		"Pharmaceutical Organic Chemistry III",
		"Medicinal Chemistry I",
		"Physical Pharmaceutics II",
		"Pharmacology I",
		"Pharmacognosy I",
	)
	add("5th Semester",
		"Medicinal Chemistry II",
		"Industrial Pharmacy I",
		"Pharmacology II",
		"Pharmacognosy and Phytochemistry",
		"Pharmaceutical Jurisprudence Theory",
	)
	add("6th Semester",
		"Medicinal Chemistry III",
		"Pharmacology III",
		"Herbal Drug Technology Theory",
		"Biopharmaceutics and Pharmacokinetics Theory",
		"Pharmaceutical Biotechnology",
		"Quality Assurance Theory",
	)
	add("7th Semester",
		"Instrumental Methods of Analysis",
		"Industrial Pharmacy II",
		"Pharmacy Practice",
		"Novel Drug Delivery System",
	)
	add("8th Semester",
		"Biostatistics and Research Methodology",
		"Social and Preventive Pharmacy",
		"Pharma Marketing Management",
		"Cosmetic Science",
	)
	return c
}

// LoadFile reads a catalog from a YAML file. The file is an ordered list of
// {semester, subjects} entries.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var entries []fileEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog file %s contains no semesters", path)
	}

	c := &Catalog{subjects: make(map[string][]string, len(entries))}
	for _, e := range entries {
		if e.Semester == "" {
			return nil, fmt.Errorf("catalog file %s: entry with empty semester", path)
		}
		if _, dup := c.subjects[e.Semester]; dup {
			return nil, fmt.Errorf("catalog file %s: duplicate semester %q", path, e.Semester)
		}
		if len(e.Subjects) == 0 {
			return nil, fmt.Errorf("catalog file %s: semester %q has no subjects", path, e.Semester)
		}
		c.order = append(c.order, e.Semester)
		c.subjects[e.Semester] = append([]string(nil), e.Subjects...)
	}
	return c, nil
}

// Load returns the catalog from path when it is non-empty, otherwise Default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// Semesters returns semester labels in catalog order.
func (c *Catalog) Semesters() []string {
	return append([]string(nil), c.order...)
}

// Subjects returns the ordered subject list for a semester, or nil when the
// semester is not part of the catalog.
func (c *Catalog) Subjects(semester string) []string {
	subjects, ok := c.subjects[semester]
	if !ok {
		return nil
	}
	return append([]string(nil), subjects...)
}

// HasSemester reports whether the label is a catalog semester.
func (c *Catalog) HasSemester(semester string) bool {
	_, ok := c.subjects[semester]
	return ok
}

// HasSubject reports whether the subject belongs to the given semester.
func (c *Catalog) HasSubject(semester, subject string) bool {
	for _, s := range c.subjects[semester] {
		if s == subject {
			return true
		}
	}
	return false
}

// SemesterOf returns the semester owning the subject. Subjects belong to
// exactly one semester in the static catalog.
func (c *Catalog) SemesterOf(subject string) (string, bool) {
	for _, sem := range c.order {
		for _, s := range c.subjects[sem] {
			if s == subject {
				return sem, true
			}
		}
	}
	return "", false
}

// IsSubject reports whether the string names any catalog subject.
func (c *Catalog) IsSubject(subject string) bool {
	_, ok := c.SemesterOf(subject)
	return ok
}
