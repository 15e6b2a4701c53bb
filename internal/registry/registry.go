// Package registry holds the static group-to-ticker mapping. Groups ship
// embedded in the binary and can be overridden by an on-disk groups file,
// which is also where refresh-sp500 writes its result.
package registry

import (
	"errors"
	"fmt"
	"os"

	_ "embed"

	"gopkg.in/yaml.v2"

	"stockdata/pkg/domain"
)

//go:embed groups.yml
var embeddedGroups []byte

// ErrUnknownGroup is returned when a group name is not one of the four
// predefined groups.
var ErrUnknownGroup = errors.New("unknown group")

// Registry is an immutable lookup table from group name to ticker list.
type Registry struct {
	groups []domain.Group
	byName map[domain.GroupName]*domain.Group
}

// groupsFile is the YAML document shape shared by the embedded default and
// the on-disk override.
type groupsFile struct {
	Groups []domain.Group `yaml:"groups"`
}

// Load builds the registry from the embedded defaults, replacing any group
// that also appears in the override file at overridePath. An empty path or a
// missing file means embedded defaults only.
func Load(overridePath string) (*Registry, error) {
	groups, err := parseGroups(embeddedGroups)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded groups: %w", err)
	}

	if overridePath != "" {
		data, err := os.ReadFile(overridePath)
		switch {
		case err == nil:
			overrides, err := parseGroups(data)
			if err != nil {
				return nil, fmt.Errorf("failed to parse groups file %s: %w", overridePath, err)
			}
			groups = applyOverrides(groups, overrides)
		case os.IsNotExist(err):
			// No override file is the common case.
		default:
			return nil, fmt.Errorf("failed to read groups file %s: %w", overridePath, err)
		}
	}

	r := &Registry{
		groups: groups,
		byName: make(map[domain.GroupName]*domain.Group, len(groups)),
	}
	for i := range r.groups {
		r.byName[r.groups[i].Name] = &r.groups[i]
	}
	return r, nil
}

// ListGroup returns the ordered ticker list for a group name.
func (r *Registry) ListGroup(name domain.GroupName) ([]string, error) {
	g, err := r.Group(name)
	if err != nil {
		return nil, err
	}
	return g.Tickers, nil
}

// Group returns the full group definition for a name.
func (r *Registry) Group(name domain.GroupName) (domain.Group, error) {
	g, ok := r.byName[name]
	if !ok {
		return domain.Group{}, fmt.Errorf("%w: %q", ErrUnknownGroup, name)
	}
	return *g, nil
}

// Groups returns every group in presentation order.
func (r *Registry) Groups() []domain.Group {
	out := make([]domain.Group, len(r.groups))
	copy(out, r.groups)
	return out
}

func parseGroups(data []byte) ([]domain.Group, error) {
	var f groupsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if len(f.Groups) == 0 {
		return nil, errors.New("groups document contains no groups")
	}
	for _, g := range f.Groups {
		if !g.Name.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, g.Name)
		}
		if g.Dir == "" {
			return nil, fmt.Errorf("group %q has no output directory", g.Name)
		}
		if len(g.Tickers) == 0 {
			return nil, fmt.Errorf("group %q has no tickers", g.Name)
		}
		if dup := firstDuplicate(g.Tickers); dup != "" {
			return nil, fmt.Errorf("group %q lists ticker %q more than once", g.Name, dup)
		}
	}
	return f.Groups, nil
}

func applyOverrides(base, overrides []domain.Group) []domain.Group {
	byName := make(map[domain.GroupName]domain.Group, len(overrides))
	for _, g := range overrides {
		byName[g.Name] = g
	}
	out := make([]domain.Group, len(base))
	for i, g := range base {
		if o, ok := byName[g.Name]; ok {
			out[i] = o
		} else {
			out[i] = g
		}
	}
	return out
}

func firstDuplicate(tickers []string) string {
	seen := make(map[string]struct{}, len(tickers))
	for _, t := range tickers {
		if _, ok := seen[t]; ok {
			return t
		}
		seen[t] = struct{}{}
	}
	return ""
}

// WriteGroupsFile persists a groups override document. Used by the
// constituent refresh command.
func WriteGroupsFile(path string, groups []domain.Group) error {
	data, err := yaml.Marshal(groupsFile{Groups: groups})
	if err != nil {
		return fmt.Errorf("failed to marshal groups: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write groups file %s: %w", path, err)
	}
	return nil
}
