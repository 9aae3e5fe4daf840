package loading

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"bytebuddy/internal/emit"
	"bytebuddy/internal/vm"
)

const artifactExt = ".mp"

// LoadDir reads every saved artifact in dir, decodes them in parallel, and
// installs the handles into the namespace the strategy resolves. All handles
// of one directory are linked to each other, so proxies saved next to their
// dependent resolve without a second load.
func LoadDir(dir string, parent *vm.Namespace, strategy Strategy) (map[string]*vm.Handle, error) {
	ns, err := strategy.Resolve(parent)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("load dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), artifactExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), artifactExt))
	}

	handles := make([]*vm.Handle, len(names))
	var g errgroup.Group
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			raw, err := os.ReadFile(filepath.Join(dir, name+artifactExt))
			if err != nil {
				return fmt.Errorf("load %s: %w", name, err)
			}
			prog, err := emit.Decode(name, raw)
			if err != nil {
				return fmt.Errorf("load %s: %w", name, err)
			}
			h, err := vm.NewHandle(prog, ns)
			if err != nil {
				return fmt.Errorf("load %s: %w", name, err)
			}
			handles[i] = h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	table := make(map[string]*vm.Handle, len(handles))
	for _, h := range handles {
		if err := ns.Install(h); err != nil {
			return nil, err
		}
		table[h.Name()] = h
	}
	for _, h := range table {
		h.Link(table)
	}
	return table, nil
}
