package genome

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Registry holds reference genomes by name. Reads are safe for
// concurrent use; expression evaluation queries it from many records in
// parallel.
type Registry struct {
	mu      sync.RWMutex
	genomes map[string]*ReferenceGenome
}

// NewRegistry returns a registry seeded with the built-in GRCh37 and
// GRCh38 builds.
func NewRegistry() *Registry {
	r := &Registry{genomes: make(map[string]*ReferenceGenome)}
	r.genomes["GRCh37"] = GRCh37()
	r.genomes["GRCh38"] = GRCh38()
	return r
}

// Get returns the named reference genome.
func (r *Registry) Get(name string) (*ReferenceGenome, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rg, ok := r.genomes[name]
	return rg, ok
}

// Add registers a reference genome. Adding a name that already exists
// is an error; builds are immutable once published.
func (r *Registry) Add(rg *ReferenceGenome) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.genomes[rg.Name]; ok {
		return fmt.Errorf("reference genome %s already registered", rg.Name)
	}
	r.genomes[rg.Name] = rg
	return nil
}

// Names returns the registered genome names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.genomes))
	for n := range r.genomes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LoadFile parses a YAML genome definition file and registers every
// genome it declares.
func (r *Registry) LoadFile(path string) error {
	genomes, err := LoadYAML(path)
	if err != nil {
		return err
	}
	for _, rg := range genomes {
		if err := r.Add(rg); err != nil {
			return err
		}
	}
	return nil
}

// genomesFile is the top-level YAML genome definition document.
type genomesFile struct {
	Genomes []genomeDef `yaml:"genomes"`
}

// genomeDef declares one reference genome.
type genomeDef struct {
	// Name identifies the build, e.g. "GRCm38".
	Name string `yaml:"name"`

	// Contigs lists every sequence with its length, in build order.
	Contigs []contigDef `yaml:"contigs"`

	// XContigs, YContigs and MTContigs designate sex and mitochondrial
	// contigs by name.
	XContigs  []string `yaml:"x_contigs,omitempty"`
	YContigs  []string `yaml:"y_contigs,omitempty"`
	MTContigs []string `yaml:"mt_contigs,omitempty"`

	// PAR lists pseudoautosomal regions as half-open position ranges.
	PAR []parDef `yaml:"par,omitempty"`
}

type contigDef struct {
	Name   string `yaml:"name"`
	Length int32  `yaml:"length"`
}

type parDef struct {
	Contig string `yaml:"contig"`
	Start  int32  `yaml:"start"`
	End    int32  `yaml:"end"`
}

// LoadYAML reads and parses a YAML genome definition file.
func LoadYAML(path string) ([]*ReferenceGenome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading genome definition %s: %w", path, err)
	}
	return ParseYAML(data, path)
}

// ParseYAML parses YAML genome definitions from bytes. The path argument
// is used only for error messages.
func ParseYAML(data []byte, path string) ([]*ReferenceGenome, error) {
	var file genomesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(file.Genomes) == 0 {
		return nil, fmt.Errorf("%s: no genomes defined", path)
	}

	genomes := make([]*ReferenceGenome, 0, len(file.Genomes))
	for i, def := range file.Genomes {
		if def.Name == "" {
			return nil, fmt.Errorf("%s: genomes[%d]: name is required", path, i)
		}
		contigs := make([]Contig, len(def.Contigs))
		for j, c := range def.Contigs {
			contigs[j] = Contig{Name: c.Name, Length: c.Length}
		}
		par := make([]Region, len(def.PAR))
		for j, p := range def.PAR {
			if p.Start >= p.End {
				return nil, fmt.Errorf("%s: genomes[%d] (%s): par[%d]: start %d is not before end %d",
					path, i, def.Name, j, p.Start, p.End)
			}
			par[j] = Region{Contig: p.Contig, Start: p.Start, End: p.End}
		}
		rg, err := New(def.Name, contigs, def.XContigs, def.YContigs, def.MTContigs, par)
		if err != nil {
			return nil, fmt.Errorf("%s: genomes[%d]: %w", path, i, err)
		}
		genomes = append(genomes, rg)
	}
	return genomes, nil
}
