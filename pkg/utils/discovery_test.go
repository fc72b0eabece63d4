package utils

import (
	"sort"
	"testing"
)

func TestDiscoverSimulations_FindsShippedSims(t *testing.T) {
	sims, err := DiscoverSimulations()
	if err != nil {
		t.Fatalf("DiscoverSimulations: %v", err)
	}

	names := make([]string, 0, len(sims))
	for _, sim := range sims {
		names = append(names, sim.Config.Name)
	}

	for _, want := range []string{"Flock Pursuit", "Thermal Soar"} {
		found := false
		for _, name := range names {
			if name == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("simulation %q not discovered; got %v", want, names)
		}
	}

	if !sort.StringsAreSorted(names) {
		t.Errorf("discovery order is not sorted: %v", names)
	}
}

func TestDiscoverSimulations_ParsesParameterSchema(t *testing.T) {
	sims, err := DiscoverSimulations()
	if err != nil {
		t.Fatalf("DiscoverSimulations: %v", err)
	}

	for _, sim := range sims {
		if sim.Config.Version == "" {
			t.Errorf("%s: missing version", sim.Config.Name)
		}
		if len(sim.Config.Parameters) == 0 {
			t.Errorf("%s: no parameters declared", sim.Config.Name)
			continue
		}
		for _, p := range sim.Config.Parameters {
			switch p.Type {
			case "integer", "float", "string", "boolean", "duration":
			default:
				t.Errorf("%s: parameter %s has unknown type %q", sim.Config.Name, p.Name, p.Type)
			}
			// Every parameter carries a default so automated runs
			// never fall through to an interactive prompt.
			if p.Default == nil {
				t.Errorf("%s: parameter %s has no default", sim.Config.Name, p.Name)
			}
		}
	}
}
