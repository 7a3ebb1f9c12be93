// Package corpus assembles problem instances and drives generation until the
// train and test quotas are filled with unique, solvable problems.
package corpus

import (
	"fmt"
	"path/filepath"

	"github.com/sbenjam1n/rescuegen/internal/ledger"
)

// Default partition directory names.
const (
	DefaultTrainDir = "searchandrescue"
	DefaultTestDir  = "searchandrescue_test"
)

// Layout maps a global problem index to its partition and file.
type Layout struct {
	Root     string
	TrainDir string
	TestDir  string
	Train    int
	Test     int
}

// Total is the number of problems the corpus holds when complete.
func (l Layout) Total() int { return l.Train + l.Test }

// Split places the first Train indices in the training partition and the
// rest in the test partition.
func (l Layout) Split(idx int) ledger.Split {
	if idx < l.Train {
		return ledger.Train
	}
	return ledger.Test
}

// Dir is the directory holding a partition.
func (l Layout) Dir(s ledger.Split) string {
	name := l.TrainDir
	if name == "" {
		name = DefaultTrainDir
	}
	if s == ledger.Test {
		name = l.TestDir
		if name == "" {
			name = DefaultTestDir
		}
	}
	return filepath.Join(l.Root, name)
}

// Path is the file for problem idx. Numbering is global across partitions.
func (l Layout) Path(idx int) string {
	return filepath.Join(l.Dir(l.Split(idx)), fmt.Sprintf("problem%d.pddl", idx))
}
