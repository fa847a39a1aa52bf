package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/BoardFit/internal/importer"
	"github.com/piwi3910/BoardFit/internal/logger"
	"github.com/piwi3910/BoardFit/internal/model"
	"github.com/piwi3910/BoardFit/internal/project"
)

// errNoInput is returned when neither --job nor --input was given.
var errNoInput = errors.New("no input: pass --job or --input")

// inputFlags are the input and cut-setting flags shared by pack and compare.
type inputFlags struct {
	job       string
	inputs    []string
	stock     []string
	inventory string

	strategy    string
	kerf        float64
	padLength   float64
	padWidth    float64
	parallel    int
	searchLimit int
	seed        int64
}

func (f *inputFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.job, "job", "j", "", "Job file (.json, .yaml) with parts, boards and settings")
	fs.StringSliceVarP(&f.inputs, "input", "i", nil, "Parts/boards file: CSV, Excel or DXF (repeatable)")
	fs.StringArrayVar(&f.stock, "stock", nil, "Boards from the inventory as PRESET[:QTY] (repeatable)")
	fs.StringVar(&f.inventory, "inventory", "", "Inventory file (default ~/.boardfit/inventory.json)")
	fs.StringVar(&f.strategy, "strategy", "", "Packing strategy: guillotine|bestfit|genetic (bestfit and genetic layouts may need non-guillotine cuts)")
	fs.Float64Var(&f.kerf, "kerf", 0, "Saw kerf in mm")
	fs.Float64Var(&f.padLength, "pad-length", 0, "Padding added to both length edges of every part, in mm")
	fs.Float64Var(&f.padWidth, "pad-width", 0, "Padding added to both width edges of every part, in mm")
	fs.IntVar(&f.parallel, "parallel", 0, "Board searches run at once (0 = one per open board)")
	fs.IntVar(&f.searchLimit, "search-limit", 0, "Largest parts one board search considers (0 = all)")
	fs.Int64Var(&f.seed, "seed", 0, "Random seed of the genetic strategy")
}

// load assembles the job from --job and --input files plus any --stock
// presets, starting from the configured settings. Flags given on the command
// line win over both.
func (f *inputFlags) load(cmd *cobra.Command, base model.CutSettings) (project.Job, error) {
	if f.job == "" && len(f.inputs) == 0 {
		return project.Job{}, errNoInput
	}

	job := project.NewJob("")
	job.Settings = base
	if f.job != "" {
		loaded, err := project.LoadJob(f.job)
		if err != nil {
			return project.Job{}, err
		}
		job = loaded
	}

	var problems []string
	for _, path := range f.inputs {
		res := importer.Import(path)
		for _, w := range res.Warnings {
			logger.L().Warn("import warning", "file", path, "message", w)
		}
		for _, e := range res.Errors {
			problems = append(problems, fmt.Sprintf("%s: %s", filepath.Base(path), e))
		}
		job.Parts = append(job.Parts, res.Parts...)
		job.Boards = append(job.Boards, res.Boards...)
	}
	if len(problems) > 0 {
		return project.Job{}, fmt.Errorf("failed to import %d row(s):\n  %s", len(problems), strings.Join(problems, "\n  "))
	}

	if len(f.stock) > 0 {
		inv, _, err := loadInventory(f.inventory)
		if err != nil {
			return project.Job{}, err
		}
		boards, err := stockBoards(inv, f.stock)
		if err != nil {
			return project.Job{}, err
		}
		job.Boards = append(job.Boards, boards...)
	}

	f.apply(cmd, &job.Settings)
	return job, nil
}

// apply overrides s with every settings flag set on the command line.
func (f *inputFlags) apply(cmd *cobra.Command, s *model.CutSettings) {
	fs := cmd.Flags()
	if fs.Changed("strategy") {
		s.Strategy = model.StrategyName(f.strategy)
	}
	if fs.Changed("kerf") {
		s.KerfWidth = f.kerf
	}
	if fs.Changed("pad-length") {
		s.PaddingLength = f.padLength
	}
	if fs.Changed("pad-width") {
		s.PaddingWidth = f.padWidth
	}
	if fs.Changed("parallel") {
		s.MaxParallel = f.parallel
	}
	if fs.Changed("search-limit") {
		s.SearchLimit = f.searchLimit
	}
	if fs.Changed("seed") {
		s.Seed = f.seed
	}
}
