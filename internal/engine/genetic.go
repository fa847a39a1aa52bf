package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"

	"github.com/piwi3910/BoardFit/internal/model"
)

// GeneticConfig holds parameters for the genetic strategy.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
}

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 50,
		Generations:    100,
		MutationRate:   0.15,
		TournamentSize: 3,
		EliteCount:     2,
	}
}

// scaledGeneticConfig grows the search for larger jobs.
func scaledGeneticConfig(parts int) GeneticConfig {
	config := DefaultGeneticConfig()
	if parts > 20 {
		config.Generations = 150
	}
	if parts > 50 {
		config.Generations = 200
		config.PopulationSize = 80
	}
	return config
}

// chromosome is a candidate solution: the order in which candidates are
// offered to the boards.
type chromosome struct {
	order   []int // positions in the candidate slice
	fitness float64
}

// decoded is the board-by-board outcome of one chromosome.
type decoded struct {
	boards []int // board indices in commit order
	plans  []boardPlan
	placed int
}

// geneticStrategy searches over part orders. Each order is decoded by
// filling boards round by round with the best-fit packer, the board with the
// highest coverage being committed first, like the exact strategy does.
type geneticStrategy struct {
	log    *slog.Logger
	config *GeneticConfig // nil scales the defaults with the job size
}

func (s *geneticStrategy) Name() model.StrategyName {
	return model.StrategyGenetic
}

func (s *geneticStrategy) Pack(ctx context.Context, job Job) (*model.Result, error) {
	result := model.NewResult(model.StrategyGenetic, job.Parts, job.Boards)
	if len(job.Parts) == 0 || len(job.Boards) == 0 {
		result.Unplaced = append(result.Unplaced, job.Parts...)
		return result, nil
	}

	config := scaledGeneticConfig(len(job.Parts))
	if s.config != nil {
		config = *s.config
	}

	ga := &geneticOptimizer{
		config: config,
		cands:  buildCandidates(job.Parts, job.Settings.PaddingLength, job.Settings.PaddingWidth),
		boards: job.Boards,
		packer: bestFitPacker{kerf: job.Settings.KerfWidth},
		rng:    rand.New(rand.NewSource(job.Settings.Seed)),
	}
	best, err := ga.optimize(ctx)
	if err != nil {
		return nil, err
	}
	s.log.Info("genetic search finished",
		"generations", config.Generations,
		"population", config.PopulationSize,
		"fitness", best.fitness)

	d := ga.decode(best)
	placed := make([]bool, len(job.Parts))
	for k, bi := range d.boards {
		board := job.Boards[bi]
		placements := make([]model.Placement, 0, len(d.plans[k].steps))
		for _, st := range d.plans[k].steps {
			cand := ga.cands[st.cand]
			placed[cand.index] = true
			placements = append(placements, model.Placement{
				Part:         job.Parts[cand.index],
				BoardID:      board.ID,
				OffsetLength: st.dLength + job.Settings.PaddingLength,
				OffsetWidth:  st.dWidth + job.Settings.PaddingWidth,
			})
		}
		result.Commit(board, placements)
	}
	for i, p := range job.Parts {
		if !placed[i] {
			result.Unplaced = append(result.Unplaced, p)
		}
	}
	return result, nil
}

// geneticOptimizer holds the evolving population of one job.
type geneticOptimizer struct {
	config GeneticConfig
	cands  []candidate
	boards []model.StockBoard
	packer bestFitPacker
	rng    *rand.Rand
}

// optimize runs the genetic algorithm and returns the fittest chromosome.
// The context is checked between generations.
func (g *geneticOptimizer) optimize(ctx context.Context) (chromosome, error) {
	population := g.initPopulation()
	for i := range population {
		population[i].fitness = g.evaluate(population[i])
	}

	for gen := 0; gen < g.config.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return chromosome{}, fmt.Errorf("genetic search stopped at generation %d: %w", gen, err)
		}

		sortByFitness(population)

		next := make([]chromosome, 0, g.config.PopulationSize)

		// Elitism: carry over the best individuals unchanged
		eliteCount := min(g.config.EliteCount, len(population))
		for i := 0; i < eliteCount; i++ {
			next = append(next, population[i].clone())
		}

		for len(next) < g.config.PopulationSize {
			parent1 := g.tournamentSelect(population)
			parent2 := g.tournamentSelect(population)

			child := g.orderCrossover(parent1, parent2)
			g.mutate(&child)

			child.fitness = g.evaluate(child)
			next = append(next, child)
		}

		population = next
	}

	sortByFitness(population)
	return population[0], nil
}

// sortByFitness orders a population best first. Equal fitness keeps the
// earlier individual first so runs stay reproducible.
func sortByFitness(population []chromosome) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness > population[j].fitness
	})
}

// initPopulation creates the initial random population. The first
// individual is the largest-first order the other strategies use.
func (g *geneticOptimizer) initPopulation() []chromosome {
	n := len(g.cands)
	population := make([]chromosome, max(g.config.PopulationSize, 1))

	for i := range population {
		population[i] = chromosome{order: g.rng.Perm(n)}
	}

	// Candidates are already sorted by area descending.
	greedy := make([]int, n)
	for i := range greedy {
		greedy[i] = i
	}
	population[0] = chromosome{order: greedy}

	return population
}

// decode turns a chromosome into board plans. Each round every open board is
// trial packed with the remaining candidates in chromosome order and the
// best-covered board is committed.
func (g *geneticOptimizer) decode(c chromosome) decoded {
	var d decoded
	remaining := append([]int(nil), c.order...)
	complete := make([]bool, len(g.boards))

	for len(remaining) > 0 {
		winner := -1
		var winnerPlan boardPlan
		bestRatio := 0.0
		for bi, board := range g.boards {
			if complete[bi] {
				continue
			}
			plan := g.packer.packOrdered(board, g.cands, remaining)
			if plan.empty() {
				continue
			}
			ratio := plan.area / board.Area()
			if winner < 0 || ratio > bestRatio {
				winner, winnerPlan, bestRatio = bi, plan, ratio
			}
		}
		if winner < 0 {
			break
		}

		complete[winner] = true
		d.boards = append(d.boards, winner)
		d.plans = append(d.plans, winnerPlan)
		d.placed += len(winnerPlan.steps)

		used := make(map[int]bool, len(winnerPlan.steps))
		for _, st := range winnerPlan.steps {
			used[st.cand] = true
		}
		kept := remaining[:0]
		for _, ci := range remaining {
			if !used[ci] {
				kept = append(kept, ci)
			}
		}
		remaining = kept
	}
	return d
}

// evaluate scores a chromosome by material efficiency, penalizing unplaced
// parts heavily and every extra board slightly.
func (g *geneticOptimizer) evaluate(c chromosome) float64 {
	d := g.decode(c)
	if len(d.boards) == 0 {
		return 0
	}

	var packed, used float64
	for k, bi := range d.boards {
		packed += d.plans[k].area
		used += g.boards[bi].Area()
	}
	efficiency := packed / used

	unplacedPenalty := float64(len(g.cands)-d.placed) * 0.1
	boardPenalty := float64(len(d.boards)-1) * 0.05

	fitness := efficiency - unplacedPenalty - boardPenalty
	if fitness < 0 {
		fitness = 0
	}
	return fitness
}

// tournamentSelect picks the best individual from a random tournament.
func (g *geneticOptimizer) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.config.TournamentSize; i++ {
		candidate := population[g.rng.Intn(len(population))]
		if candidate.fitness > best.fitness {
			best = candidate
		}
	}
	return best.clone()
}

// orderCrossover implements Order Crossover (OX1) for permutation chromosomes.
// It preserves the relative order of genes from both parents.
func (g *geneticOptimizer) orderCrossover(parent1, parent2 chromosome) chromosome {
	n := len(parent1.order)
	if n <= 2 {
		return parent1.clone()
	}

	point1 := g.rng.Intn(n)
	point2 := g.rng.Intn(n)
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	child := chromosome{order: make([]int, n)}

	inSegment := make([]bool, n)
	for i := point1; i <= point2; i++ {
		child.order[i] = parent1.order[i]
		inSegment[parent1.order[i]] = true
	}

	childIdx := (point2 + 1) % n
	for _, gene := range parent2.order {
		if !inSegment[gene] {
			child.order[childIdx] = gene
			childIdx = (childIdx + 1) % n
		}
	}

	return child
}

// mutate applies random swap and inversion mutations.
func (g *geneticOptimizer) mutate(c *chromosome) {
	n := len(c.order)
	if n < 2 {
		return
	}

	if g.rng.Float64() < g.config.MutationRate {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		c.order[i], c.order[j] = c.order[j], c.order[i]
	}

	// Inversion is less frequent
	if g.rng.Float64() < g.config.MutationRate*0.5 {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			c.order[i], c.order[j] = c.order[j], c.order[i]
			i++
			j--
		}
	}
}

func (c chromosome) clone() chromosome {
	order := make([]int, len(c.order))
	copy(order, c.order)
	return chromosome{order: order, fitness: c.fitness}
}
