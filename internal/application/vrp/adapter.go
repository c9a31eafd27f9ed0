package vrp

import (
	"context"

	"github.com/voidfleet/controller/internal/domain/routing"
)

// Solver adapts the free Solve function to taskmanager.VRPSolver, so the
// Task Manager depends on a narrow interface rather than this package
// directly.
type Solver struct{}

// NewSolver constructs a Solver.
func NewSolver() Solver { return Solver{} }

// Solve implements taskmanager.VRPSolver.
func (Solver) Solve(ctx context.Context, problem routing.VRPProblem) (*routing.VRPSolution, error) {
	return Solve(ctx, problem)
}
