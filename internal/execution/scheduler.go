package execution

// Scheduler distributes suites across workers
type Scheduler interface {
	Schedule(suites []string, workerCount int) [][]string
}

// RoundRobinScheduler distributes suites evenly across workers
type RoundRobinScheduler struct{}

// NewRoundRobinScheduler creates a new RoundRobinScheduler
func NewRoundRobinScheduler() *RoundRobinScheduler {
	return &RoundRobinScheduler{}
}

// Schedule distributes suites evenly across workers using round-robin
func (s *RoundRobinScheduler) Schedule(suites []string, workerCount int) [][]string {
	if workerCount <= 0 {
		workerCount = 1
	}

	distribution := make([][]string, workerCount)
	for i := range distribution {
		distribution[i] = make([]string, 0)
	}

	for i, suite := range suites {
		workerIndex := i % workerCount
		distribution[workerIndex] = append(distribution[workerIndex], suite)
	}

	return distribution
}
