// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package future

// Cluster selects which runtime cluster hosts an Executor's workers
// (spec.md §4.6). This is pure configuration: the task/monitor runtime
// that would actually act on it — virtual processors, dedicated clusters
// — is explicitly out of scope for this library (spec.md §1), so the
// value is stored for the caller's own runtime wiring and otherwise has
// no effect on goroutine scheduling here.
type Cluster int

const (
	// Same reuses the caller's current cluster. Default.
	Same Cluster = iota
	// Sep provisions a dedicated private cluster for the executor.
	Sep
)

// defaultWorkers and defaultProcessors match spec.md §4.6's stated
// defaults.
const (
	defaultWorkers    = 16
	defaultProcessors = 2
)

// ExecutorOptions configures Executor construction.
type ExecutorOptions struct {
	workers    int
	processors int
	cluster    Cluster
}

// ExecutorBuilder creates Executors with fluent configuration, the same
// Builder shape the teacher package uses for queue construction.
//
// Example:
//
//	ex := future.NewExecutor(future.NewExecutorOptions().Workers(8))
type ExecutorBuilder struct {
	opts ExecutorOptions
}

// NewExecutorOptions creates a builder with spec.md §4.6's defaults: 16
// workers, 2 processors, Same cluster.
func NewExecutorOptions() *ExecutorBuilder {
	return &ExecutorBuilder{opts: ExecutorOptions{
		workers:    defaultWorkers,
		processors: defaultProcessors,
		cluster:    Same,
	}}
}

// Workers sets the fixed worker-task count. Panics if n < 1.
func (b *ExecutorBuilder) Workers(n int) *ExecutorBuilder {
	if n < 1 {
		panic("future: Workers must be >= 1")
	}
	b.opts.workers = n
	return b
}

// Processors sets the virtual-processor count advisory (see Cluster).
// Panics if n < 1.
func (b *ExecutorBuilder) Processors(n int) *ExecutorBuilder {
	if n < 1 {
		panic("future: Processors must be >= 1")
	}
	b.opts.processors = n
	return b
}

// OnCluster selects Same or Sep.
func (b *ExecutorBuilder) OnCluster(c Cluster) *ExecutorBuilder {
	b.opts.cluster = c
	return b
}

// Build finalizes the configuration for NewExecutor.
func (b *ExecutorBuilder) Build() ExecutorOptions {
	return b.opts
}
