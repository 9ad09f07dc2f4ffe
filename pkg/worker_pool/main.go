/*
Package worker_pool
Runs independent tasks on a fixed number of goroutines.

Usage:

	type fetchTask struct {
		bundleId string
		result   *[]appstore.Profile
	}

	func (task fetchTask) Run(send func(string), abort func()) {
		send("Listing profiles of " + task.bundleId)
		profiles, err := fetch(task.bundleId)
		if err != nil {
			abort()
			return
		}
		*task.result = profiles
		send(fmt.Sprintf("Found %d profiles of %s", len(profiles), task.bundleId))
	}

	pool := worker_pool.New(4, len(bundleIds), os.Stderr)
	for i, bundleId := range bundleIds {
		pool.Add(fetchTask{bundleId, &results[i]})
	}
	pool.Start()
	<-pool.Wait()
	if pool.IsAborted() {
		...
	}

Each task owns one line of a status block that is redrawn in place (using
[uilive](https://github.com/gosuri/uilive)) while the workers are running.
Every call to 'send' replaces the task's line. With a nil writer the status
lines are dropped.

Calling 'abort' stops the workers from picking up new tasks. Tasks that are
already running finish normally.
*/
package worker_pool

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gosuri/uilive"
)

type Task interface {
	Run(send func(string), abort func())
}

type queued struct {
	i    int
	task Task
}

type status struct {
	i    int
	body string
}

type Pool struct {
	numWorkers int
	tasks      chan queued
	counter    int
	statuses   []string
	updates    chan status
	running    sync.WaitGroup
	done       chan struct{}
	out        io.Writer
	aborted    atomic.Bool
}

// New prepares a pool for at most numTasks tasks. All tasks are added
// before Start.
func New(numWorkers, numTasks int, out io.Writer) *Pool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Pool{
		numWorkers: numWorkers,
		tasks:      make(chan queued, numTasks),
		statuses:   make([]string, numTasks),
		updates:    make(chan status),
		done:       make(chan struct{}),
		out:        out,
	}
}

func (pool *Pool) Add(task Task) {
	pool.running.Add(1)
	pool.tasks <- queued{pool.counter, task}
	pool.counter++
}

func (pool *Pool) Start() {
	close(pool.tasks)

	var writer *uilive.Writer
	if pool.out != nil {
		writer = uilive.New()
		writer.Out = pool.out
		writer.Start()
	}

	for i := 0; i < pool.numWorkers; i++ {
		go func() {
			for item := range pool.tasks {
				if !pool.aborted.Load() {
					index := item.i
					send := func(body string) {
						pool.updates <- status{index, body}
					}
					item.task.Run(send, pool.abort)
				}
				pool.running.Done()
			}
		}()
	}

	// Every send happens inside Run, so no update follows the last Done.
	go func() {
		pool.running.Wait()
		close(pool.updates)
	}()

	go func() {
		for update := range pool.updates {
			pool.statuses[update.i] = update.body
			if writer == nil {
				continue
			}
			var lines []string
			for _, line := range pool.statuses {
				if len(line) > 0 {
					lines = append(lines, line)
				}
			}
			fmt.Fprintln(writer, strings.Join(lines, "\n"))
			_ = writer.Flush()
		}
		if writer != nil {
			writer.Stop()
		}
		close(pool.done)
	}()
}

func (pool *Pool) abort() {
	pool.aborted.Store(true)
}

// IsAborted reports whether a task called abort.
func (pool *Pool) IsAborted() bool {
	return pool.aborted.Load()
}

// Wait returns a channel that is closed once every task is done.
func (pool *Pool) Wait() <-chan struct{} {
	return pool.done
}

// Statuses returns the last line sent by each task, in the order the tasks
// were added.
func (pool *Pool) Statuses() []string {
	return append([]string{}, pool.statuses...)
}
