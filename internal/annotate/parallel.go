package annotate

import (
	"runtime"
	"sync"

	"github.com/rnamod/modcompare/internal/site"
)

// WorkItem holds a parsed site ready for annotation.
type WorkItem struct {
	Seq  int
	Site *site.Site
}

// WorkResult holds the outcome for a single site.
type WorkResult struct {
	Seq  int
	Site *site.Site
	Err  error
}

// ParallelAnnotate annotates work items using a pool of workers. Each
// chromosome's sites are independent, so workers never share mutable state.
// Results arrive in completion order; use OrderedCollect to consume them in
// sequence-number order. If workers is 0, runtime.NumCPU() is used.
func (a *Annotator) ParallelAnnotate(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				err := a.Annotate(item.Site)
				results <- WorkResult{Seq: item.Seq, Site: item.Site, Err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect invokes fn once per result in ascending Seq order,
// holding back results that arrive ahead of their turn. It blocks until
// the results channel closes; on an fn error it keeps receiving so the
// workers can finish their sends, then returns that error.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	ahead := make(map[int]WorkResult)
	want := 0

	for res := range results {
		ahead[res.Seq] = res

		for next, ok := ahead[want]; ok; next, ok = ahead[want] {
			delete(ahead, want)
			want++
			if err := fn(next); err != nil {
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
