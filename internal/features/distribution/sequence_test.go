package distribution

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

// lockedCounter mimics the atomic server-side increment with a mutex so the
// generator can be exercised concurrently.
type lockedCounter struct {
	mu   sync.Mutex
	seqs map[string]int64
}

func (c *lockedCounter) Next(ctx context.Context, year int, departmentCode, typeCode string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seqs == nil {
		c.seqs = make(map[string]int64)
	}
	key := fmt.Sprintf("%d|%s|%s", year, departmentCode, typeCode)
	c.seqs[key]++
	return c.seqs[key], nil
}

func (c *lockedCounter) EnsureIndexes(ctx context.Context) error { return nil }

func TestGenerateFormatsNumber(t *testing.T) {
	gen := NewNumberGenerator(&lockedCounter{})
	at := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

	number, err := gen.Generate(context.Background(), at, "FIN", "INV")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if number != "26/FIN/INV/0001" {
		t.Errorf("Expected 26/FIN/INV/0001, got %s", number)
	}
}

func TestGenerateScopesAreIndependent(t *testing.T) {
	gen := NewNumberGenerator(&lockedCounter{})
	ctx := context.Background()
	at := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

	first, _ := gen.Generate(ctx, at, "FIN", "INV")
	second, _ := gen.Generate(ctx, at, "FIN", "INV")
	otherDept, _ := gen.Generate(ctx, at, "ACC", "INV")
	otherType, _ := gen.Generate(ctx, at, "FIN", "MEM")
	otherYear, _ := gen.Generate(ctx, at.AddDate(1, 0, 0), "FIN", "INV")

	if first != "26/FIN/INV/0001" || second != "26/FIN/INV/0002" {
		t.Errorf("Same scope must count up: got %s then %s", first, second)
	}
	for _, number := range []string{otherDept, otherType, otherYear} {
		if number != "26/ACC/INV/0001" && number != "26/FIN/MEM/0001" && number != "27/FIN/INV/0001" {
			t.Errorf("Different scope must restart at 0001, got %s", number)
		}
	}
}

func TestGenerateConcurrentNumbersAreDistinct(t *testing.T) {
	gen := NewNumberGenerator(&lockedCounter{})
	at := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

	const n = 50
	numbers := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, err := gen.Generate(context.Background(), at, "FIN", "INV")
			if err != nil {
				t.Errorf("Generate failed: %v", err)
				return
			}
			numbers <- number
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[string]bool)
	for number := range numbers {
		if seen[number] {
			t.Errorf("Duplicate number allocated: %s", number)
		}
		seen[number] = true
	}
	if len(seen) != n {
		t.Errorf("Expected %d distinct numbers, got %d", n, len(seen))
	}
}
