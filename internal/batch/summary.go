package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"
)

const maxLineLength = 1 << 20

// ReadPairs reads one "<invoice> <offer>" pair per line. Empty lines and lines
// starting with # are skipped.
func ReadPairs(reader io.Reader) ([]Pair, error) {
	var pairs []Pair
	err := scanPairs(reader, func(pair Pair) error {
		pairs = append(pairs, pair)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pairs, nil
}

// StreamPairs sends the pairs of reader to pairs as they are read and closes
// the channel once the input is exhausted or the context is cancelled.
func StreamPairs(ctx context.Context, reader io.Reader, pairs chan<- Pair) error {
	defer close(pairs)
	return scanPairs(reader, func(pair Pair) error {
		select {
		case pairs <- pair:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

func scanPairs(reader io.Reader, handle func(Pair) error) error {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return fmt.Errorf("line %d: expected invoice and offer, got %d values", line, len(fields))
		}
		if err := handle(Pair{Invoice: fields[0], Offer: fields[1], Line: line}); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("could not read pairs: %w", err)
	}
	return nil
}

type Summary struct {
	Total   int
	Matched int
	Failed  int
}

func Summarize(results []Result) Summary {
	summary := Summary{Total: len(results)}
	for _, result := range results {
		if result.Matches() {
			summary.Matched++
		} else {
			summary.Failed++
		}
	}
	return summary
}

// Failures combines the errors of all results that did not match, nil if
// every pair matched.
func Failures(results []Result) error {
	var merr *multierror.Error
	for _, result := range results {
		if result.Err != nil {
			merr = multierror.Append(merr, fmt.Errorf("line %d: %w", result.Pair.Line, result.Err))
		}
	}
	return merr.ErrorOrNil()
}
