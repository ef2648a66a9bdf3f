package batch

import (
	"context"
	"encoding/hex"
	"errors"
	"cmp"
	"fmt"
	"io"
	"runtime"
	"slices"

	"github.com/BoltzExchange/boltz-bolt12/internal/logger"
	"github.com/BoltzExchange/boltz-bolt12/pkg/bolt12"
	"github.com/btcsuite/btcd/chaincfg"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/remeh/sizedwaitgroup"
	"golang.org/x/sync/errgroup"
)

var ErrWrongNetwork = errors.New("not on the configured network")

// Pair is one invoice that should have been issued for an offer.
type Pair struct {
	Invoice string
	Offer   string
	// Line of the input the pair was read from, 0 if it was not read
	Line int
}

type Result struct {
	Pair    Pair
	Invoice *bolt12.Invoice
	Offer   *bolt12.Offer
	OfferID string
	Err     error
}

func (result Result) Matches() bool {
	return result.Err == nil
}

type Options struct {
	Workers   int
	CacheSize int
	// Network both offer and invoice have to be for; nil skips the check
	Network  *chaincfg.Params
	Checksum bool
}

type offerEntry struct {
	offer *bolt12.Offer
	id    string
	err   error
}

// Checker verifies invoice/offer pairs in parallel. Offers are usually shared
// by many invoices, so decoded offers are kept in an LRU cache.
type Checker struct {
	options Options
	offers  *lru.Cache[string, offerEntry]
}

func NewChecker(options Options) (*Checker, error) {
	if options.Workers <= 0 {
		options.Workers = runtime.NumCPU()
	}
	if options.CacheSize <= 0 {
		options.CacheSize = 1024
	}
	offers, err := lru.New[string, offerEntry](options.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("could not create offer cache: %w", err)
	}
	return &Checker{options: options, offers: offers}, nil
}

func (checker *Checker) decodeOptions() []bolt12.DecodeOption {
	if checker.options.Checksum {
		return []bolt12.DecodeOption{bolt12.WithChecksum()}
	}
	return nil
}

func (checker *Checker) decodeOffer(text string) offerEntry {
	if entry, ok := checker.offers.Get(text); ok {
		return entry
	}

	var entry offerEntry
	entry.offer, entry.err = bolt12.DecodeOffer(text, checker.decodeOptions()...)
	if entry.err == nil {
		id, err := entry.offer.ID()
		if err != nil {
			entry.err = err
		} else {
			entry.id = hex.EncodeToString(id[:])
		}
	}
	if entry.err == nil && checker.options.Network != nil && !entry.offer.SupportsChain(checker.options.Network) {
		entry.err = fmt.Errorf("offer %w %s", ErrWrongNetwork, checker.options.Network.Name)
	}
	checker.offers.Add(text, entry)
	return entry
}

// Check decodes and verifies a single pair.
func (checker *Checker) Check(pair Pair) Result {
	result := Result{Pair: pair}

	entry := checker.decodeOffer(pair.Offer)
	result.Offer = entry.offer
	result.OfferID = entry.id
	if entry.err != nil {
		result.Err = fmt.Errorf("invalid offer: %w", entry.err)
		return result
	}

	invoice, err := bolt12.DecodeInvoice(pair.Invoice, checker.decodeOptions()...)
	if err != nil {
		result.Err = fmt.Errorf("invalid invoice: %w", err)
		return result
	}
	result.Invoice = invoice

	if network := checker.options.Network; network != nil && invoice.Chain != *network.GenesisHash {
		result.Err = fmt.Errorf("invoice %w %s", ErrWrongNetwork, network.Name)
		return result
	}

	result.Err = bolt12.VerifyInvoiceForOffer(invoice, result.Offer)
	if result.Err != nil {
		logger.Debugf("Invoice %s is not for offer %s: %v", invoice.PaymentHash, result.OfferID, result.Err)
	}
	return result
}

// Run checks pairs until the channel is closed or the context is cancelled
// and closes results afterward. Results are not ordered.
func (checker *Checker) Run(ctx context.Context, pairs <-chan Pair, results chan<- Result) error {
	defer close(results)

	swg := sizedwaitgroup.New(checker.options.Workers)
	defer swg.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case pair, ok := <-pairs:
			if !ok {
				return nil
			}
			if err := swg.AddWithContext(ctx); err != nil {
				return err
			}
			go func() {
				defer swg.Done()
				result := checker.Check(pair)
				select {
				case results <- result:
				case <-ctx.Done():
				}
			}()
		}
	}
}

// CheckAll checks every pair and returns the results in input order.
func (checker *Checker) CheckAll(ctx context.Context, pairs []Pair) ([]Result, error) {
	results := make([]Result, len(pairs))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(checker.options.Workers)
	for i, pair := range pairs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = checker.Check(pair)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	logger.Debugf("Checked %d pairs with %d cached offers", len(pairs), checker.offers.Len())
	return results, nil
}

// CheckStream checks the pairs of reader while they are still being read.
// handle is called for every result as soon as it is available; the returned
// results are sorted by input line.
func (checker *Checker) CheckStream(ctx context.Context, reader io.Reader, handle func(Result)) ([]Result, error) {
	pairs := make(chan Pair)
	results := make(chan Result)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return StreamPairs(ctx, reader, pairs)
	})
	eg.Go(func() error {
		return checker.Run(ctx, pairs, results)
	})

	var collected []Result
	for result := range results {
		if handle != nil {
			handle(result)
		}
		collected = append(collected, result)
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	slices.SortFunc(collected, func(a, b Result) int {
		return cmp.Compare(a.Pair.Line, b.Pair.Line)
	})
	return collected, nil
}
