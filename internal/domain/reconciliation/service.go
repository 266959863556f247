package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"cashup/internal/domain/statement"
)

// IngestResult is what one statement upload produced.
type IngestResult struct {
	BatchID string           `json:"batchId"`
	Format  statement.Format `json:"format"`
	Items   []*Item          `json:"items"`
	Skipped int              `json:"skippedRecords"`
	Matched int              `json:"matchedCount"`
}

// IngestionService coordinates decoding, normalization, persistence, and
// matching for one uploaded statement.
type IngestionService struct {
	repo       Repository
	ledger     Ledger
	decoder    *statement.Decoder
	normalizer *statement.Normalizer
}

func NewIngestionService(repo Repository, ledger Ledger) *IngestionService {
	return &IngestionService{
		repo:       repo,
		ledger:     ledger,
		decoder:    statement.NewDecoder(),
		normalizer: statement.NewNormalizer(),
	}
}

// NewIngestionServiceWithDateLayout overrides the delimited-format date
// layout, for banks that export something other than YYYY-MM-DD.
func NewIngestionServiceWithDateLayout(repo Repository, ledger Ledger, layout string) *IngestionService {
	return &IngestionService{
		repo:       repo,
		ledger:     ledger,
		decoder:    statement.NewDecoderWithDateLayout(layout),
		normalizer: statement.NewNormalizerWithDateLayout(layout),
	}
}

// Ingest runs one upload end to end. Decoding or a malformed CSV row
// rejects the batch before anything is persisted; markup records that fail
// normalization are skipped and counted. Persisted items are then matched
// against the ledger in input order, so repeated runs over the same input
// claim transactions identically.
func (s *IngestionService) Ingest(ctx context.Context, raw []byte, filename string) (*IngestResult, error) {
	records, format, err := s.decoder.Decode(raw, filename)
	if err != nil {
		return nil, err
	}

	batchID := uuid.New().String()

	// Normalize everything up front: a CSV row with an unparseable date or
	// amount must reject the upload with nothing persisted.
	movements := make([]statement.Movement, 0, len(records))
	skipped := 0
	for _, rec := range records {
		mv, err := s.normalizer.Normalize(rec)
		if err != nil {
			if rec.Format == statement.FormatCSV {
				return nil, &statement.MalformedInputError{Row: rec.Row, Reason: err.Error()}
			}
			log.Printf("Batch %s: skipping markup record %d: %v", batchID, rec.Row, err)
			skipped++
			continue
		}
		movements = append(movements, mv)
	}

	result := &IngestResult{
		BatchID: batchID,
		Format:  format,
		Items:   make([]*Item, 0, len(movements)),
		Skipped: skipped,
	}

	for _, mv := range movements {
		item, err := s.repo.Save(ctx, mv)
		if err != nil {
			return nil, fmt.Errorf("saved %d of %d items before failure: %w",
				len(result.Items), len(movements), err)
		}
		result.Items = append(result.Items, item)
	}

	// Persistence is complete; the matcher now sees a committed snapshot.
	matched, err := s.matchItems(ctx, result.Items)
	result.Matched = matched
	if err != nil {
		return result, err
	}

	log.Printf("Batch %s: ingested %d items (%d matched, %d skipped) from %s",
		batchID, len(result.Items), result.Matched, result.Skipped, filename)
	return result, nil
}

// Rematch runs one matching pass over all currently Pending items. The
// background scheduler calls this to pick up items whose ledger
// counterpart was recorded after their upload.
func (s *IngestionService) Rematch(ctx context.Context) (int, error) {
	items, err := s.repo.List(ctx, ItemFilter{Status: StatusPending})
	if err != nil {
		return 0, fmt.Errorf("listing pending items: %w", err)
	}
	return s.matchItems(ctx, items)
}

// List returns reconciliation items for caller display.
func (s *IngestionService) List(ctx context.Context, filter ItemFilter) ([]*Item, error) {
	return s.repo.List(ctx, filter)
}

// matchItems runs a single matching pass over items, applying transitions
// through the store. Items slice entries are replaced with the stored
// versions as they transition.
func (s *IngestionService) matchItems(ctx context.Context, items []*Item) (int, error) {
	matcher := NewMatcher(s.ledger)
	matched := 0

	for i, item := range items {
		if item.Status != StatusPending {
			continue
		}

		res, err := matcher.Match(ctx, item)
		if err != nil {
			return matched, err
		}
		if !res.Matched {
			continue
		}

		txID := res.TransactionID
		updated, err := s.repo.UpdateStatus(ctx, item.ID, StatusMatched, &txID)
		if err != nil {
			if errors.Is(err, ErrTransactionClaimed) {
				// A concurrent upload claimed the transaction between our
				// query and the update. The item stays Pending for the
				// next pass; the in-pass claim keeps later items from
				// retrying the same transaction.
				continue
			}
			return matched, fmt.Errorf("updating item %d: %w", item.ID, err)
		}
		items[i] = updated
		matched++
	}
	return matched, nil
}
