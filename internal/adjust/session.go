// Package adjust stages the edit of a single cart line. A session is the
// explicit value behind the "adjust size or quantity" dialog: nil means no
// dialog is open, a non-nil session carries exactly one candidate. Nothing
// touches persisted state until Commit.
package adjust

import (
	"context"
	"errors"
	"fmt"

	"github.com/glorimarket/cart_service/internal/models"
	"github.com/glorimarket/cart_service/internal/pricing"
	"github.com/google/uuid"
)

// MaxQuantity is the top of the quantity selector. The store itself only
// requires a positive quantity; the editing surface stops at five bottles.
const MaxQuantity = 5

var (
	ErrBusy   = errors.New("commit outstanding")
	ErrClosed = errors.New("session closed")
)

// Committer pushes the staged values into the cart once the user confirms.
type Committer interface {
	RequestAdjust(ctx context.Context, itemID uuid.UUID, size int, quantity uint) error
}

// Candidate is the scratch copy being edited: item identity plus the
// size/quantity the user has picked so far.
type Candidate struct {
	ItemID   uuid.UUID
	Title    string
	Size     int
	Quantity uint
}

type Session struct {
	committer Committer
	candidate Candidate
	busy      bool
	closed    bool
}

// Open starts a session for one line item, snapshotting its current size
// and quantity into the candidate. Opening a new session while another is
// on screen is simply replacing the old pointer with the new session; no
// staged edit survives the swap.
func Open(committer Committer, item models.LineItem) *Session {
	return &Session{
		committer: committer,
		candidate: Candidate{
			ItemID:   item.ID,
			Title:    item.Product.Title,
			Size:     item.Size,
			Quantity: item.Quantity,
		},
	}
}

func (s *Session) Candidate() Candidate {
	return s.candidate
}

func (s *Session) Busy() bool {
	return s.busy
}

// SetSize stages a new bottle size. Purely local; the persisted line is
// untouched.
func (s *Session) SetSize(size int) error {
	if err := s.editable(); err != nil {
		return err
	}
	if !pricing.ValidSize(size) {
		return fmt.Errorf("size %d is not one of 50/100/200: %w", size, pricing.ErrValidation)
	}
	s.candidate.Size = size
	return nil
}

// SetQuantity stages a new quantity within the 1..5 selector range.
func (s *Session) SetQuantity(quantity uint) error {
	if err := s.editable(); err != nil {
		return err
	}
	if quantity < 1 || quantity > MaxQuantity {
		return fmt.Errorf("quantity %d is outside 1..%d: %w", quantity, MaxQuantity, pricing.ErrValidation)
	}
	s.candidate.Quantity = quantity
	return nil
}

// Commit pushes the candidate — size and quantity together, never one
// without the other — through the committer. On failure the candidate is
// preserved so the user can retry without re-entering values.
func (s *Session) Commit(ctx context.Context) error {
	if err := s.editable(); err != nil {
		return err
	}

	s.busy = true
	err := s.committer.RequestAdjust(ctx, s.candidate.ItemID, s.candidate.Size, s.candidate.Quantity)
	s.busy = false
	if err != nil {
		return err
	}
	s.closed = true
	return nil
}

// Cancel discards the candidate unconditionally. Persisted state is never
// touched.
func (s *Session) Cancel() {
	s.candidate = Candidate{}
	s.closed = true
}

func (s *Session) Closed() bool {
	return s.closed
}

func (s *Session) editable() error {
	if s.closed {
		return ErrClosed
	}
	if s.busy {
		return ErrBusy
	}
	return nil
}
