package cheque

import (
	"context"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/beekhof/cheque-reminders/internal/reminder"
)

// Input holds the user supplied fields of a new cheque.
type Input struct {
	ChequeNumber  string
	BankName      string
	AccountNumber string
	PayeeName     string
	Amount        decimal.Decimal
	IssueDate     civil.Date
	DueDate       civil.Date
	Status        Status // defaults to pending
	Branch        string
	Notes         string
}

// Service implements the cheque workflows on top of a Repository.
type Service struct {
	repo     Repository
	resolver *reminder.Resolver
	now      func() time.Time
}

// NewService creates a new Service.
func NewService(repo Repository, resolver *reminder.Resolver) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		now:      time.Now,
	}
}

// Add validates in, computes its reminder once and stores the cheque.
func (s *Service) Add(ctx context.Context, in Input) (*Cheque, error) {
	status := in.Status
	if status == "" {
		status = StatusPending
	}

	c := &Cheque{
		ID:            uuid.New(),
		ChequeNumber:  in.ChequeNumber,
		BankName:      in.BankName,
		AccountNumber: in.AccountNumber,
		PayeeName:     in.PayeeName,
		Amount:        in.Amount,
		IssueDate:     in.IssueDate,
		DueDate:       in.DueDate,
		Status:        status,
		Branch:        in.Branch,
		Notes:         in.Notes,
		CreatedAt:     s.now().UTC(),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	rem, err := s.resolver.Resolve(c.DueDate)
	if err != nil {
		return nil, err
	}
	c.ApplyReminder(rem)

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save cheque %s: %w", c.ChequeNumber, err)
	}

	if c.IsHolidayAdjusted {
		log.Printf("Cheque %s added with holiday adjustment: %s", c.ChequeNumber, c.AdjustmentNote())
	} else {
		log.Printf("Cheque %s added, reminder on %s", c.ChequeNumber, c.DueDate)
	}
	return c, nil
}

// Get returns the cheque with the given id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Cheque, error) {
	return s.repo.Get(ctx, id)
}

// List returns cheques matching f, newest first.
func (s *Service) List(ctx context.Context, f Filter) ([]*Cheque, error) {
	return s.repo.List(ctx, f)
}

// Pending returns every pending cheque.
func (s *Service) Pending(ctx context.Context) ([]*Cheque, error) {
	return s.repo.List(ctx, Filter{Status: StatusPending})
}

// SetStatus changes the status of a cheque.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Cheque, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalid, status)
	}
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Status = status
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update cheque %s: %w", c.ChequeNumber, err)
	}
	log.Printf("Cheque %s marked as %s", c.ChequeNumber, status)
	return c, nil
}

// Reschedule moves the due date of a cheque. The stored reminder is left
// untouched; call Recalculate to refresh it.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, due civil.Date) (*Cheque, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.DueDate = due
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update cheque %s: %w", c.ChequeNumber, err)
	}
	return c, nil
}

// Recalculate recomputes the reminder of a cheque from its current due date.
func (s *Service) Recalculate(ctx context.Context, id uuid.UUID) (*Cheque, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	rem, err := s.resolver.Resolve(c.DueDate)
	if err != nil {
		return nil, err
	}
	c.ApplyReminder(rem)
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update cheque %s: %w", c.ChequeNumber, err)
	}
	return c, nil
}

// Delete removes a cheque.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Printf("Cheque %s deleted", id)
	return nil
}
