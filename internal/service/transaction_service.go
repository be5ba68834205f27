package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/arsverma5/huskyhub-api/internal/dto"
	"github.com/arsverma5/huskyhub-api/internal/models"
	"github.com/arsverma5/huskyhub-api/internal/repository"
)

// TransactionService manages bookings through the transaction lifecycle.
type TransactionService interface {
	List(ctx context.Context, req dto.TransactionListRequest) (dto.TransactionListResponse, error)
	Get(ctx context.Context, id uint) (dto.TransactionResponse, error)
	Create(ctx context.Context, payload dto.TransactionCreateRequest, actor ActivityActor) (dto.TransactionResponse, error)
	UpdateStatus(ctx context.Context, id uint, payload dto.TransactionStatusRequest, actor ActivityActor) (dto.TransactionResponse, error)
	Cancel(ctx context.Context, id uint, actor ActivityActor) (dto.TransactionResponse, error)
}

type transactionService struct {
	repos     repository.Repositories
	uow       repository.UnitOfWork
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewTransactionService constructs the booking service.
func NewTransactionService(repos repository.Repositories, uow repository.UnitOfWork, validator *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) TransactionService {
	return &transactionService{
		repos:     repos,
		uow:       uow,
		validator: validator,
		activity:  activity,
		logger:    logger.With().Str("component", "transaction_service").Logger(),
	}
}

func (s *transactionService) List(ctx context.Context, req dto.TransactionListRequest) (dto.TransactionListResponse, error) {
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status != "" && !models.TransactionStatus(status).Valid() {
		return dto.TransactionListResponse{}, invalidArgument("status must be one of requested, confirmed, completed or cancelled")
	}

	transactions, total, err := s.repos.Transactions.List(ctx, repository.TransactionFilter{
		BuyerID:    req.BuyerID,
		ProviderID: req.ProviderID,
		Status:     status,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
	if err != nil {
		return dto.TransactionListResponse{}, err
	}

	items := make([]dto.TransactionResponse, 0, len(transactions))
	for _, transaction := range transactions {
		items = append(items, dto.NewTransactionResponse(transaction))
	}

	return dto.TransactionListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(req.Page, req.PageSize, total),
	}, nil
}

func (s *transactionService) Get(ctx context.Context, id uint) (dto.TransactionResponse, error) {
	transaction, err := s.repos.Transactions.GetByID(ctx, id)
	if err != nil {
		return dto.TransactionResponse{}, notFound(err, ErrTransactionNotFound)
	}
	return dto.NewTransactionResponse(transaction), nil
}

// Create books an active listing for an active buyer at the listing's current price.
func (s *transactionService) Create(ctx context.Context, payload dto.TransactionCreateRequest, actor ActivityActor) (dto.TransactionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TransactionResponse{}, err
	}

	var created models.Transaction
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		buyer, err := repos.Students.GetByID(ctx, payload.BuyerID)
		if err != nil {
			return notFound(err, ErrStudentNotFound)
		}
		if buyer.AccountStatus != models.AccountStatusActive {
			return ErrAccountInactive
		}

		listing, err := repos.Listings.GetByID(ctx, payload.ListingID)
		if err != nil {
			return notFound(err, ErrListingNotFound)
		}
		if listing.ProviderID == buyer.ID {
			return invalidArgument("providers cannot book their own listing")
		}
		if err := requireActiveProvider(listing.Provider); err != nil {
			return err
		}
		if listing.ListingStatus != models.ListingStatusActive {
			return ErrListingUnavailable
		}

		transaction := models.Transaction{
			BuyerID:        buyer.ID,
			ListingID:      listing.ID,
			BookDate:       payload.BookDate.UTC(),
			PaymentAmount:  listing.Price,
			TransactStatus: models.TransactionStatusRequested,
		}
		if err := repos.Transactions.Create(ctx, &transaction); err != nil {
			return err
		}

		created, err = repos.Transactions.GetByID(ctx, transaction.ID)
		return err
	})
	if err != nil {
		return dto.TransactionResponse{}, err
	}

	record(ctx, s.activity, s.logger, actor, "transaction.requested", "transaction", created.ID, map[string]interface{}{
		"listing_id": created.ListingID,
		"buyer_id":   created.BuyerID,
	})

	return dto.NewTransactionResponse(created), nil
}

// UpdateStatus applies one step of the transaction transition table.
func (s *transactionService) UpdateStatus(ctx context.Context, id uint, payload dto.TransactionStatusRequest, actor ActivityActor) (dto.TransactionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TransactionResponse{}, err
	}
	return s.transition(ctx, id, models.TransactionStatus(payload.TransactStatus), actor)
}

// Cancel is the buyer-side shortcut for moving a booking to cancelled.
func (s *transactionService) Cancel(ctx context.Context, id uint, actor ActivityActor) (dto.TransactionResponse, error) {
	return s.transition(ctx, id, models.TransactionStatusCancelled, actor)
}

func (s *transactionService) transition(ctx context.Context, id uint, next models.TransactionStatus, actor ActivityActor) (dto.TransactionResponse, error) {
	var (
		previous models.TransactionStatus
		updated  models.Transaction
	)
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		current, err := repos.Transactions.GetByID(ctx, id)
		if err != nil {
			return notFound(err, ErrTransactionNotFound)
		}
		previous = current.TransactStatus
		if _, err := current.TransactStatus.TransitionTo(next); err != nil {
			return err
		}
		if err := repos.Transactions.UpdateStatus(ctx, id, current.TransactStatus, next); err != nil {
			return err
		}
		updated, err = repos.Transactions.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return dto.TransactionResponse{}, err
	}

	record(ctx, s.activity, s.logger, actor, "transaction."+string(next), "transaction", id, map[string]interface{}{
		"from": string(previous),
		"to":   string(next),
	})

	return dto.NewTransactionResponse(updated), nil
}
