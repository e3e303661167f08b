package usecase

import (
	"context"
	"strings"

	domainErrors "github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/errors"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/repository"
)

// ReviewUseCase stores and lists product reviews.
type ReviewUseCase struct {
	reviews repository.ReviewRepository
	users   repository.UserRepository
}

// NewReviewUseCase constructs ReviewUseCase.
func NewReviewUseCase(reviews repository.ReviewRepository, users repository.UserRepository) *ReviewUseCase {
	return &ReviewUseCase{reviews: reviews, users: users}
}

// Submit records userID's review of productID. A second review of the same product fails with ErrAlreadyReviewed.
func (u *ReviewUseCase) Submit(ctx context.Context, userID, productID string, rating int, comment string) (*model.Review, error) {
	if !model.IsID(productID) {
		return nil, domainErrors.ErrMalformedID
	}

	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	review := &model.Review{
		ID:        model.NewID(),
		ProductID: strings.ToLower(productID),
		UserID:    userID,
		UserName:  usr.Name,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
	}
	if err := u.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// List returns reviews of productID, newest first.
func (u *ReviewUseCase) List(ctx context.Context, productID string) ([]model.Review, error) {
	if !model.IsID(productID) {
		return nil, domainErrors.ErrMalformedID
	}
	return u.reviews.ListByProduct(ctx, strings.ToLower(productID))
}
