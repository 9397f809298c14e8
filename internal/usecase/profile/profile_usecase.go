package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdugdh24/dejavu-backend/internal/domain"
	"github.com/gdugdh24/dejavu-backend/internal/pkg/validation"
	"github.com/gdugdh24/dejavu-backend/internal/repository"
	"go.uber.org/zap"
)

type ProfileUseCase struct {
	userRepo repository.UserRepository
	logger   *zap.Logger
}

func NewProfileUseCase(userRepo repository.UserRepository, logger *zap.Logger) *ProfileUseCase {
	return &ProfileUseCase{
		userRepo: userRepo,
		logger:   logger,
	}
}

// UpdateProfileRequest represents profile update request
type UpdateProfileRequest struct {
	FirstName        *string                  `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName         *string                  `json:"last_name" binding:"omitempty,max=100"`
	ProfileImageURL  *string                  `json:"profile_image_url" binding:"omitempty,url,max=500"`
	Bio              *string                  `json:"bio" binding:"omitempty,max=500"`
	Age              *int                     `json:"age" binding:"omitempty,min=18,max=100"`
	Location         *string                  `json:"location" binding:"omitempty,max=100"`
	Gender           *domain.Gender           `json:"gender" binding:"omitempty,oneof=man woman non-binary"`
	GenderPreference *domain.GenderPreference `json:"gender_preference" binding:"omitempty,oneof=men women everyone"`
}

// GetMe returns the caller's own profile
func (uc *ProfileUseCase) GetMe(ctx context.Context, userID int) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

// UpdateMe applies the non-nil fields of req to the caller's profile
func (uc *ProfileUseCase) UpdateMe(ctx context.Context, userID int, req *UpdateProfileRequest) (*domain.User, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = trimmed(req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = trimmed(req.LastName)
	}
	if req.ProfileImageURL != nil {
		user.ProfileImageURL = trimmed(req.ProfileImageURL)
	}
	if req.Bio != nil {
		user.Bio = trimmed(req.Bio)
	}
	if req.Age != nil {
		user.Age = req.Age
	}
	if req.Location != nil {
		user.Location = trimmed(req.Location)
	}
	if req.Gender != nil {
		user.Gender = req.Gender
	}
	if req.GenderPreference != nil {
		user.GenderPreference = req.GenderPreference
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// CompleteOnboarding makes the caller discoverable. Discovery needs a gender
// and a gender preference, so both must be set first.
func (uc *ProfileUseCase) CompleteOnboarding(ctx context.Context, userID int) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.OnboardingCompleted {
		return user, nil
	}
	if user.Gender == nil {
		return nil, domain.NewValidationError("gender", "is required to complete onboarding")
	}
	if user.GenderPreference == nil {
		return nil, domain.NewValidationError("gender_preference", "is required to complete onboarding")
	}

	user.OnboardingCompleted = true
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to complete onboarding: %w", err)
	}

	uc.logger.Info("Onboarding completed", zap.Int("user_id", userID))
	return user, nil
}

func trimmed(s *string) *string {
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
