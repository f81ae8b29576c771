package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"souk-oman/pkg/logger"
	"souk-oman/pkg/validator"
	"souk-oman/services/marketplace/internal/entity"
	"souk-oman/services/marketplace/internal/repo/persistent"

	"github.com/google/uuid"
)

// DemoUserName is the display name given to users created by Login.
const DemoUserName = "مستخدم تجريبي"

var userNamespace = uuid.MustParse("6b5f4f2e-2f4a-4f0e-9d8e-0d3c2f1a9b77")

// AuthUseCase is the identity state of one session. Authentication is a
// mock: any non-empty credentials succeed.
type AuthUseCase interface {
	Login(ctx context.Context, identifier, password string) (*entity.User, error)
	Register(ctx context.Context, input entity.RegisterInput) (*entity.User, error)
	VerifyCode(ctx context.Context, code string) (*entity.User, error)
	Logout(ctx context.Context)
	UpdateUser(ctx context.Context, patch entity.UserPatch) (*entity.User, error)
	State() entity.SessionState
	ClearError()
}

type authUseCase struct {
	userRepo  persistent.UserRepository
	delayer   Delayer
	verifier  CodeVerifier
	clock     Clock
	validator *validator.Validator
	logger    *logger.Logger

	mu               sync.Mutex
	user             *entity.User
	loading          bool
	lastError        string
	verificationStep int
}

// NewAuthUseCase restores the persisted user, if any.
func NewAuthUseCase(
	ctx context.Context,
	userRepo persistent.UserRepository,
	delayer Delayer,
	verifier CodeVerifier,
	clock Clock,
	validator *validator.Validator,
	logger *logger.Logger,
) AuthUseCase {
	return &authUseCase{
		userRepo:  userRepo,
		delayer:   delayer,
		verifier:  verifier,
		clock:     clock,
		validator: validator,
		logger:    logger,
		user:      userRepo.Get(ctx),
	}
}

// UserID derives a stable user id from a login identifier, so the same
// phone or email always maps to the same quota record.
func UserID(identifier string) string {
	return uuid.NewSHA1(userNamespace, []byte(strings.ToLower(strings.TrimSpace(identifier)))).String()
}

func (uc *authUseCase) Login(ctx context.Context, identifier, password string) (*entity.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, uc.fail(fmt.Errorf("%w: phone number or email is required", entity.ErrValidation))
	}
	if password == "" {
		return nil, uc.fail(fmt.Errorf("%w: password is required", entity.ErrValidation))
	}

	if err := uc.wait(ctx); err != nil {
		return nil, err
	}

	user := &entity.User{
		ID:        UserID(identifier),
		Name:      DemoUserName,
		Verified:  true,
		MaxAds:    entity.WeeklyAdLimit,
		CreatedAt: uc.clock.Now(),
	}
	if strings.Contains(identifier, "@") {
		user.Email = identifier
	} else {
		user.Phone = identifier
	}

	uc.mu.Lock()
	uc.user = user
	uc.userRepo.Save(ctx, user)
	uc.mu.Unlock()

	uc.logger.Info("User %s signed in", user.ID)
	return cloneUser(user), nil
}

func (uc *authUseCase) Register(ctx context.Context, input entity.RegisterInput) (*entity.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)
	if err := uc.validator.ValidateStruct(input); err != nil {
		return nil, uc.fail(fmt.Errorf("%w: %v", entity.ErrValidation, err))
	}

	if err := uc.wait(ctx); err != nil {
		return nil, err
	}

	user := &entity.User{
		ID:        UserID(input.Email),
		Email:     input.Email,
		Phone:     input.Phone,
		Name:      input.Name,
		Verified:  false,
		MaxAds:    entity.WeeklyAdLimit,
		CreatedAt: uc.clock.Now(),
	}

	uc.mu.Lock()
	uc.user = user
	uc.verificationStep = 1
	uc.userRepo.Save(ctx, user)
	uc.mu.Unlock()

	uc.logger.Info("User %s registered, awaiting verification", user.ID)
	return cloneUser(user), nil
}

func (uc *authUseCase) VerifyCode(ctx context.Context, code string) (*entity.User, error) {
	if strings.TrimSpace(code) == "" {
		return nil, uc.fail(fmt.Errorf("%w: verification code is required", entity.ErrValidation))
	}
	uc.mu.Lock()
	var pendingID string
	if uc.user != nil {
		pendingID = uc.user.ID
	}
	uc.mu.Unlock()
	if pendingID == "" {
		return nil, uc.fail(fmt.Errorf("%w: no user to verify", entity.ErrValidation))
	}

	if err := uc.wait(ctx); err != nil {
		return nil, err
	}

	if !uc.verifier.Verify(code) {
		return nil, uc.fail(entity.ErrVerification)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.user == nil || uc.user.ID != pendingID {
		// Signed out or switched user while waiting.
		err := fmt.Errorf("%w: user changed during verification", entity.ErrValidation)
		uc.lastError = err.Error()
		return nil, err
	}
	uc.user.Verified = true
	uc.verificationStep = 0
	uc.userRepo.Save(ctx, uc.user)

	uc.logger.Info("User %s verified", uc.user.ID)
	return cloneUser(uc.user), nil
}

func (uc *authUseCase) Logout(ctx context.Context) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.user = nil
	uc.lastError = ""
	uc.verificationStep = 0
	uc.userRepo.Clear(ctx)
}

// UpdateUser merges patch into the current user.
func (uc *authUseCase) UpdateUser(ctx context.Context, patch entity.UserPatch) (*entity.User, error) {
	if err := uc.validator.ValidateStruct(patch); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrValidation, err)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.user == nil {
		return nil, entity.ErrAuthRequired
	}
	updated := cloneUser(uc.user)
	patch.Apply(updated)
	uc.user = updated
	uc.userRepo.Save(ctx, updated)
	return cloneUser(updated), nil
}

func (uc *authUseCase) State() entity.SessionState {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return entity.SessionState{
		User:             cloneUser(uc.user),
		Loading:          uc.loading,
		Error:            uc.lastError,
		VerificationStep: uc.verificationStep,
		IsAuthenticated:  uc.user != nil,
		IsVerified:       uc.user != nil && uc.user.Verified,
	}
}

func (uc *authUseCase) ClearError() {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.lastError = ""
}

// wait runs the simulated delay with the loading flag raised. A cancelled
// context leaves the session untouched apart from the flag.
func (uc *authUseCase) wait(ctx context.Context) error {
	uc.mu.Lock()
	uc.loading = true
	uc.lastError = ""
	uc.mu.Unlock()

	err := uc.delayer.Delay(ctx)

	uc.mu.Lock()
	uc.loading = false
	uc.mu.Unlock()
	return err
}

func (uc *authUseCase) fail(err error) error {
	uc.mu.Lock()
	uc.lastError = err.Error()
	uc.mu.Unlock()
	return err
}

func cloneUser(u *entity.User) *entity.User {
	if u == nil {
		return nil
	}
	out := *u
	return &out
}
