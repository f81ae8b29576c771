package persistent

import (
	"context"

	"souk-oman/pkg/storage"
	"souk-oman/services/marketplace/internal/entity"
	"souk-oman/services/marketplace/internal/model"
)

// UserRepository holds the signed-in user of one session.
type UserRepository interface {
	Get(ctx context.Context) *entity.User
	Save(ctx context.Context, user *entity.User)
	Clear(ctx context.Context)
}

type userRepository struct {
	store *storage.Facade
}

func NewUserRepository(store *storage.Facade) UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Get(ctx context.Context) *entity.User {
	var m model.UserModel
	if !r.store.Get(ctx, storage.KeyAuthUser, &m) || m.ID == "" {
		return nil
	}
	return ToUserEntity(&m)
}

func (r *userRepository) Save(ctx context.Context, user *entity.User) {
	r.store.Set(ctx, storage.KeyAuthUser, ToUserModel(user))
}

func (r *userRepository) Clear(ctx context.Context) {
	r.store.Remove(ctx, storage.KeyAuthUser)
}
