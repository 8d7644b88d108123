// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"todo_backend/internal/feature/auth/domain/entity"
)

// dummyPasswordHash はユーザーが存在しない場合にbcrypt比較を実行するためのダミーハッシュです。
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化し、IDを設定します。
	// 同じメールアドレスのユーザーが既に存在する場合、ErrDuplicateIdentityを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

// JWTGenerator はトークンの発行と検証を定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type JWTGenerator interface {
	// GenerateToken は指定されたユーザーの署名済みトークンを生成します。
	GenerateToken(userID, email string) (string, error)
	// VerifyToken は署名と有効期限を検証し、ユーザーIDを返します。
	VerifyToken(token string) (string, error)
}

// AuthUsecase は認証ビジネスロジックを実装します。
type AuthUsecase struct {
	users        UserRepository
	jwtGenerator JWTGenerator
	validate     *validator.Validate
	hashCost     int
}

// NewAuthUsecase はAuthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, jwtGenerator JWTGenerator) *AuthUsecase {
	return &AuthUsecase{
		users:        users,
		jwtGenerator: jwtGenerator,
		validate:     validator.New(),
		hashCost:     bcrypt.DefaultCost,
	}
}

// validateCredentials はメール形式と空でないパスワードを検証します。
func (u *AuthUsecase) validateCredentials(email, password string) error {
	if err := u.validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("%w: malformed email", ErrInvalidInput)
	}
	if password == "" {
		return fmt.Errorf("%w: empty password", ErrInvalidInput)
	}
	return nil
}

// Signup はハッシュ化されたパスワードで新規ユーザーを登録し、トークンを発行します。
func (u *AuthUsecase) Signup(ctx context.Context, email, password string) (*entity.User, string, error) {
	if err := u.validateCredentials(email, password); err != nil {
		return nil, "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), u.hashCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{Email: email, Password: string(hashed)}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateIdentity) {
			return nil, "", ErrDuplicateIdentity
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := u.jwtGenerator.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

// Login はユーザーを認証し、成功時に新しいトークンを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *AuthUsecase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		// ストア障害は認証失敗と区別する
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	passwordHash := dummyPasswordHash
	if err == nil {
		passwordHash = user.Password
	}

	// 第1引数はハッシュ化パスワード、第2引数は平文パスワード
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	// ユーザー未検出またはパスワード不一致の場合、同じエラーを返す
	if err != nil || compareErr != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := u.jwtGenerator.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

// ResolveIdentity はトークンを検証し、発行先のユーザーIDを返します。副作用はありません。
func (u *AuthUsecase) ResolveIdentity(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthenticated
	}
	userID, err := u.jwtGenerator.VerifyToken(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if userID == "" {
		return "", ErrUnauthenticated
	}
	return userID, nil
}
