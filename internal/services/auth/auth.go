// Package auth содержит логику бизнес-уровня для аутентификации
// администраторов и участников, смены и восстановления пароля.
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/magabrotheeeer/gym-membership/internal/lib/jwt"
	"github.com/magabrotheeeer/gym-membership/internal/lib/password"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// OTPTTL срок жизни кода восстановления пароля.
const OTPTTL = 10 * time.Minute

var (
	// ErrInvalidCredentials неверная пара email/пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidOTP код восстановления не совпал или истёк.
	ErrInvalidOTP = errors.New("invalid or expired otp")
)

// AdminRepository описывает контракт для работы с администраторами.
type AdminRepository interface {
	GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error)
	GetAdmin(ctx context.Context, uid string) (*models.Admin, error)
	UpdateAdminPassword(ctx context.Context, uid, passwordHash string) error
	UpdateGymInfo(ctx context.Context, uid, gymName string) error
}

// MemberRepository описывает контракт для работы с участниками.
type MemberRepository interface {
	GetMemberByEmail(ctx context.Context, email string) (*models.Member, error)
	GetMember(ctx context.Context, uid string) (*models.Member, error)
	UpdateMemberPassword(ctx context.Context, uid, passwordHash string) error
}

// OTPStore хранит коды восстановления с истечением срока.
type OTPStore interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Notifier доставляет код восстановления получателю.
type Notifier interface {
	PublishOTP(email, code string) error
}

// Service отвечает за вход, смену и восстановление пароля.
type Service struct {
	admins   AdminRepository
	members  MemberRepository
	otps     OTPStore
	notifier Notifier
	jwtMaker jwt.Maker
}

// New создает новый экземпляр Service.
func New(admins AdminRepository, members MemberRepository, otps OTPStore,
	notifier Notifier, jwtMaker jwt.Maker) *Service {
	return &Service{
		admins:   admins,
		members:  members,
		otps:     otps,
		notifier: notifier,
		jwtMaker: jwtMaker,
	}
}

// LoginAdmin проверяет пароль администратора и генерирует JWT.
func (s *Service) LoginAdmin(ctx context.Context, email, rawPassword string) (string, *models.Admin, error) {
	admin, err := s.admins.GetAdminByEmail(ctx, email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := password.CompareHash(admin.PasswordHash, rawPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(admin.UID, admin.Email, "admin")
	if err != nil {
		return "", nil, err
	}
	return token, admin, nil
}

// LoginMember проверяет пароль участника и генерирует JWT.
func (s *Service) LoginMember(ctx context.Context, email, rawPassword string) (string, *models.Member, error) {
	member, err := s.members.GetMemberByEmail(ctx, email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := password.CompareHash(member.PasswordHash, rawPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(member.UID, member.Email, "member")
	if err != nil {
		return "", nil, err
	}
	return token, member, nil
}

// ChangeMemberPassword меняет пароль участника после проверки текущего.
func (s *Service) ChangeMemberPassword(ctx context.Context, uid, oldPassword, newPassword string) error {
	member, err := s.members.GetMember(ctx, uid)
	if err != nil {
		return err
	}
	if err := password.CompareHash(member.PasswordHash, oldPassword); err != nil {
		return ErrInvalidCredentials
	}
	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return err
	}
	return s.members.UpdateMemberPassword(ctx, uid, hashed)
}

// ChangeAdminPassword меняет пароль администратора после проверки текущего.
func (s *Service) ChangeAdminPassword(ctx context.Context, uid, oldPassword, newPassword string) error {
	admin, err := s.admins.GetAdmin(ctx, uid)
	if err != nil {
		return err
	}
	if err := password.CompareHash(admin.PasswordHash, oldPassword); err != nil {
		return ErrInvalidCredentials
	}
	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return err
	}
	return s.admins.UpdateAdminPassword(ctx, uid, hashed)
}

// ForgotAdminPassword генерирует шестизначный код, сохраняет его
// с истечением срока и отправляет администратору.
func (s *Service) ForgotAdminPassword(ctx context.Context, email string) error {
	const op = "auth.ForgotAdminPassword"

	if _, err := s.admins.GetAdminByEmail(ctx, email); err != nil {
		return ErrInvalidCredentials
	}

	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.otps.Set(otpKey(email), code, OTPTTL); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.notifier.PublishOTP(email, code); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ResetAdminPassword проверяет код восстановления и устанавливает новый пароль.
// Код одноразовый: после успешной проверки запись удаляется.
func (s *Service) ResetAdminPassword(ctx context.Context, email, code, newPassword string) error {
	const op = "auth.ResetAdminPassword"

	admin, err := s.admins.GetAdminByEmail(ctx, email)
	if err != nil {
		return ErrInvalidCredentials
	}

	var stored string
	found, err := s.otps.Get(otpKey(email), &stored)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !found || stored != code {
		return ErrInvalidOTP
	}
	if err := s.otps.Invalidate(otpKey(email)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return s.admins.UpdateAdminPassword(ctx, admin.UID, hashed)
}

// UpdateGymName обновляет название клуба в профиле администратора.
func (s *Service) UpdateGymName(ctx context.Context, uid, gymName string) error {
	const op = "auth.UpdateGymName"
	if err := s.admins.UpdateGymInfo(ctx, uid, gymName); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ValidateToken проверяет JWT и возвращает его содержимое.
func (s *Service) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	return s.jwtMaker.ParseToken(token)
}

func otpKey(email string) string {
	return "otp:" + email
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
