// Package tokengate реализует шлюз одноразовых токенов доступа:
// выпуск администратором, резервирование за email при регистрации,
// погашение при создании участника и одношаговое погашение при сбросе пароля.
//
// Жизненный цикл токена: unused -> reserved(email) -> consumed (терминальное).
// Для сброса пароля допускается переход unused -> consumed без резервирования.
// Все переходы выражены условными UPDATE в хранилище, сервис никогда
// не полагается на чтение с последующей записью.
package tokengate

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/gym-membership/internal/lib/jwt"
	"github.com/magabrotheeeer/gym-membership/internal/lib/password"
	"github.com/magabrotheeeer/gym-membership/internal/lib/signup"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// Типизированные ошибки шлюза. Обработчики сопоставляют их кодам 4xx.
var (
	ErrTokenNotFound       = errors.New("token not found")
	ErrAlreadyReserved     = errors.New("token already reserved")
	ErrTokenConsumed       = errors.New("token already consumed")
	ErrReservationMismatch = errors.New("token reserved for another email")
	ErrContinuationInvalid = errors.New("continuation token invalid or expired")
	ErrEmailTaken          = errors.New("email already registered")
	ErrMemberNotFound      = errors.New("member not found")
)

// TokenRepository контракт хранилища одноразовых токенов.
type TokenRepository interface {
	CreateToken(ctx context.Context, token models.AccessToken) (int, error)
	GetTokenByValue(ctx context.Context, tokenValue string) (*models.AccessToken, error)
	GetTokenByID(ctx context.Context, id int) (*models.AccessToken, error)
	ReserveToken(ctx context.Context, tokenValue, email string) (*models.AccessToken, error)
	ConsumeToken(ctx context.Context, id int, usedBy string, extra map[string]any) error
	ConsumeTokenByValue(ctx context.Context, tokenValue, usedBy string, extra map[string]any) error
	ListTokens(ctx context.Context, createdBy string, limit, offset int) ([]*models.AccessToken, error)
}

// MemberRepository контракт хранилища участников, используемый шлюзом.
type MemberRepository interface {
	CreateMember(ctx context.Context, member models.Member) (string, error)
	GetMemberByEmail(ctx context.Context, email string) (*models.Member, error)
	UpdateMemberPassword(ctx context.Context, uid, passwordHash string) error
}

// ActivityRepository контракт журнала действий.
type ActivityRepository interface {
	AppendActivity(ctx context.Context, record models.ActivityRecord) error
}

// Service реализует операции шлюза одноразовых токенов.
type Service struct {
	tokens      TokenRepository
	members     MemberRepository
	activity    ActivityRepository
	signupMaker *signup.Maker
	jwtMaker    jwt.Maker
}

// New создает новый экземпляр Service.
func New(tokens TokenRepository, members MemberRepository, activity ActivityRepository,
	signupMaker *signup.Maker, jwtMaker jwt.Maker) *Service {
	return &Service{
		tokens:      tokens,
		members:     members,
		activity:    activity,
		signupMaker: signupMaker,
		jwtMaker:    jwtMaker,
	}
}

// Issue выпускает новый одноразовый токен заданного класса и назначения.
// Значение токена — криптослучайные 16 байт в hex.
func (s *Service) Issue(ctx context.Context, class, purpose, issuerUID string) (*models.AccessToken, error) {
	const op = "tokengate.Issue"

	if class != models.TokenPrefixB1 && class != models.TokenPrefixB2 {
		return nil, fmt.Errorf("%s: unknown token class %q", op, class)
	}
	if purpose != models.TokenPurposeRegistration && purpose != models.TokenPurposePasswordReset {
		return nil, fmt.Errorf("%s: unknown token purpose %q", op, purpose)
	}

	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	token := models.AccessToken{
		Token:     hex.EncodeToString(raw),
		Prefix:    class,
		Purpose:   purpose,
		CreatedBy: issuerUID,
	}
	id, err := s.tokens.CreateToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	token.ID = id
	return &token, nil
}

// Reserve резервирует неиспользованный токен за email и возвращает
// подписанный артефакт продолжения регистрации.
// Повторное резервирование, включая повтор с тем же email, отвергается.
func (s *Service) Reserve(ctx context.Context, tokenValue, email string) (string, error) {
	const op = "tokengate.Reserve"

	reserved, err := s.tokens.ReserveToken(ctx, tokenValue, email)
	if err == nil {
		continuation, err := s.signupMaker.Issue(email, reserved.ID, reserved.Prefix)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		return continuation, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	// Условный UPDATE не совпал: выясняем причину повторным чтением.
	existing, ferr := s.tokens.GetTokenByValue(ctx, tokenValue)
	if ferr != nil {
		if errors.Is(ferr, sql.ErrNoRows) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("%s: %w", op, ferr)
	}
	if existing.IsUsed {
		return "", ErrTokenNotFound
	}
	if existing.ReservedFor() != "" {
		return "", ErrAlreadyReserved
	}
	return "", ErrTokenNotFound
}

// Redeem завершает регистрацию: проверяет артефакт продолжения, создает
// участника в филиале, заданном классом токена, и погашает токен.
// Возвращает созданного участника и токен доступа.
//
// Создание участника и погашение токена — две отдельные записи.
// Проигравшая гонку попытка получает ErrTokenConsumed, но участник,
// созданный победителем, остается.
func (s *Service) Redeem(ctx context.Context, continuation string, form models.DummyMember) (*models.Member, string, error) {
	const op = "tokengate.Redeem"

	claims, err := s.signupMaker.Verify(continuation)
	if err != nil {
		return nil, "", ErrContinuationInvalid
	}

	token, err := s.tokens.GetTokenByID(ctx, claims.TokenID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrTokenNotFound
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if token.IsUsed {
		return nil, "", ErrTokenConsumed
	}
	if token.ReservedFor() != claims.Email {
		return nil, "", ErrReservationMismatch
	}

	if _, err := s.members.GetMemberByEmail(ctx, claims.Email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(form.Password)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	dob, err := parseDateOfBirth(form.DOB)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	member := models.Member{
		FullName:     form.FullName,
		Email:        claims.Email,
		Phone:        form.Phone,
		PasswordHash: hashed,
		Branch:       token.Prefix, // Филиал определяет класс токена
		Height:       form.Height,
		Weight:       form.Weight,
		Gender:       form.Gender,
		DateOfBirth:  dob,
		Address:      form.Address,
		Role:         "member",
	}
	uid, err := s.members.CreateMember(ctx, member)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	member.UID = uid

	err = s.tokens.ConsumeToken(ctx, token.ID, uid, map[string]any{
		"registered_email": claims.Email,
		"consumed_at":      time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrTokenConsumed
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	_ = s.activity.AppendActivity(ctx, models.ActivityRecord{
		Actor:        uid,
		Action:       "member.registered",
		ResourceType: "access_token",
		ResourceID:   fmt.Sprintf("%d", token.ID),
		Metadata:     map[string]any{"branch": token.Prefix},
	})

	accessToken, err := s.jwtMaker.GenerateToken(uid, claims.Email, "member")
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return &member, accessToken, nil
}

// RedeemForReset одношагово гасит неиспользованный токен и устанавливает
// участнику новый пароль. При конкурентных попытках преуспевает ровно одна.
func (s *Service) RedeemForReset(ctx context.Context, tokenValue, email, newPassword string) error {
	const op = "tokengate.RedeemForReset"

	member, err := s.members.GetMemberByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	err = s.tokens.ConsumeTokenByValue(ctx, tokenValue, member.UID, map[string]any{
		"reset_email": email,
		"consumed_at": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTokenNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.members.UpdateMemberPassword(ctx, member.UID, hashed); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_ = s.activity.AppendActivity(ctx, models.ActivityRecord{
		Actor:        member.UID,
		Action:       "member.password_reset",
		ResourceType: "access_token",
		ResourceID:   tokenValue,
	})
	return nil
}

// List возвращает токены, выписанные администратором.
func (s *Service) List(ctx context.Context, issuerUID string, limit, offset int) ([]*models.AccessToken, error) {
	const op = "tokengate.List"
	tokens, err := s.tokens.ListTokens(ctx, issuerUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tokens, nil
}

// parseDateOfBirth принимает дату рождения в ISO или day-first формате.
func parseDateOfBirth(input string) (*time.Time, error) {
	if input == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", "02-01-2006", "02/01/2006", "02.01.2006"} {
		if parsed, err := time.Parse(layout, input); err == nil {
			return &parsed, nil
		}
	}
	return nil, fmt.Errorf("unrecognized date of birth %q", input)
}
