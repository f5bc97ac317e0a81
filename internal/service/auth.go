package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"golang.org/x/crypto/bcrypt"

	"github.com/itreb/portal"
	"github.com/itreb/portal/internal/domain"
	"github.com/itreb/portal/internal/usecase"
)

var tracer = otel.Tracer("auth")

type AuthService struct {
	config   domain.Config
	profiles usecase.ProfileRepository
	cache    *gocache.Cache
}

func NewAuthService(
	config domain.Config,
	profiles usecase.ProfileRepository,
) *AuthService {
	return &AuthService{
		config:   config,
		profiles: profiles,
		cache:    gocache.New(5*time.Minute, 10*time.Minute),
	}
}

type AuthResult struct {
	Profile domain.Profile
}

// Signup provisions an applicant account. Board members are promoted out of
// band.
func (s *AuthService) Signup(ctx context.Context, email, fullName, password string) (domain.Profile, error) {
	email = strings.TrimSpace(email)
	if !portal.IsValidEmail(email) {
		return domain.Profile{}, domain.ValidationError{Field: "email", Reason: "invalid email address"}
	}
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return domain.Profile{}, domain.ValidationError{Field: "full_name", Reason: "required"}
	}
	if len(password) < 8 {
		return domain.Profile{}, domain.ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Profile{}, errors.Wrap(err, "AuthService.Signup: hashing failed")
	}

	return s.profiles.Create(ctx, domain.Profile{
		Email:        email,
		FullName:     fullName,
		Role:         portal.RoleApplicant,
		PasswordHash: string(hash),
	})
}

// Signin verifies credentials and issues a session token.
func (s *AuthService) Signin(ctx context.Context, email, password string) (string, domain.Profile, error) {
	ctx, span := tracer.Start(ctx, "Auth.Service.Signin")
	defer span.End()

	profile, err := s.profiles.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		span.RecordError(err)
		return "", domain.Profile{}, fmt.Errorf("invalid credentials")
	}

	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
		return "", domain.Profile{}, fmt.Errorf("invalid credentials")
	}

	token, err := s.IssueToken(profile.ID)
	if err != nil {
		span.RecordError(errors.Wrap(err, "AuthService.Signin: token issue failed"))
		return "", domain.Profile{}, err
	}

	return token, profile, nil
}

// IssueToken signs an HS256 session token for a profile id.
func (s *AuthService) IssueToken(profileID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    s.config.FQDN,
		Subject:   profileID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenDuration)),
	})
	return token.SignedString([]byte(s.config.JWTSecret))
}

// AuthJwt validates a session token and resolves the requester's profile.
// Profiles are cached briefly; a role change takes effect when the cache
// entry expires.
func (s *AuthService) AuthJwt(ctx context.Context, tokenString string) (*AuthResult, error) {
	ctx, span := tracer.Start(ctx, "Auth.Service.AuthJwt")
	defer span.End()

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		span.RecordError(errors.Wrap(err, "jwt validation failed"))
		return nil, fmt.Errorf("invalid token")
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return nil, fmt.Errorf("invalid subject")
	}

	if cached, found := s.cache.Get(subject); found {
		profile := cached.(domain.Profile)
		return &AuthResult{Profile: profile}, nil
	}

	profile, err := s.profiles.Get(ctx, subject)
	if err != nil {
		span.RecordError(errors.Wrap(err, "AuthService.AuthJwt: profile lookup failed"))
		return nil, err
	}
	s.cache.Set(subject, profile, gocache.DefaultExpiration)

	return &AuthResult{Profile: profile}, nil
}
