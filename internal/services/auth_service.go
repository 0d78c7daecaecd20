package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"artisanhub/internal/domain"
	"artisanhub/internal/repos"
	"artisanhub/internal/validate"
)

type AuthService struct {
	Artisans repos.Collection[domain.Artisan]
	Users    repos.Collection[domain.User]
	Uploads  *UploadService
	HashCost int // 0 means bcrypt.DefaultCost
	Now      func() time.Time
}

func NewAuthService(st *repos.Stores, up *UploadService) *AuthService {
	return &AuthService{Artisans: st.Artisans, Users: st.Users, Uploads: up, Now: time.Now}
}

type ArtisanSignup struct {
	Name, Phone, Email, Address, Skills, BankInfo string
	Picture                                       *File
}

type UserSignup struct {
	Name, Email, Password string
	Picture               *File
}

func (s *AuthService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// SignupArtisan validates the form, stores the profile picture and creates
// the artisan. Nothing is stored when validation fails.
func (s *AuthService) SignupArtisan(ctx context.Context, in ArtisanSignup) (domain.Artisan, error) {
	var a domain.Artisan
	var ok bool
	if a.Name, ok = validate.Name(in.Name); !ok {
		return a, fieldErr("name", "Name is required")
	}
	if a.Phone, ok = validate.Phone(in.Phone); !ok {
		return a, fieldErr("phone", "Enter a valid phone number")
	}
	if a.Email, ok = validate.Email(in.Email); !ok {
		return a, fieldErr("email", "Enter a valid email address")
	}
	if a.Address, ok = validate.Text(in.Address, 300); !ok {
		return a, fieldErr("address", "Address is required")
	}
	if a.Skills, ok = validate.Text(in.Skills, 500); !ok {
		return a, fieldErr("skills", "Tell buyers about your skills")
	}
	a.BankInfo = validate.Optional(in.BankInfo, 200)
	if err := s.Uploads.Check(in.Picture, validate.ImageExts, "profile_pic", "Profile picture"); err != nil {
		return a, err
	}
	if _, err := s.Artisans.Get(ctx, a.Email); err == nil {
		return a, ErrDuplicateEmail
	} else if !errors.Is(err, repos.ErrNotFound) {
		return a, err
	}

	key, err := s.Uploads.Save(ctx, in.Picture, true)
	if err != nil {
		return a, err
	}
	a.ProfilePic = key
	a.CreatedAt = s.now()
	if err := s.Artisans.Insert(ctx, a); err != nil {
		s.Uploads.Discard(ctx, key)
		if errors.Is(err, repos.ErrDuplicate) {
			return a, ErrDuplicateEmail
		}
		return a, err
	}
	return a, nil
}

func (s *AuthService) SignupUser(ctx context.Context, in UserSignup) (domain.User, error) {
	var u domain.User
	var ok bool
	if u.Name, ok = validate.Name(in.Name); !ok {
		return u, fieldErr("name", "Name is required")
	}
	if u.Email, ok = validate.Email(in.Email); !ok {
		return u, fieldErr("email", "Enter a valid email address")
	}
	if !validate.Password(in.Password) {
		return u, fieldErr("password", "Password needs 8-72 characters with upper, lower, digit and symbol")
	}
	if err := s.Uploads.Check(in.Picture, validate.ImageExts, "profile_pic", "Profile picture"); err != nil {
		return u, err
	}
	if _, err := s.Users.Get(ctx, u.Email); err == nil {
		return u, ErrDuplicateEmail
	} else if !errors.Is(err, repos.ErrNotFound) {
		return u, err
	}

	cost := s.HashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(in.Password), cost)
	if err != nil {
		return u, err
	}
	u.Hash = string(h)

	key, err := s.Uploads.Save(ctx, in.Picture, true)
	if err != nil {
		return u, err
	}
	u.ProfilePic = key
	u.CreatedAt = s.now()
	if err := s.Users.Insert(ctx, u); err != nil {
		s.Uploads.Discard(ctx, key)
		if errors.Is(err, repos.ErrDuplicate) {
			return u, ErrDuplicateEmail
		}
		return u, err
	}
	return u, nil
}

// Login returns the user whose email and password both match.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	email, ok := validate.Email(email)
	if !ok || password == "" {
		return domain.User{}, ErrBadCreds
	}
	u, err := s.Users.Get(ctx, email)
	if errors.Is(err, repos.ErrNotFound) {
		return domain.User{}, ErrBadCreds
	}
	if err != nil {
		return domain.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return domain.User{}, ErrBadCreds
	}
	return u, nil
}
