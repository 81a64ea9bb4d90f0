package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/openinvoice/backend/internal/domain/audit"
	"github.com/openinvoice/backend/internal/domain/settings"
	"github.com/openinvoice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Defaults seed the settings table on first boot
type Defaults struct {
	StoreName      string
	SellerID       string
	CurrencySymbol string
	DefaultVATRate string
}

// UpdateRequest carries new values for the store profile. Empty fields
// are left unchanged.
type UpdateRequest struct {
	StoreName      string `json:"store_name" binding:"omitempty,max=200"`
	SellerID       string `json:"seller_id" binding:"omitempty,max=100"`
	CurrencySymbol string `json:"currency_symbol" binding:"omitempty,max=8"`
	DefaultVATRate string `json:"default_vat_rate" binding:"omitempty"`
}

// ProfileResponse is the store profile in responses
type ProfileResponse struct {
	StoreName      string `json:"store_name"`
	SellerID       string `json:"seller_id"`
	CurrencySymbol string `json:"currency_symbol"`
	DefaultVATRate string `json:"default_vat_rate"`
}

// Service reads and updates store settings. It is the StoreProfileProvider
// the invoice assembler consults on every sale.
type Service struct {
	repo     settings.Repository
	auditLog audit.Repository
	logger   *zap.Logger
}

// NewService creates a settings service
func NewService(repo settings.Repository, auditLog audit.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, auditLog: auditLog, logger: logger}
}

// EnsureDefaults writes the configured defaults for any key not yet
// present, so a fresh database boots with a usable store profile
func (s *Service) EnsureDefaults(ctx context.Context, defaults Defaults) error {
	if _, err := decimal.NewFromString(defaults.DefaultVATRate); err != nil {
		return fmt.Errorf("invalid default VAT rate %q: %w", defaults.DefaultVATRate, err)
	}

	seed := map[string]string{
		settings.KeyStoreName:      defaults.StoreName,
		settings.KeySellerID:       defaults.SellerID,
		settings.KeyCurrencySymbol: defaults.CurrencySymbol,
		settings.KeyDefaultVATRate: defaults.DefaultVATRate,
	}
	for key, value := range seed {
		_, err := s.repo.Get(ctx, key)
		if err == nil {
			continue
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if err := s.repo.Set(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}

// StoreProfile assembles the current profile from stored settings
func (s *Service) StoreProfile(ctx context.Context) (settings.StoreProfile, error) {
	storeName, err := s.repo.Get(ctx, settings.KeyStoreName)
	if err != nil {
		return settings.StoreProfile{}, err
	}
	sellerID, err := s.repo.Get(ctx, settings.KeySellerID)
	if err != nil {
		return settings.StoreProfile{}, err
	}
	symbol, err := s.repo.Get(ctx, settings.KeyCurrencySymbol)
	if err != nil {
		return settings.StoreProfile{}, err
	}
	rawRate, err := s.repo.Get(ctx, settings.KeyDefaultVATRate)
	if err != nil {
		return settings.StoreProfile{}, err
	}
	rate, err := decimal.NewFromString(rawRate)
	if err != nil {
		return settings.StoreProfile{}, fmt.Errorf("stored VAT rate %q is not a number: %w", rawRate, err)
	}

	return settings.StoreProfile{
		StoreName:      storeName,
		SellerID:       sellerID,
		CurrencySymbol: symbol,
		DefaultVATRate: rate,
	}, nil
}

// Profile returns the store profile in response form
func (s *Service) Profile(ctx context.Context) (*ProfileResponse, error) {
	profile, err := s.StoreProfile(ctx)
	if err != nil {
		return nil, err
	}
	return &ProfileResponse{
		StoreName:      profile.StoreName,
		SellerID:       profile.SellerID,
		CurrencySymbol: profile.CurrencySymbol,
		DefaultVATRate: profile.DefaultVATRate.String(),
	}, nil
}

// Update changes the provided profile fields. Seller identity changes
// affect future invoices only; issued invoices keep the identity they
// were hashed with.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*ProfileResponse, error) {
	updates := map[string]string{}
	if req.StoreName != "" {
		updates[settings.KeyStoreName] = req.StoreName
	}
	if req.SellerID != "" {
		updates[settings.KeySellerID] = req.SellerID
	}
	if req.CurrencySymbol != "" {
		updates[settings.KeyCurrencySymbol] = req.CurrencySymbol
	}
	if req.DefaultVATRate != "" {
		rate, err := decimal.NewFromString(req.DefaultVATRate)
		if err != nil || rate.IsNegative() {
			return nil, shared.NewDomainError("INVALID_VAT_RATE", "Default VAT rate must be a non-negative number")
		}
		updates[settings.KeyDefaultVATRate] = rate.String()
	}
	if len(updates) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "No settings provided")
	}

	for key, value := range updates {
		if err := s.repo.Set(ctx, key, value); err != nil {
			return nil, err
		}
	}

	s.logger.Info("settings updated", zap.Int("fields", len(updates)))
	s.writeAudit(ctx, updates)

	return s.Profile(ctx)
}

func (s *Service) writeAudit(ctx context.Context, updates map[string]string) {
	if s.auditLog == nil {
		return
	}
	keys := make([]string, 0, len(updates))
	for key := range updates {
		keys = append(keys, key)
	}
	entry := audit.NewEntry(audit.ActionSettingsUpdated, "", fmt.Sprintf("keys=%v", keys))
	if err := s.auditLog.Append(ctx, entry); err != nil {
		s.logger.Warn("Failed to write audit entry", zap.Error(err))
	}
}
