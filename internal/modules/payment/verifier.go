package payment

import (
	"context"
	"errors"
	"strings"

	"courtbook/internal/domain"
)

var (
	ErrInvalidStatus = errors.New("invalid payment status")
	ErrNotFound      = errors.New("booking not found")
)

// Proof is what the checkout page hands back after the processor redirect.
type Proof struct {
	Reference string
}

// Verification is trusted by the booking engine as-is.
type Verification struct {
	Status    domain.PaymentStatus
	Reference string
}

// Verifier confirms a payment with the processor before a booking runs.
type Verifier interface {
	Verify(ctx context.Context, p Proof) (Verification, error)
}

// ReferenceVerifier treats any non-empty processor reference as paid. It is
// the stand-in used until a processor client is configured.
type ReferenceVerifier struct{}

func (ReferenceVerifier) Verify(_ context.Context, p Proof) (Verification, error) {
	ref := strings.TrimSpace(p.Reference)
	if ref == "" {
		return Verification{Status: domain.PaymentUnpaid}, nil
	}
	return Verification{Status: domain.PaymentPaid, Reference: ref}, nil
}

func ParseStatus(s string) (domain.PaymentStatus, error) {
	switch domain.PaymentStatus(strings.ToLower(strings.TrimSpace(s))) {
	case domain.PaymentUnpaid:
		return domain.PaymentUnpaid, nil
	case domain.PaymentPaid:
		return domain.PaymentPaid, nil
	case domain.PaymentRefunded:
		return domain.PaymentRefunded, nil
	default:
		return "", ErrInvalidStatus
	}
}
