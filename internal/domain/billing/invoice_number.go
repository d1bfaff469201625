package billing

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"time"

	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared"
)

const (
	invoiceNumberPrefix   = "INV"
	invoiceSuffixAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	invoiceSuffixLength   = 6
	invoiceNumberAttempts = 5
)

// InvoiceNumberExists reports whether an invoice number is already in
// use. Implemented by the payment repository.
type InvoiceNumberExists func(ctx context.Context, number string) (bool, error)

// InvoiceNumberGenerator produces unique invoice numbers of the form
// INV-YYYYMMDD-XXXXXX. Candidates are checked against existing
// payments; after a bounded number of collisions generation fails
// rather than looping forever.
type InvoiceNumberGenerator struct {
	now    func() time.Time
	random io.Reader
}

// NewInvoiceNumberGenerator creates a generator backed by crypto/rand
func NewInvoiceNumberGenerator() *InvoiceNumberGenerator {
	return &InvoiceNumberGenerator{
		now:    time.Now,
		random: rand.Reader,
	}
}

// NewInvoiceNumberGeneratorWith creates a generator with injected time
// and randomness sources, for tests.
func NewInvoiceNumberGeneratorWith(now func() time.Time, random io.Reader) *InvoiceNumberGenerator {
	return &InvoiceNumberGenerator{now: now, random: random}
}

// Generate returns a fresh unused invoice number. Returns a
// INVOICE_NUMBER_CONFLICT domain error when all attempts collide.
func (g *InvoiceNumberGenerator) Generate(ctx context.Context, exists InvoiceNumberExists) (string, error) {
	date := g.now().Format("20060102")

	for attempt := 0; attempt < invoiceNumberAttempts; attempt++ {
		suffix, err := g.randomSuffix()
		if err != nil {
			return "", fmt.Errorf("generate invoice number: %w", err)
		}

		candidate := fmt.Sprintf("%s-%s-%s", invoiceNumberPrefix, date, suffix)

		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check invoice number %s: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", shared.NewDomainError("INVOICE_NUMBER_CONFLICT",
		fmt.Sprintf("Could not generate a unique invoice number after %d attempts", invoiceNumberAttempts))
}

func (g *InvoiceNumberGenerator) randomSuffix() (string, error) {
	buf := make([]byte, invoiceSuffixLength)
	if _, err := io.ReadFull(g.random, buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = invoiceSuffixAlphabet[int(b)%len(invoiceSuffixAlphabet)]
	}
	return string(buf), nil
}
