package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/tnp/internal/portal/domain"
	"github.com/aussiebroadwan/tnp/internal/portal/mail"
	"github.com/aussiebroadwan/tnp/internal/portal/store"
	"github.com/aussiebroadwan/tnp/pkg/cryptox"
	"github.com/aussiebroadwan/tnp/pkg/slogx"
)

// Row failure and skip reasons reported back to the administrator.
const (
	ReasonMissingIdentifier = "missing identifier"
	ReasonMissingEmail      = "missing email"
	ReasonInvalidIdentifier = "invalid identifier"
	ReasonIdentifierExists  = "identifier already exists"
	ReasonPasswordFailed    = "failed to generate password"
	ReasonStoreFailed       = "failed to store credential"
	ReasonSendFailed        = "failed to send credentials email"
	ReasonCancelled         = "request cancelled"
)

var ErrInvalidCSV = errors.New("invalid_csv")

// ProvisioningService creates accounts in bulk with generated passwords and
// mails each student their credentials.
type ProvisioningService struct {
	Store  store.Store
	Hasher cryptox.PasswordHasher
	Mailer mail.Sender

	PasswordCharset string
	PasswordLength  int

	Now func() time.Time
}

// Provision handles rows one at a time. A failing row never stops the run
// and every row appears in the report, in input order.
func (s *ProvisioningService) Provision(ctx context.Context, rows []domain.ProvisionRow) domain.Report {
	l := slogx.FromContext(ctx)
	report := domain.Report{Rows: make([]domain.RowOutcome, 0, len(rows))}

	for i, row := range rows {
		row.Identifier = strings.TrimSpace(row.Identifier)
		row.Email = strings.TrimSpace(row.Email)

		outcome := s.provisionRow(ctx, row)
		report.Add(domain.RowOutcome{
			Row:        i + 1,
			Identifier: row.Identifier,
			Email:      row.Email,
			Outcome:    outcome,
		})
	}

	l.Info("provisioning finished",
		slog.Int("total", report.Total),
		slog.Int("succeeded", report.Succeeded),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed),
	)
	return report
}

func (s *ProvisioningService) provisionRow(ctx context.Context, row domain.ProvisionRow) domain.Outcome {
	l := slogx.FromContext(ctx).With(slog.String("identifier", row.Identifier))

	switch {
	case row.Identifier == "":
		return domain.OutcomeSkipped{Reason: ReasonMissingIdentifier}
	case row.Email == "":
		return domain.OutcomeSkipped{Reason: ReasonMissingEmail}
	case !domain.ValidIdentifier(row.Identifier):
		return domain.OutcomeSkipped{Reason: ReasonInvalidIdentifier}
	}

	if ctx.Err() != nil {
		return domain.OutcomeFailed{Reason: ReasonCancelled}
	}

	password, err := cryptox.GeneratePassword(s.charset(), s.length())
	if err != nil {
		l.Error("failed to generate password", "error", err)
		return domain.OutcomeFailed{Reason: ReasonPasswordFailed}
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		l.Error("failed to hash password", "error", err)
		return domain.OutcomeFailed{Reason: ReasonPasswordFailed}
	}

	now := s.now()
	id, err := s.Store.Credentials().CreateCredential(ctx, domain.Credential{
		Identifier:   row.Identifier,
		Email:        row.Email,
		PasswordHash: hash,
		MustRotate:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return domain.OutcomeFailed{Reason: ReasonIdentifierExists}
	}
	if err != nil {
		l.Error("failed to store credential", "error", err)
		return domain.OutcomeFailed{Reason: ReasonStoreFailed}
	}

	// The record stays when delivery fails; the row is still reported failed.
	if err := s.Mailer.SendCredentials(ctx, row.Email, row.Identifier, password); err != nil {
		l.Error("failed to send credentials email", "error", err, slog.Int64("credential_id", id))
		return domain.OutcomeFailed{Reason: ReasonSendFailed}
	}

	l.Info("credential provisioned", slog.Int64("credential_id", id))
	return domain.OutcomeSucceeded{CredentialID: id}
}

func (s *ProvisioningService) charset() string {
	if s.PasswordCharset != "" {
		return s.PasswordCharset
	}
	return cryptox.DefaultPasswordCharset
}

func (s *ProvisioningService) length() int {
	if s.PasswordLength > 0 {
		return s.PasswordLength
	}
	return cryptox.DefaultPasswordLength
}

func (s *ProvisioningService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// ParseProvisionCSV reads rows from CSV with a header line naming an
// identifier column ("identifier" or "gr_number") and an "email" column.
// Other columns are ignored. Short rows yield empty fields so they are
// reported as skipped rather than rejecting the whole upload.
func ParseProvisionCSV(r io.Reader) ([]domain.ProvisionRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidCSV)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCSV, err)
	}

	idCol, emailCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case "identifier", "gr_number", "gr number", "grnumber":
			if idCol < 0 {
				idCol = i
			}
		case "email":
			if emailCol < 0 {
				emailCol = i
			}
		}
	}
	if idCol < 0 || emailCol < 0 {
		return nil, fmt.Errorf("%w: header must name identifier and email columns", ErrInvalidCSV)
	}

	var rows []domain.ProvisionRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCSV, err)
		}
		if blankRecord(rec) {
			continue
		}
		rows = append(rows, domain.ProvisionRow{
			Identifier: column(rec, idCol),
			Email:      column(rec, emailCol),
		})
	}
	return rows, nil
}

func column(rec []string, i int) string {
	if i < len(rec) {
		return strings.TrimSpace(rec[i])
	}
	return ""
}

func blankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
