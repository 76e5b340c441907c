// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mileusna/useragent"

	"github.com/lagrandiose/grandiose/internal/i18n"
	"github.com/lagrandiose/grandiose/internal/mailer"
	"github.com/lagrandiose/grandiose/internal/model"
	"github.com/lagrandiose/grandiose/internal/store"
	"github.com/lagrandiose/grandiose/internal/util"
)

// MaxStudentAge bounds birth dates accepted on the inscription form.
const MaxStudentAge = 25

const notifyTimeout = 30 * time.Second

// CaptchaVerifier checks a captcha token. Disabled verifiers return nil.
type CaptchaVerifier interface {
	Verify(ctx context.Context, response, remoteIP string) error
}

// CountryLookup resolves an IP address to a country code.
type CountryLookup interface {
	LookupCountry(ip string) string
}

// InscriptionObserver is told about every stored submission.
type InscriptionObserver interface {
	InscriptionSubmitted(locale string)
}

// InscriptionRequest is the public enrollment form.
type InscriptionRequest struct {
	StudentName     string `json:"student_name" validate:"required,max=120"`
	BirthDate       string `json:"birth_date" validate:"required,birthdate"`
	CycleID         *int64 `json:"cycle_id"`
	ParentName      string `json:"parent_name" validate:"required,max=120"`
	Email           string `json:"email" validate:"required,email,max=254"`
	Phone           string `json:"phone" validate:"required,phone"`
	Message         string `json:"message" validate:"max=2000"`
	Locale          string `json:"locale" validate:"omitempty,oneof=en fr ar"`
	CaptchaResponse string `json:"captcha_response" validate:"-"`
}

func (r *InscriptionRequest) normalize() {
	r.StudentName = strings.TrimSpace(r.StudentName)
	r.BirthDate = strings.TrimSpace(r.BirthDate)
	r.ParentName = strings.TrimSpace(r.ParentName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Message = strings.TrimSpace(r.Message)
	r.Locale = strings.ToLower(strings.TrimSpace(r.Locale))
	if r.CycleID != nil && *r.CycleID <= 0 {
		r.CycleID = nil
	}
}

// SubmitMeta is the request context recorded with a submission.
type SubmitMeta struct {
	IP        string
	UserAgent string
}

// InscriptionDeps are the optional collaborators of InscriptionService.
type InscriptionDeps struct {
	Content  *ContentService
	Events   *EventService
	Captcha  CaptchaVerifier
	GeoIP    CountryLookup
	Mailer   mailer.Mailer
	Observer InscriptionObserver
	NotifyTo string
	SiteName string
}

// InscriptionService stores enrollment requests and notifies the school.
type InscriptionService struct {
	queries  *store.Queries
	validate *validator.Validate
	deps     InscriptionDeps
	now      func() time.Time
	wg       sync.WaitGroup
}

// NewInscriptionService creates an InscriptionService.
func NewInscriptionService(db *sql.DB, deps InscriptionDeps) *InscriptionService {
	s := &InscriptionService{
		queries: store.New(db),
		deps:    deps,
		now:     time.Now,
	}
	s.validate = newValidator()
	mustRegister(s.validate, "birthdate", s.validBirthDate)
	return s
}

// validBirthDate accepts YYYY-MM-DD dates in the past and at most
// MaxStudentAge years ago.
func (s *InscriptionService) validBirthDate(fl validator.FieldLevel) bool {
	d, err := time.Parse(dateLayout, fl.Field().String())
	if err != nil {
		return false
	}
	today := s.now().UTC().Truncate(24 * time.Hour)
	return d.Before(today) && !d.Before(today.AddDate(-MaxStudentAge, 0, 0))
}

// Submit validates and stores an inscription, then sends the notification
// email in the background.
func (s *InscriptionService) Submit(ctx context.Context, req InscriptionRequest, meta SubmitMeta) (model.Inscription, error) {
	req.normalize()
	if err := toValidationError(s.validate.Struct(req)); err != nil {
		return model.Inscription{}, err
	}
	if req.Locale == "" {
		req.Locale = i18n.DefaultLanguage()
	}

	if s.deps.Captcha != nil {
		if err := s.deps.Captcha.Verify(ctx, req.CaptchaResponse, meta.IP); err != nil {
			slog.Warn("inscription captcha failed", "category", model.EventCategorySecurity, "error", err, "ip", meta.IP)
			return model.Inscription{}, fieldError("captcha", "validation.captcha")
		}
	}

	if req.CycleID != nil {
		if _, err := s.queries.GetCycle(ctx, *req.CycleID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return model.Inscription{}, fieldError("cycle_id", "validation.cycle")
			}
			return model.Inscription{}, err
		}
	}

	var schoolYearID sql.NullInt64
	if y, err := s.queries.GetCurrentSchoolYear(ctx); err == nil {
		schoolYearID = sql.NullInt64{Int64: y.ID, Valid: true}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return model.Inscription{}, err
	}

	country := ""
	if s.deps.GeoIP != nil {
		country = s.deps.GeoIP.LookupCountry(meta.IP)
	}

	now := store.Now()
	row, err := s.queries.CreateInscription(ctx, store.CreateInscriptionParams{
		StudentName:  req.StudentName,
		BirthDate:    req.BirthDate,
		CycleID:      util.NullInt64FromPtr(req.CycleID),
		SchoolYearID: schoolYearID,
		ParentName:   req.ParentName,
		Email:        req.Email,
		Phone:        req.Phone,
		Message:      req.Message,
		Locale:       req.Locale,
		Status:       model.InscriptionNew,
		IpAddress:    meta.IP,
		Country:      country,
		UserAgent:    SummarizeUserAgent(meta.UserAgent),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return model.Inscription{}, fmt.Errorf("storing inscription: %w", err)
	}

	if s.deps.Events != nil {
		_ = s.deps.Events.LogInfo(ctx, model.EventCategoryInscription, "Inscription submitted", nil, meta.IP,
			map[string]any{"inscription_id": row.ID, "locale": row.Locale})
	}
	if s.deps.Observer != nil {
		s.deps.Observer.InscriptionSubmitted(row.Locale)
	}

	ins, err := s.toModel(ctx, row, row.Locale)
	if err != nil {
		return model.Inscription{}, err
	}
	s.notify(ins)
	return ins, nil
}

// notify mails the school in the background; failures are only logged.
func (s *InscriptionService) notify(ins model.Inscription) {
	if s.deps.Mailer == nil || s.deps.NotifyTo == "" {
		return
	}
	msg := mailer.Message{
		To:      strings.Split(s.deps.NotifyTo, ","),
		ReplyTo: ins.Email,
		Subject: fmt.Sprintf("[%s] Nouvelle inscription: %s", s.deps.SiteName, ins.StudentName),
		Text:    notificationText(ins),
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.deps.Mailer.Send(ctx, msg); err != nil {
			slog.Error("inscription notification failed", "error", err, "inscription_id", ins.ID)
		}
	}()
}

func notificationText(ins model.Inscription) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Élève: %s\n", ins.StudentName)
	fmt.Fprintf(&b, "Date de naissance: %s\n", ins.BirthDate)
	if ins.CycleName != "" {
		fmt.Fprintf(&b, "Cycle: %s\n", ins.CycleName)
	}
	if ins.SchoolYear != "" {
		fmt.Fprintf(&b, "Année scolaire: %s\n", ins.SchoolYear)
	}
	fmt.Fprintf(&b, "Parent: %s\n", ins.ParentName)
	fmt.Fprintf(&b, "Email: %s\n", ins.Email)
	fmt.Fprintf(&b, "Téléphone: %s\n", ins.Phone)
	if ins.Message != "" {
		fmt.Fprintf(&b, "\n%s\n", ins.Message)
	}
	return b.String()
}

// Wait blocks until pending notifications finish.
func (s *InscriptionService) Wait() {
	s.wg.Wait()
}

// SummarizeUserAgent reduces a User-Agent header to "Chrome 120 / Windows".
func SummarizeUserAgent(header string) string {
	if strings.TrimSpace(header) == "" {
		return ""
	}
	ua := useragent.Parse(header)
	if ua.Bot {
		return "Bot: " + ua.Name
	}
	name := ua.Name
	if major, _, _ := strings.Cut(ua.Version, "."); major != "" {
		name += " " + major
	}
	if ua.OS == "" {
		return strings.TrimSpace(name)
	}
	return strings.TrimSpace(name) + " / " + ua.OS
}

// InscriptionPage is one page of the admin inscription list.
type InscriptionPage struct {
	Items []model.Inscription
	Pagination
}

// List returns inscriptions newest first, optionally filtered by status.
func (s *InscriptionService) List(ctx context.Context, status, locale string, page, perPage int) (InscriptionPage, error) {
	if status != "" && !model.IsValidInscriptionStatus(status) {
		return InscriptionPage{}, fieldError("status", "validation.status")
	}
	total, err := s.queries.CountInscriptions(ctx, status)
	if err != nil {
		return InscriptionPage{}, err
	}
	p := NewPagination(page, perPage, 20, 100, total)
	rows, err := s.queries.ListInscriptions(ctx, store.ListInscriptionsParams{
		Status: status,
		Limit:  int64(p.PerPage),
		Offset: p.Offset(),
	})
	if err != nil {
		return InscriptionPage{}, err
	}

	names, years, err := s.lookups(ctx, locale)
	if err != nil {
		return InscriptionPage{}, err
	}
	items := make([]model.Inscription, 0, len(rows))
	for _, r := range rows {
		items = append(items, inscriptionFromStore(r, names, years))
	}
	return InscriptionPage{Items: items, Pagination: p}, nil
}

// Get returns one inscription with its cycle name resolved for locale.
func (s *InscriptionService) Get(ctx context.Context, id int64, locale string) (model.Inscription, error) {
	row, err := s.queries.GetInscription(ctx, id)
	if err != nil {
		return model.Inscription{}, notFound(err)
	}
	return s.toModel(ctx, row, locale)
}

// UpdateStatus moves an inscription through the workflow.
func (s *InscriptionService) UpdateStatus(ctx context.Context, id int64, status string) error {
	if !model.IsValidInscriptionStatus(status) {
		return fieldError("status", "validation.status")
	}
	return rowsOrNotFound(s.queries.UpdateInscriptionStatus(ctx, store.UpdateInscriptionStatusParams{
		Status:    status,
		UpdatedAt: store.Now(),
		ID:        id,
	}))
}

// Delete removes an inscription.
func (s *InscriptionService) Delete(ctx context.Context, id int64) error {
	return rowsOrNotFound(s.queries.DeleteInscription(ctx, id))
}

// CountNew returns the number of unprocessed inscriptions.
func (s *InscriptionService) CountNew(ctx context.Context) (int64, error) {
	return s.queries.CountInscriptions(ctx, model.InscriptionNew)
}

func (s *InscriptionService) toModel(ctx context.Context, row store.Inscription, locale string) (model.Inscription, error) {
	names, years, err := s.lookups(ctx, locale)
	if err != nil {
		return model.Inscription{}, err
	}
	return inscriptionFromStore(row, names, years), nil
}

// lookups returns cycle names in locale and school year labels by id.
func (s *InscriptionService) lookups(ctx context.Context, locale string) (map[int64]string, map[int64]string, error) {
	names := make(map[int64]string)
	years := make(map[int64]string)
	locale = resolveLocale(locale)

	var cycles []model.Cycle
	var err error
	if s.deps.Content != nil {
		cycles, err = s.deps.Content.ListCycles(ctx)
		if err != nil {
			return nil, nil, err
		}
	}
	placeholder := i18n.Placeholder(locale)
	for _, c := range cycles {
		names[c.ID] = c.In(locale, placeholder).Name
	}

	rows, err := s.queries.ListSchoolYears(ctx)
	if err != nil {
		return nil, nil, err
	}
	for _, y := range rows {
		years[y.ID] = schoolYearFromStore(y).Label()
	}
	return names, years, nil
}

func inscriptionFromStore(r store.Inscription, cycleNames, years map[int64]string) model.Inscription {
	ins := model.Inscription{
		ID:          r.ID,
		StudentName: r.StudentName,
		BirthDate:   r.BirthDate,
		CycleID:     util.PtrFromNullInt64(r.CycleID),
		ParentName:  r.ParentName,
		Email:       r.Email,
		Phone:       r.Phone,
		Message:     r.Message,
		Locale:      r.Locale,
		Status:      r.Status,
		IPAddress:   r.IpAddress,
		Country:     r.Country,
		UserAgent:   r.UserAgent,
		CreatedAt:   r.CreatedAt,
	}
	if r.CycleID.Valid {
		ins.CycleName = cycleNames[r.CycleID.Int64]
	}
	if r.SchoolYearID.Valid {
		ins.SchoolYear = years[r.SchoolYearID.Int64]
	}
	return ins
}
