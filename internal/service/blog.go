// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/lagrandiose/grandiose/internal/cache"
	"github.com/lagrandiose/grandiose/internal/i18n"
	"github.com/lagrandiose/grandiose/internal/model"
	"github.com/lagrandiose/grandiose/internal/store"
	"github.com/lagrandiose/grandiose/internal/util"
)

// Blog listing limits.
const (
	DefaultBlogsPerPage = 6
	MaxBlogsPerPage     = 50
	dateLayout          = "2006-01-02"
)

// BlogService handles posts and their categories.
type BlogService struct {
	db       *sql.DB
	queries  *store.Queries
	validate *validator.Validate

	categories *cache.TypedCache[[]model.Category]
	latest     *cache.TypedCache[[]BlogSummary]
}

// NewBlogService creates a BlogService. A nil backend disables caching.
func NewBlogService(db *sql.DB, backend cache.Cache, ttl time.Duration, observer cache.Observer) *BlogService {
	s := &BlogService{
		db:       db,
		queries:  store.New(db),
		validate: newValidator(),
	}
	if backend != nil {
		s.categories = cache.NewTypedCache[[]model.Category](backend, "categories", ttl, observer)
		s.latest = cache.NewTypedCache[[]BlogSummary](backend, "blogs", ttl, observer)
	}
	return s
}

// BlogFilter selects posts for the public listing.
type BlogFilter struct {
	Locale       string
	CategorySlug string
	From         string // YYYY-MM-DD, inclusive
	To           string // YYYY-MM-DD, inclusive
	Query        string
	Page         int
	PerPage      int
}

// BlogSummary is a post resolved for one locale, without its body.
type BlogSummary struct {
	ID           int64     `json:"id"`
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Excerpt      string    `json:"excerpt"`
	Image        string    `json:"image"`
	CategorySlug string    `json:"category_slug,omitempty"`
	CategoryName string    `json:"category_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// BlogPost is a post resolved for one locale with its rendered body.
type BlogPost struct {
	BlogSummary
	Content string        `json:"content"`
	HTML    template.HTML `json:"html"`
}

// BlogPage is one page of search results.
type BlogPage struct {
	Items []BlogSummary `json:"items"`
	Pagination
}

// resolveLocale returns code when supported, otherwise the default locale.
func resolveLocale(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if model.IsSupportedLocale(code) {
		return code
	}
	return i18n.DefaultLanguage()
}

type dateRange struct {
	from, to sql.NullTime
}

// parseRange validates the filter dates. To covers its whole day.
func parseRange(from, to string) (dateRange, error) {
	var r dateRange
	ve := &ValidationError{}
	if from = strings.TrimSpace(from); from != "" {
		t, err := time.ParseInLocation(dateLayout, from, time.UTC)
		if err != nil {
			ve.Add("from", "validation.date")
		} else {
			r.from = sql.NullTime{Time: t, Valid: true}
		}
	}
	if to = strings.TrimSpace(to); to != "" {
		t, err := time.ParseInLocation(dateLayout, to, time.UTC)
		if err != nil {
			ve.Add("to", "validation.date")
		} else {
			r.to = sql.NullTime{Time: t.Add(24*time.Hour - time.Second), Valid: true}
		}
	}
	if r.from.Valid && r.to.Valid && r.from.Time.After(r.to.Time) {
		ve.Add("to", "validation.date_range")
	}
	return r, ve.OrNil()
}

// Search returns posts matching f, newest first.
func (s *BlogService) Search(ctx context.Context, f BlogFilter) (BlogPage, error) {
	r, err := parseRange(f.From, f.To)
	if err != nil {
		return BlogPage{}, err
	}
	locale := resolveLocale(f.Locale)
	category := strings.TrimSpace(f.CategorySlug)
	pattern := store.LikePattern(f.Query)

	total, err := s.queries.CountSearchBlogs(ctx, store.CountSearchBlogsParams{
		CategorySlug: category,
		From:         r.from,
		To:           r.to,
		Query:        pattern,
		Locale:       locale,
	})
	if err != nil {
		return BlogPage{}, err
	}
	p := NewPagination(f.Page, f.PerPage, DefaultBlogsPerPage, MaxBlogsPerPage, total)

	rows, err := s.queries.SearchBlogs(ctx, store.SearchBlogsParams{
		CategorySlug: category,
		From:         r.from,
		To:           r.to,
		Query:        pattern,
		Locale:       locale,
		Limit:        int64(p.PerPage),
		Offset:       p.Offset(),
	})
	if err != nil {
		return BlogPage{}, err
	}
	blogs, err := s.withTranslations(ctx, rows)
	if err != nil {
		return BlogPage{}, err
	}
	items, err := s.summaries(ctx, blogs, locale)
	if err != nil {
		return BlogPage{}, err
	}
	return BlogPage{Items: items, Pagination: p}, nil
}

// Latest returns the n newest posts for locale.
func (s *BlogService) Latest(ctx context.Context, locale string, n int) ([]BlogSummary, error) {
	locale = resolveLocale(locale)
	return cachedLoad(ctx, s.latest, "latest:"+locale+":"+strconv.Itoa(n), func(ctx context.Context) ([]BlogSummary, error) {
		page, err := s.Search(ctx, BlogFilter{Locale: locale, Page: 1, PerPage: n})
		if err != nil {
			return nil, err
		}
		return page.Items, nil
	})
}

// GetBySlug returns a post resolved for locale.
func (s *BlogService) GetBySlug(ctx context.Context, slug, locale string) (BlogPost, error) {
	row, err := s.queries.GetBlogBySlug(ctx, slug)
	if err != nil {
		return BlogPost{}, notFound(err)
	}
	blogs, err := s.withTranslations(ctx, []store.Blog{row})
	if err != nil {
		return BlogPost{}, err
	}
	locale = resolveLocale(locale)
	summaries, err := s.summaries(ctx, blogs, locale)
	if err != nil {
		return BlogPost{}, err
	}
	tr := blogs[0].In(locale, i18n.Placeholder(locale))
	return BlogPost{
		BlogSummary: summaries[0],
		Content:     tr.Content,
		HTML:        RenderMarkdown(tr.Content),
	}, nil
}

// GetBlog returns a post with all its translations.
func (s *BlogService) GetBlog(ctx context.Context, id int64) (model.Blog, error) {
	row, err := s.queries.GetBlog(ctx, id)
	if err != nil {
		return model.Blog{}, notFound(err)
	}
	blogs, err := s.withTranslations(ctx, []store.Blog{row})
	if err != nil {
		return model.Blog{}, err
	}
	return blogs[0], nil
}

func (s *BlogService) withTranslations(ctx context.Context, rows []store.Blog) ([]model.Blog, error) {
	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	trs, err := s.queries.ListBlogTranslations(ctx, ids...)
	if err != nil {
		return nil, err
	}
	out := make([]model.Blog, 0, len(rows))
	for _, r := range rows {
		b := model.Blog{
			ID:         r.ID,
			Slug:       r.Slug,
			Image:      r.Image,
			CategoryID: util.PtrFromNullInt64(r.CategoryID),
			CreatedAt:  r.CreatedAt,
			UpdatedAt:  r.UpdatedAt,
		}
		for _, t := range trs {
			if t.BlogID == r.ID {
				b.Translations = append(b.Translations, model.BlogTranslation{Locale: t.Locale, Title: t.Title, Content: t.Content})
			}
		}
		out = append(out, b)
	}
	return out, nil
}

func (s *BlogService) summaries(ctx context.Context, blogs []model.Blog, locale string) ([]BlogSummary, error) {
	cats, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]model.Category, len(cats))
	for _, c := range cats {
		byID[c.ID] = c
	}

	placeholder := i18n.Placeholder(locale)
	out := make([]BlogSummary, 0, len(blogs))
	for _, b := range blogs {
		tr := b.In(locale, placeholder)
		sum := BlogSummary{
			ID:        b.ID,
			Slug:      b.Slug,
			Title:     tr.Title,
			Excerpt:   Excerpt(tr.Content, ExcerptLength),
			Image:     b.Image,
			CreatedAt: b.CreatedAt,
		}
		if b.CategoryID != nil {
			if c, ok := byID[*b.CategoryID]; ok {
				sum.CategorySlug = c.Slug
				sum.CategoryName = c.Name(locale, placeholder)
			}
		}
		out = append(out, sum)
	}
	return out, nil
}

// BlogInput is the editable part of a post. A blank slug is derived from
// the first non-empty title.
type BlogInput struct {
	Slug         string                  `json:"slug" validate:"max=80"`
	Image        string                  `json:"image" validate:"max=500"`
	CategoryID   *int64                  `json:"category_id"`
	Translations []model.BlogTranslation `json:"translations"`
}

func (s *BlogService) validateBlog(ctx context.Context, in BlogInput) error {
	if err := toValidationError(s.validate.Struct(in)); err != nil {
		return err
	}
	ve := &ValidationError{}
	checkLocales(ve, in.Translations)
	if model.FirstNonEmpty(in.Translations, func(t model.BlogTranslation) string { return t.Title }) == "" {
		ve.Add("title", "validation.translation_required")
	}
	if in.CategoryID != nil {
		if _, err := s.queries.GetCategory(ctx, *in.CategoryID); err != nil {
			if !errors.Is(notFound(err), ErrNotFound) {
				return err
			}
			ve.Add("category_id", "validation.category")
		}
	}
	return ve.OrNil()
}

// resolveSlug validates an explicit slug or derives a free one from fallback.
func resolveSlug(ctx context.Context, slug, fallback string, excludeID int64,
	exists func(context.Context, string, int64) (bool, error)) (string, error) {
	check := func(ctx context.Context, s string) (bool, error) { return exists(ctx, s, excludeID) }

	slug = strings.TrimSpace(slug)
	if slug != "" {
		if !util.IsValidSlug(slug) {
			return "", fieldError("slug", "validation.slug")
		}
		taken, err := check(ctx, slug)
		if err != nil {
			return "", err
		}
		if taken {
			return "", fieldError("slug", "validation.slug_taken")
		}
		return slug, nil
	}

	base := util.Slugify(fallback)
	if base == "" {
		return "", fieldError("slug", "validation.slug")
	}
	return util.UniqueSlug(ctx, base, check)
}

// SaveBlog creates the post when id is 0 and updates it otherwise.
func (s *BlogService) SaveBlog(ctx context.Context, id int64, in BlogInput) (model.Blog, error) {
	if err := s.validateBlog(ctx, in); err != nil {
		return model.Blog{}, err
	}
	title := model.FirstNonEmpty(in.Translations, func(t model.BlogTranslation) string { return t.Title })
	slug, err := resolveSlug(ctx, in.Slug, title, id, s.queries.BlogSlugExists)
	if err != nil {
		return model.Blog{}, err
	}

	var savedID int64
	err = store.InTx(ctx, s.db, func(q *store.Queries) error {
		now := store.Now()
		var row store.Blog
		var err error
		if id == 0 {
			row, err = q.CreateBlog(ctx, store.CreateBlogParams{
				Slug:       slug,
				Image:      in.Image,
				CategoryID: util.NullInt64FromPtr(in.CategoryID),
				CreatedAt:  now,
				UpdatedAt:  now,
			})
		} else {
			row, err = q.UpdateBlog(ctx, store.UpdateBlogParams{
				Slug:       slug,
				Image:      in.Image,
				CategoryID: util.NullInt64FromPtr(in.CategoryID),
				UpdatedAt:  now,
				ID:         id,
			})
		}
		if err != nil {
			return notFound(err)
		}
		savedID = row.ID
		for _, t := range in.Translations {
			if err := q.UpsertBlogTranslation(ctx, store.UpsertBlogTranslationParams{
				BlogID:  row.ID,
				Locale:  t.Locale,
				Title:   strings.TrimSpace(t.Title),
				Content: strings.TrimSpace(t.Content),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return model.Blog{}, err
	}
	invalidate(ctx, s.latest)
	return s.GetBlog(ctx, savedID)
}

// DeleteBlog removes a post and its translations.
func (s *BlogService) DeleteBlog(ctx context.Context, id int64) error {
	if err := rowsOrNotFound(s.queries.DeleteBlog(ctx, id)); err != nil {
		return err
	}
	invalidate(ctx, s.latest)
	return nil
}

// --- Categories ---

func categoryFromStore(c store.Category, trs []store.CategoryTranslation) model.Category {
	out := model.Category{ID: c.ID, Slug: c.Slug, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
	for _, t := range trs {
		if t.CategoryID == c.ID {
			out.Translations = append(out.Translations, model.CategoryTranslation{Locale: t.Locale, Name: t.Name})
		}
	}
	return out
}

// ListCategories returns every category ordered by slug.
func (s *BlogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return cachedLoad(ctx, s.categories, allKey, func(ctx context.Context) ([]model.Category, error) {
		rows, err := s.queries.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		trs, err := s.queries.ListCategoryTranslations(ctx, 0)
		if err != nil {
			return nil, err
		}
		out := make([]model.Category, 0, len(rows))
		for _, c := range rows {
			out = append(out, categoryFromStore(c, trs))
		}
		return out, nil
	})
}

// GetCategory returns one category with its translations.
func (s *BlogService) GetCategory(ctx context.Context, id int64) (model.Category, error) {
	c, err := s.queries.GetCategory(ctx, id)
	if err != nil {
		return model.Category{}, notFound(err)
	}
	trs, err := s.queries.ListCategoryTranslations(ctx, id)
	if err != nil {
		return model.Category{}, err
	}
	return categoryFromStore(c, trs), nil
}

// CategoryInput is the editable part of a category.
type CategoryInput struct {
	Slug         string                      `json:"slug" validate:"max=80"`
	Translations []model.CategoryTranslation `json:"translations"`
}

// SaveCategory creates the category when id is 0 and updates it otherwise.
func (s *BlogService) SaveCategory(ctx context.Context, id int64, in CategoryInput) (model.Category, error) {
	if err := toValidationError(s.validate.Struct(in)); err != nil {
		return model.Category{}, err
	}
	ve := &ValidationError{}
	checkLocales(ve, in.Translations)
	name := model.FirstNonEmpty(in.Translations, func(t model.CategoryTranslation) string { return t.Name })
	if name == "" {
		ve.Add("name", "validation.translation_required")
	}
	if err := ve.OrNil(); err != nil {
		return model.Category{}, err
	}
	slug, err := resolveSlug(ctx, in.Slug, name, id, s.queries.CategorySlugExists)
	if err != nil {
		return model.Category{}, err
	}

	var savedID int64
	err = store.InTx(ctx, s.db, func(q *store.Queries) error {
		now := store.Now()
		var row store.Category
		var err error
		if id == 0 {
			row, err = q.CreateCategory(ctx, store.CreateCategoryParams{Slug: slug, CreatedAt: now, UpdatedAt: now})
		} else {
			row, err = q.UpdateCategory(ctx, store.UpdateCategoryParams{Slug: slug, UpdatedAt: now, ID: id})
		}
		if err != nil {
			return notFound(err)
		}
		savedID = row.ID
		for _, t := range in.Translations {
			if err := q.UpsertCategoryTranslation(ctx, store.UpsertCategoryTranslationParams{
				CategoryID: row.ID,
				Locale:     t.Locale,
				Name:       strings.TrimSpace(t.Name),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return model.Category{}, err
	}
	invalidate(ctx, s.categories)
	invalidate(ctx, s.latest)
	return s.GetCategory(ctx, savedID)
}

// DeleteCategory removes a category. Its posts stay, without a category.
func (s *BlogService) DeleteCategory(ctx context.Context, id int64) error {
	if err := rowsOrNotFound(s.queries.DeleteCategory(ctx, id)); err != nil {
		return err
	}
	invalidate(ctx, s.categories)
	invalidate(ctx, s.latest)
	return nil
}

// CountBlogsInCategory returns the number of posts in a category.
func (s *BlogService) CountBlogsInCategory(ctx context.Context, id int64) (int64, error) {
	return s.queries.CountBlogsByCategory(ctx, id)
}
