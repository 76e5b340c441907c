// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

type demoText struct {
	en, fr, ar [3]string
}

func (d demoText) byLocale() map[string][3]string {
	return map[string][3]string{"en": d.en, "fr": d.fr, "ar": d.ar}
}

var demoCycles = []struct {
	duration, ageRange string
	text               demoText
}{
	{"3 ans", "3-5", demoText{
		en: [3]string{"Kindergarten", "Learning through play.", "Early reading, music and motor skills."},
		fr: [3]string{"Maternelle", "Apprendre en jouant.", "Éveil à la lecture, musique et motricité."},
		ar: [3]string{"الروض", "التعلم من خلال اللعب.", "التهيئة للقراءة والموسيقى والمهارات الحركية."},
	}},
	{"6 ans", "6-11", demoText{
		en: [3]string{"Primary", "Foundations in languages and mathematics.", "Trilingual programme with daily reading."},
		fr: [3]string{"Primaire", "Les fondamentaux en langues et mathématiques.", "Programme trilingue avec lecture quotidienne."},
		ar: [3]string{"الابتدائي", "أسس اللغات والرياضيات.", "برنامج بثلاث لغات مع قراءة يومية."},
	}},
	{"3 ans", "12-14", demoText{
		en: [3]string{"Middle school", "Preparing for the national exams.", "Sciences, languages and project work."},
		fr: [3]string{"Collège", "Préparation aux examens nationaux.", "Sciences, langues et travaux de projet."},
		ar: [3]string{"الإعدادي", "التحضير للامتحانات الوطنية.", "العلوم واللغات والعمل بالمشاريع."},
	}},
}

var demoProfessors = []demoText{
	{
		en: [3]string{"Samira Benali", "Mathematics", "Twelve years teaching primary mathematics."},
		fr: [3]string{"Samira Benali", "Mathématiques", "Douze ans d'enseignement des mathématiques au primaire."},
		ar: [3]string{"سميرة بنعلي", "الرياضيات", "اثنتا عشرة سنة في تدريس الرياضيات بالابتدائي."},
	},
	{
		en: [3]string{"Karim Alaoui", "French", "Literature lover and theatre club lead."},
		fr: [3]string{"Karim Alaoui", "Français", "Passionné de littérature, anime le club de théâtre."},
		ar: [3]string{"كريم العلوي", "الفرنسية", "محب للأدب ومنشط نادي المسرح."},
	},
}

var demoTestimonials = []struct {
	emoticon  string
	isStudent bool
	text      demoText
}{
	{"😊", false, demoText{
		en: [3]string{"Nadia, parent", "A caring team and real progress for our son."},
		fr: [3]string{"Nadia, parent", "Une équipe bienveillante et de vrais progrès pour notre fils."},
		ar: [3]string{"نادية، ولية أمر", "فريق متفان وتقدم حقيقي لابننا."},
	}},
	{"🎓", true, demoText{
		en: [3]string{"Youssef, student", "I love the science projects."},
		fr: [3]string{"Youssef, élève", "J'adore les projets de sciences."},
		ar: [3]string{"يوسف، تلميذ", "أحب مشاريع العلوم."},
	}},
}

func seedDemo(ctx context.Context, q *Queries) error {
	now := Now()

	for i, c := range demoCycles {
		row, err := q.CreateCycle(ctx, CreateCycleParams{
			Duration: c.duration, AgeRange: c.ageRange, Position: int64(i),
			CreatedAt: now, UpdatedAt: now,
		})
		if err != nil {
			return err
		}
		for locale, t := range c.text.byLocale() {
			if err := q.UpsertCycleTranslation(ctx, UpsertCycleTranslationParams{
				CycleID: row.ID, Locale: locale, Name: t[0], Description: t[1], MoreDetails: t[2],
			}); err != nil {
				return err
			}
		}
	}

	for i, p := range demoProfessors {
		row, err := q.CreateProfessor(ctx, CreateProfessorParams{Position: int64(i), CreatedAt: now, UpdatedAt: now})
		if err != nil {
			return err
		}
		for locale, t := range p.byLocale() {
			if err := q.UpsertProfessorTranslation(ctx, UpsertProfessorTranslationParams{
				ProfessorID: row.ID, Locale: locale, Name: t[0], StudyMaterial: t[1], Description: t[2],
			}); err != nil {
				return err
			}
		}
	}

	for _, tm := range demoTestimonials {
		row, err := q.CreateTestimonial(ctx, CreateTestimonialParams{
			Emoticon: tm.emoticon, IsStudent: tm.isStudent, CreatedAt: now, UpdatedAt: now,
		})
		if err != nil {
			return err
		}
		for locale, t := range tm.text.byLocale() {
			if err := q.UpsertTestimonialTranslation(ctx, UpsertTestimonialTranslationParams{
				TestimonialID: row.ID, Locale: locale, Name: t[0], Description: t[1],
			}); err != nil {
				return err
			}
		}
	}

	category, err := q.CreateCategory(ctx, CreateCategoryParams{Slug: "vie-scolaire", CreatedAt: now, UpdatedAt: now})
	if err != nil {
		return err
	}
	for locale, name := range map[string]string{"en": "School life", "fr": "Vie scolaire", "ar": "الحياة المدرسية"} {
		if err := q.UpsertCategoryTranslation(ctx, UpsertCategoryTranslationParams{
			CategoryID: category.ID, Locale: locale, Name: name,
		}); err != nil {
			return err
		}
	}

	blog, err := q.CreateBlog(ctx, CreateBlogParams{
		Slug:       "rentree-scolaire",
		CategoryID: sql.NullInt64{Int64: category.ID, Valid: true},
		CreatedAt:  now.Add(-24 * time.Hour),
		UpdatedAt:  now,
	})
	if err != nil {
		return err
	}
	posts := map[string][2]string{
		"en": {"Back to school", "Classes start on **September 8th**. Welcome to all our students!"},
		"fr": {"Rentrée scolaire", "Les cours reprennent le **8 septembre**. Bienvenue à tous nos élèves !"},
		"ar": {"الدخول المدرسي", "تنطلق الدراسة يوم **8 شتنبر**. مرحبا بجميع تلاميذنا!"},
	}
	for locale, p := range posts {
		if err := q.UpsertBlogTranslation(ctx, UpsertBlogTranslationParams{
			BlogID: blog.ID, Locale: locale, Title: p[0], Content: p[1],
		}); err != nil {
			return err
		}
	}
	return nil
}
