// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteSuffixNew is the suffix for "new" routes.
	RouteSuffixNew = "/new"
	// RouteSuffixDelete is the suffix for delete routes; HTML forms cannot send DELETE.
	RouteSuffixDelete = "/delete"
	// RouteSuffixStatus is the suffix for status update routes.
	RouteSuffixStatus = "/status"

	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteParamSlug is the slug parameter pattern.
	RouteParamSlug = "/{slug}"
	// RouteLangPrefix is the optional language prefix for public pages.
	RouteLangPrefix = "/{lang:en|fr|ar}"

	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteBlog is the blog route.
	RouteBlog = "/blog"
	// RouteInscription is the public enrollment form.
	RouteInscription = "/inscription"
	// RoutePreferences accepts language and theme changes.
	RoutePreferences = "/preferences"

	// RouteBlogs is the blogs admin route.
	RouteBlogs = "/blogs"
	// RouteCategories is the categories admin route.
	RouteCategories = "/categories"
	// RouteCycles is the cycles admin route.
	RouteCycles = "/cycles"
	// RouteProfessors is the professors admin route.
	RouteProfessors = "/professors"
	// RouteTestimonials is the testimonials admin route.
	RouteTestimonials = "/testimonials"
	// RouteInscriptions is the inscriptions admin route.
	RouteInscriptions = "/inscriptions"
	// RouteSchoolYear is the school year admin route.
	RouteSchoolYear = "/school-year"
	// RouteEvents is the event log admin route.
	RouteEvents = "/events"
)

const (
	redirectAdmin             = "/admin"
	redirectAdminBlogs        = redirectAdmin + RouteBlogs
	redirectAdminCategories   = redirectAdmin + RouteCategories
	redirectAdminCycles       = redirectAdmin + RouteCycles
	redirectAdminProfessors   = redirectAdmin + RouteProfessors
	redirectAdminTestimonials = redirectAdmin + RouteTestimonials
	redirectAdminInscriptions = redirectAdmin + RouteInscriptions
	redirectAdminSchoolYear   = redirectAdmin + RouteSchoolYear
	redirectLogin             = RouteLogin

	redirectAdminBlogsID        = redirectAdminBlogs + "/%d"
	redirectAdminCategoriesID   = redirectAdminCategories + "/%d"
	redirectAdminCyclesID       = redirectAdminCycles + "/%d"
	redirectAdminProfessorsID   = redirectAdminProfessors + "/%d"
	redirectAdminTestimonialsID = redirectAdminTestimonials + "/%d"
	redirectAdminInscriptionsID = redirectAdminInscriptions + "/%d"
)

// Template names.
const (
	tmplLanding     = "public/landing"
	tmplBlog        = "public/blog"
	tmplPost        = "public/post"
	tmplInscription = "public/inscription"
	tmplNotFound    = "public/not_found"
	tmplLogin       = "auth/login"
)

// HeaderContentType is the Content-Type HTTP header name.
const HeaderContentType = "Content-Type"
